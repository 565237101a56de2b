package registry

import (
	"fmt"
	"strings"
)

// Mode picks the catalogue for a run.
type Mode uint8

const (
	ModeStandard Mode = iota
	// ModeUpdate runs only the metadata touch-up catalogue, always in fix
	// mode, and cannot be filtered.
	ModeUpdate
)

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeUpdate:
		return "update"
	}
	return "unknown"
}

// ParseMode accepts "standard" and "update".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return ModeStandard, nil
	case "update":
		return ModeUpdate, nil
	}
	return ModeStandard, fmt.Errorf("unknown mode %q", s)
}

// Catalogues holds one catalogue per mode.
type Catalogues struct {
	Standard Catalogue
	Update   Catalogue
}

// For returns the catalogue of mode.
func (c Catalogues) For(mode Mode) Catalogue {
	if mode == ModeUpdate {
		return c.Update
	}
	return c.Standard
}

// SelectMode resolves mode and sel against cats.
func SelectMode(cats Catalogues, mode Mode, sel Selection) (*Active, error) {
	if mode == ModeUpdate && !sel.Empty() {
		return nil, fmt.Errorf("%w: update mode cannot be combined with --include or --exclude", ErrConflictingSelection)
	}
	return Select(cats.For(mode), sel)
}

// ForcesFix reports whether mode always runs fixers.
func (m Mode) ForcesFix() bool {
	return m == ModeUpdate
}
