// Package registry turns a plugin catalogue and an include/exclude
// selection into the ordered set of plugins a run executes.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"vtlint/internal/plugin"
)

var (
	// ErrConflictingSelection: include and exclude were both given, or a
	// filter was combined with update mode.
	ErrConflictingSelection = errors.New("conflicting plugin selection")
	ErrUnknownPlugin        = errors.New("unknown plugin")
	ErrNoPlugins            = errors.New("no plugin found")
	ErrDuplicatePlugin      = errors.New("duplicate plugin name")
)

// Catalogue is a named, ordered list of plugins split into the corpus-wide
// pre-run partition and the per-file partition.
type Catalogue struct {
	Name    string
	PreRun  []plugin.Plugin
	PerFile []plugin.Plugin
}

// All returns both partitions, pre-run first.
func (c Catalogue) All() []plugin.Plugin {
	out := make([]plugin.Plugin, 0, len(c.PreRun)+len(c.PerFile))
	out = append(out, c.PreRun...)
	return append(out, c.PerFile...)
}

// Names returns every plugin name in catalogue order.
func (c Catalogue) Names() []string {
	all := c.All()
	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name())
	}
	return names
}

// Lookup finds a plugin by name.
func (c Catalogue) Lookup(name string) (plugin.Plugin, bool) {
	for _, p := range c.All() {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Validate rejects duplicate names, plugins without exactly one variant and
// plugins placed in the wrong partition.
func (c Catalogue) Validate() error {
	seen := make(map[string]struct{}, len(c.PreRun)+len(c.PerFile))
	for _, p := range c.All() {
		if _, dup := seen[p.Name()]; dup {
			return fmt.Errorf("catalogue %s: %w: %s", c.Name, ErrDuplicatePlugin, p.Name())
		}
		seen[p.Name()] = struct{}{}
		if _, err := plugin.Variant(p); err != nil {
			return fmt.Errorf("catalogue %s: %w", c.Name, err)
		}
	}
	for _, p := range c.PreRun {
		if !plugin.CorpusWide(p) {
			return fmt.Errorf("catalogue %s: pre-run plugin %s is not corpus-wide", c.Name, p.Name())
		}
	}
	for _, p := range c.PerFile {
		if plugin.CorpusWide(p) {
			return fmt.Errorf("catalogue %s: per-file plugin %s is corpus-wide", c.Name, p.Name())
		}
	}
	return nil
}

// Selection filters a catalogue by plugin name. At most one of the lists
// may be non-empty.
type Selection struct {
	Include []string
	Exclude []string
}

// Empty reports whether no filter is set.
func (s Selection) Empty() bool {
	return len(s.Include) == 0 && len(s.Exclude) == 0
}

// Active is the result of a selection: the plugins to run, in catalogue
// order, plus what was filtered for reporting.
type Active struct {
	Catalogue string
	PreRun    []plugin.Plugin
	PerFile   []plugin.Plugin
	Included  []string
	Excluded  []string
}

// Len is the number of selected plugins.
func (a *Active) Len() int {
	return len(a.PreRun) + len(a.PerFile)
}

// Names returns the selected plugin names, pre-run first.
func (a *Active) Names() []string {
	names := make([]string, 0, a.Len())
	for _, p := range a.PreRun {
		names = append(names, p.Name())
	}
	for _, p := range a.PerFile {
		names = append(names, p.Name())
	}
	return names
}

// Select applies sel to cat. Errors are configuration errors and are
// returned before any file is touched.
func Select(cat Catalogue, sel Selection) (*Active, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if len(sel.Include) > 0 && len(sel.Exclude) > 0 {
		return nil, fmt.Errorf("%w: --include and --exclude are mutually exclusive", ErrConflictingSelection)
	}

	known := cat.Names()
	var unknown []string
	for _, name := range slices.Concat(sel.Include, sel.Exclude) {
		if !slices.Contains(known, name) && !slices.Contains(unknown, name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, strings.Join(unknown, ", "))
	}

	keep := func(p plugin.Plugin) bool {
		switch {
		case len(sel.Include) > 0:
			return slices.Contains(sel.Include, p.Name())
		case len(sel.Exclude) > 0:
			return !slices.Contains(sel.Exclude, p.Name())
		}
		return true
	}

	active := &Active{
		Catalogue: cat.Name,
		Included:  slices.Clone(sel.Include),
		Excluded:  slices.Clone(sel.Exclude),
	}
	for _, p := range cat.PreRun {
		if keep(p) {
			active.PreRun = append(active.PreRun, p)
		}
	}
	for _, p := range cat.PerFile {
		if keep(p) {
			active.PerFile = append(active.PerFile, p)
		}
	}
	if active.Len() == 0 {
		return nil, ErrNoPlugins
	}
	return active, nil
}
