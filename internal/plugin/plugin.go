// Package plugin defines what a check must implement to be run by the
// engine, and the contexts handed to it.
//
// A plugin implements exactly one variant:
//
//	FileContentPlugin  path + whole content
//	LineContentPlugin  path + lines
//	FilePlugin         per-file Check, may fix
//	FilesPlugin        corpus-wide Check, may fix
package plugin

import (
	"errors"
	"fmt"
	"strings"

	"vtlint/internal/finding"
)

// Plugin is the identity every check carries. Name is the stable key used
// for selection and statistics.
type Plugin interface {
	Name() string
	Description() string
}

type FileContentPlugin interface {
	Plugin
	CheckContent(ctx *FileContext) []finding.Finding
}

type LineContentPlugin interface {
	Plugin
	CheckLines(ctx *FileContext) []finding.Finding
}

// FilePlugin builds a fresh Check per file.
type FilePlugin interface {
	Plugin
	NewCheck(ctx *FileContext) Check
}

// FilesPlugin builds a fresh Check over the whole corpus.
type FilesPlugin interface {
	Plugin
	NewCorpusCheck(ctx *FilesContext) Check
}

// Check is a single invocation of a stateful plugin. Run must not touch
// the filesystem.
type Check interface {
	Run() []finding.Finding
}

// Fixer is implemented by checks that can rewrite files. Fix either writes
// the complete new content or leaves the file untouched, and returns Fix
// findings describing what changed (none if there was nothing to do).
type Fixer interface {
	Fix() ([]finding.Finding, error)
}

// VariantKind tells how the runner must drive a plugin.
type VariantKind uint8

const (
	VariantInvalid VariantKind = iota
	VariantFileContent
	VariantLineContent
	VariantFile
	VariantFiles
)

func (v VariantKind) String() string {
	switch v {
	case VariantFileContent:
		return "file-content"
	case VariantLineContent:
		return "line-content"
	case VariantFile:
		return "file"
	case VariantFiles:
		return "files"
	}
	return "invalid"
}

// ErrVariant is returned when a plugin implements zero or several variants.
var ErrVariant = errors.New("plugin must implement exactly one variant")

// Variant inspects p and reports which variant it implements.
func Variant(p Plugin) (VariantKind, error) {
	var found []VariantKind
	if _, ok := p.(FileContentPlugin); ok {
		found = append(found, VariantFileContent)
	}
	if _, ok := p.(LineContentPlugin); ok {
		found = append(found, VariantLineContent)
	}
	if _, ok := p.(FilePlugin); ok {
		found = append(found, VariantFile)
	}
	if _, ok := p.(FilesPlugin); ok {
		found = append(found, VariantFiles)
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return VariantInvalid, fmt.Errorf("%s: %w (found none)", p.Name(), ErrVariant)
	default:
		names := make([]string, 0, len(found))
		for _, v := range found {
			names = append(names, v.String())
		}
		return VariantInvalid, fmt.Errorf("%s: %w (found %s)", p.Name(), ErrVariant, strings.Join(names, ", "))
	}
}

// CorpusWide reports whether p needs the whole file list.
func CorpusWide(p Plugin) bool {
	_, ok := p.(FilesPlugin)
	return ok
}

// CanFix reports whether the checks built by p implement Fixer. Only the
// stateful variants can fix; the probe uses an empty context and never
// calls Run or Fix.
func CanFix(p Plugin) bool {
	switch v := p.(type) {
	case FilePlugin:
		_, ok := v.NewCheck(&FileContext{}).(Fixer)
		return ok
	case FilesPlugin:
		_, ok := v.NewCorpusCheck(&FilesContext{}).(Fixer)
		return ok
	}
	return false
}
