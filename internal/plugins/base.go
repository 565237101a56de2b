// Package plugins contains the rule bodies shipped with vtlint and the two
// catalogues that order them.
package plugins

import (
	"path/filepath"
	"regexp"
	"strings"

	"vtlint/internal/patterns"
	"vtlint/internal/plugin"
	"vtlint/internal/source"
)

type base struct {
	name string
	desc string
}

func (b base) Name() string { return b.name }
func (b base) Description() string { return b.desc }

func isInclude(path string) bool {
	return filepath.Ext(path) == source.ExtInclude
}

// ignored reports whether any of the fragments occurs in path.
func ignored(path string, fragments []string) bool {
	p := filepath.ToSlash(path)
	for _, f := range fragments {
		if strings.Contains(p, f) {
			return true
		}
	}
	return false
}

var dependencyCleanup = regexp.MustCompile(`['"\s]`)

// splitDependencies turns the raw value of a script_dependencies() call
// into file names.
func splitDependencies(value string) []string {
	cleaned := dependencyCleanup.ReplaceAllString(value, "")
	if cleaned == "" {
		return nil
	}
	var deps []string
	for _, d := range strings.Split(cleaned, ",") {
		if d != "" {
			deps = append(deps, d)
		}
	}
	return deps
}

// dependencies returns every dependency declared in content.
func dependencies(cache *patterns.Cache, content string) []string {
	re := cache.Special(patterns.SpecialDependencies)
	var deps []string
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		deps = append(deps, splitDependencies(patterns.Group(re, m, "value"))...)
	}
	return deps
}

var deprecatedPattern = patterns.TagPattern("deprecated", "TRUE", patterns.Multiline)

func deprecated(content string) bool {
	return deprecatedPattern.MatchString(content)
}

// fallback serves contexts built without a cache, mostly in tests.
var fallback = patterns.NewCache()

func cache(ctx *plugin.FileContext) *patterns.Cache {
	if ctx.Patterns == nil {
		return fallback
	}
	return ctx.Patterns
}

func corpusCache(ctx *plugin.FilesContext) *patterns.Cache {
	if ctx.Patterns == nil {
		return fallback
	}
	return ctx.Patterns
}
