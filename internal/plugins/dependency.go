package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vtlint/internal/finding"
	"vtlint/internal/patterns"
	"vtlint/internal/plugin"
	"vtlint/internal/source"
)

var dependenciesMultiline = patterns.SpecialPattern("dependencies", patterns.AnyValue, patterns.Multiline|patterns.DotAll)

// MalformedDependencies checks that quoted entries of script_dependencies()
// are separated by exactly one comma each.
type MalformedDependencies struct{ base }

func (p MalformedDependencies) NewCheck(ctx *plugin.FileContext) plugin.Check {
	return &malformedDependenciesCheck{ctx: ctx}
}

type malformedDependenciesCheck struct {
	ctx *plugin.FileContext
}

func (c *malformedDependenciesCheck) Run() []finding.Finding {
	if isInclude(c.ctx.File) {
		return nil
	}
	re := dependenciesMultiline
	var out []finding.Finding
	for _, m := range re.FindAllStringSubmatch(c.ctx.Content, -1) {
		value := patterns.Group(re, m, "value")
		if value != "" {
			// the outer quotes are consumed by the pattern
			value = `"` + value + `"`
		}
		quotes := strings.Count(value, `"`) + strings.Count(value, `'`)
		commas := strings.Count(value, ",")
		// n quoted entries need n-1 commas
		if quotes >= 2 && commas*2 != quotes-2 {
			out = append(out, finding.NewError(
				"The script dependency value is malformed and contains an invalid ratio of quoted entries to commas"))
		}
	}
	return out
}

// DependencyCategoryOrder forbids depending on scripts that run in a later
// category, and depending on ACT_SCANNER scripts at all.
type DependencyCategoryOrder struct{ base }

func (p DependencyCategoryOrder) NewCheck(ctx *plugin.FileContext) plugin.Check {
	return &categoryOrderCheck{ctx: ctx}
}

type categoryOrderCheck struct {
	ctx *plugin.FileContext
}

func (c *categoryOrderCheck) Run() []finding.Finding {
	if !strings.Contains(c.ctx.Content, "script_dependencies(") {
		return nil
	}
	cc := cache(c.ctx)
	name := filepath.Base(c.ctx.File)

	category, raw, status := scriptCategory(cc, c.ctx.Content)
	switch status {
	case categoryMissing:
		return []finding.Finding{finding.NewError(fmt.Sprintf("%s: Script category is missing.", name))}
	case categoryUnsupported:
		return []finding.Finding{finding.NewError(fmt.Sprintf("%s: Script category %s is unsupported.", name, raw))}
	}

	var out []finding.Finding
	for _, dep := range dependencies(cc, c.ctx.Content) {
		// dynamically built names cannot be resolved statically
		if strings.Contains(dep, "+d+.nasl") {
			continue
		}
		path, ok := c.resolve(dep)
		if !ok {
			// reported by check_dependencies
			continue
		}
		content, err := source.ReadFile(path)
		if err != nil {
			continue
		}
		depCategory, depRaw, depStatus := scriptCategory(cc, content)
		switch depStatus {
		case categoryMissing:
			out = append(out, finding.NewError(fmt.Sprintf("%s: Script category is missing.", filepath.Base(path))))
			continue
		case categoryUnsupported:
			out = append(out, finding.NewError(fmt.Sprintf(
				"%s: Script category %s is unsupported.", filepath.Base(path), depRaw)))
			continue
		}

		if category < depCategory {
			out = append(out, finding.NewError(fmt.Sprintf(
				"Script category %s(%d) is lower than the category %s(%d) of the dependency %s.",
				category, int(category), depCategory, int(depCategory), dep)))
		}
		if depCategory == ActScanner && dep != "host_alive_detection.nasl" {
			out = append(out, finding.NewError(fmt.Sprintf(
				"Script depends on %s which has the category %s(%d), but no VT is allowed to have a direct dependency to VTs in this category.",
				dep, depCategory, int(depCategory))))
		}
	}
	return out
}

func (c *categoryOrderCheck) resolve(dep string) (string, bool) {
	root := c.ctx.Root
	if root == "" {
		root = filepath.Dir(c.ctx.File)
	}
	for _, candidate := range []string{
		filepath.Join(root, dep),
		filepath.Join(root, "gsf", dep),
	} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
