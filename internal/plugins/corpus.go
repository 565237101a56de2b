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

// DuplicateOID reports OIDs declared by more than one script.
type DuplicateOID struct{ base }

func (p DuplicateOID) NewCorpusCheck(ctx *plugin.FilesContext) plugin.Check {
	return &duplicateOIDCheck{ctx: ctx}
}

type duplicateOIDCheck struct {
	ctx *plugin.FilesContext
}

func (c *duplicateOIDCheck) Run() []finding.Finding {
	re := corpusCache(c.ctx).Special(patterns.SpecialOID)

	var (
		order []string
		owner = make(map[string][]string)
		out   []finding.Finding
	)
	for _, path := range c.ctx.Files {
		if filepath.Ext(path) != source.ExtScript {
			continue
		}
		content, err := c.ctx.ReadFile(path)
		if err != nil {
			// unreadable files are reported by the per-file phase
			continue
		}
		m := re.FindStringSubmatch(content)
		if m == nil {
			out = append(out, finding.NewInfo(fmt.Sprintf("No OID found in VT '%s'", path)).WithFile(path))
			continue
		}
		oid := patterns.Group(re, m, "oid")
		if _, seen := owner[oid]; !seen {
			order = append(order, oid)
		}
		owner[oid] = append(owner[oid], path)
	}

	for _, oid := range order {
		files := owner[oid]
		if len(files) < 2 {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "OID '%s' of VT '%s' already in use in following files:", oid, files[0])
		for _, other := range files[1:] {
			fmt.Fprintf(&sb, "\r\n- '%s'", other)
		}
		out = append(out, finding.NewError(sb.String()).WithFile(files[0]))
	}
	return out
}

// Dependencies reports script_dependencies() entries that do not resolve
// to a script of the corpus or of the VT root.
type Dependencies struct{ base }

func (p Dependencies) NewCorpusCheck(ctx *plugin.FilesContext) plugin.Check {
	return &dependenciesCheck{ctx: ctx}
}

type dependenciesCheck struct {
	ctx   *plugin.FilesContext
	known map[string]struct{}
}

func (c *dependenciesCheck) Run() []finding.Finding {
	c.known = make(map[string]struct{}, len(c.ctx.Files))
	for _, path := range c.ctx.Files {
		c.known[c.ctx.Rel(path)] = struct{}{}
	}

	cache := corpusCache(c.ctx)
	var out []finding.Finding
	for _, path := range c.ctx.Files {
		if isInclude(path) {
			continue
		}
		content, err := c.ctx.ReadFile(path)
		if err != nil {
			continue
		}
		for _, dep := range dependencies(cache, content) {
			if c.exists(dep) {
				continue
			}
			out = append(out, finding.NewError(
				fmt.Sprintf("The script dependency %s could not be found within the VTs.", dep),
			).WithFile(path))
		}
	}
	return out
}

func (c *dependenciesCheck) exists(dep string) bool {
	dep = filepath.ToSlash(filepath.Clean(dep))
	if _, ok := c.known[dep]; ok {
		return true
	}
	if _, ok := c.known["gsf/"+dep]; ok {
		return true
	}
	for _, candidate := range []string{
		filepath.Join(c.ctx.Root, dep),
		filepath.Join(c.ctx.Root, "gsf", dep),
	} {
		if _, err := os.Stat(candidate); err == nil {
			return true
		}
	}
	return false
}
