package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"vtlint/internal/finding"
	"vtlint/internal/patterns"
	"vtlint/internal/plugin"
)

var (
	tagCall      = regexp.MustCompile(`script_tag\(.*\);`)
	tagCallForm  = patterns.TagPattern(`.*`, `.*`, 0)
	xrefCall     = regexp.MustCompile(`script_xref\(.*\);`)
	xrefCallForm = patterns.XrefPattern(`.*`, `.*`, 0)
)

// startsWith reports whether re matches s at offset 0.
func startsWith(re *regexp.Regexp, s string) bool {
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}

// ScriptTagForm checks the argument layout of script_tag() calls.
type ScriptTagForm struct{ base }

func (p ScriptTagForm) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	if isInclude(ctx.File) {
		return nil
	}
	var out []finding.Finding
	for _, call := range tagCall.FindAllString(ctx.Content, -1) {
		if !startsWith(tagCallForm, call) {
			out = append(out, finding.NewError(fmt.Sprintf(
				"%s: does not conform to script_tag(name:\"<name>\", value:<value>);", call)))
		}
	}
	return out
}

// ScriptXrefForm checks the argument layout of script_xref() calls.
type ScriptXrefForm struct{ base }

func (p ScriptXrefForm) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	if isInclude(ctx.File) {
		return nil
	}
	var out []finding.Finding
	for _, call := range xrefCall.FindAllString(ctx.Content, -1) {
		if !startsWith(xrefCallForm, call) {
			out = append(out, finding.NewError(fmt.Sprintf(
				"%s: does not conform to script_xref(name:\"<name>\", value:<value>);", call)))
		}
	}
	return out
}

var detectionFamily = patterns.SpecialPattern("family", `(Product|Service) detection`, patterns.Multiline)

// VTPlacement requires detection scripts to live directly in the VT root
// (or its gsf/ and attic/ subdirectories).
type VTPlacement struct{ base }

func (p VTPlacement) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	if !detectionFamily.MatchString(ctx.Content) || deprecated(ctx.Content) {
		return nil
	}
	root := ctx.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	absFile, err := filepath.Abs(ctx.File)
	if err != nil {
		return nil
	}
	dir := filepath.Dir(absFile)
	for _, allowed := range []string{
		absRoot,
		filepath.Join(absRoot, "gsf"),
		filepath.Join(absRoot, "attic"),
	} {
		if sameDir(dir, allowed) {
			return nil
		}
	}
	return []finding.Finding{finding.NewError(fmt.Sprintf(
		"VT '%s' should be placed in the root directory (%s).", ctx.File, root))}
}

func sameDir(a, b string) bool {
	if a == b {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
