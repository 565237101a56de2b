package plugins

import (
	"regexp"
	"strings"

	"vtlint/internal/finding"
	"vtlint/internal/plugin"
)

var (
	kbSetCall = regexp.MustCompile(`(?:set|replace)_kb_item\s*\(([^)]+)\)\s*;`)
	kbGetCall = regexp.MustCompile(`get_kb_(?:item|list)\s*\(([^)]+)\)\s*;`)
	kbParam   = regexp.MustCompile(`(name|value) ?:`)
)

// SetGetKBCalls checks the named parameters of KB calls: set_kb_item and
// replace_kb_item take exactly one name: and one value:, get_kb_item and
// get_kb_list take a positional key only. Includes are checked too.
type SetGetKBCalls struct{ base }

func (p SetGetKBCalls) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	var wrongSet, wrongGet []string
	for _, m := range kbSetCall.FindAllStringSubmatch(ctx.Content, -1) {
		if !namedOnce(kbParam.FindAllStringSubmatch(m[1], -1)) {
			wrongSet = append(wrongSet, m[0])
		}
	}
	for _, m := range kbGetCall.FindAllStringSubmatch(ctx.Content, -1) {
		if kbParam.MatchString(m[1]) {
			wrongGet = append(wrongGet, m[0])
		}
	}

	var out []finding.Finding
	if len(wrongSet) > 0 {
		out = append(out, finding.NewError(
			"The VT/Include is missing a 'name:' and/or 'value:' parameter:"+joinCalls(wrongSet)))
	}
	if len(wrongGet) > 0 {
		out = append(out, finding.NewError(
			"The VT/Include is using a non-existent 'name:' and/or 'value:' parameter:"+joinCalls(wrongGet)))
	}
	return out
}

// namedOnce reports whether params hold name: and value: exactly once each.
func namedOnce(params [][]string) bool {
	if len(params) != 2 {
		return false
	}
	return params[0][1] != params[1][1]
}

func joinCalls(calls []string) string {
	return "\n\t" + strings.Join(calls, "\n\t")
}
