package plugins

import (
	"fmt"
	"regexp"
	"strings"

	"vtlint/internal/finding"
	"vtlint/internal/plugin"
)

// grammarProblems matches frequent wording mistakes in descriptions and
// comments. RE2 has no back references, so doubled words are spelled out.
var grammarProblems = regexp.MustCompile(`(?i)\b(` +
	`an?\s+the|the\s+the|a\s+an|an\s+a` +
	`|an\s+(?:unique|universal|user|usage|utility|update|upgrade|useful|USB|URL)` +
	`|a\s+(?:attacker|unauthenticated|authenticated|integer|overflow|out-of-bounds|information|issue|input|arbitrary)` +
	`|this\s+vulnerabilities|these\s+vulnerability` +
	`|an?\s+remote\s+attackers` +
	`|to\s+to|of\s+of|is\s+is|in\s+in|and\s+and|with\s+with|for\s+for|be\s+be|on\s+on|or\s+or|that\s+that` +
	`|(?:could|would|should|might|must)\s+of` +
	`|denial\s+of\s+services` +
	`|allows?\s+to\s+(?:execute|cause|gain|obtain|read|bypass)` +
	`)\b`)

// "that that" is fine in "the fact that that ..."
var grammarExceptions = []string{"that that"}

// Grammar reports wording problems such as doubled words or wrong articles.
type Grammar struct{ base }

func (p Grammar) NewCheck(ctx *plugin.FileContext) plugin.Check {
	return &grammarCheck{ctx: ctx}
}

type grammarCheck struct {
	ctx *plugin.FileContext
}

func (c *grammarCheck) Run() []finding.Finding {
	var out []finding.Finding
	for _, line := range c.ctx.Lines() {
		// references are quoted verbatim from third parties
		if strings.Contains(line, "script_xref(") {
			continue
		}
		for _, m := range grammarProblems.FindAllString(line, -1) {
			if grammarFalsePositive(m) {
				continue
			}
			out = append(out, finding.NewError(fmt.Sprintf(
				"VT/Include has the following grammar problem: %s", m)))
		}
	}
	return out
}

func grammarFalsePositive(match string) bool {
	normalized := strings.ToLower(strings.Join(strings.Fields(match), " "))
	for _, e := range grammarExceptions {
		if normalized == e {
			return true
		}
	}
	return false
}
