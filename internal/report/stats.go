package report

import (
	"strings"

	"vtlint/internal/finding"
)

const (
	statNameWidth = 50
	statRule      = 80
)

// statistics prints one row per plugin that reported something, sorted by
// name, then the totals.
func (t *Terminal) statistics(c *finding.Counts) {
	t.print(nil, "%-*s %8s  %8s  %8s", statNameWidth, "Plugin", "Errors", "Warnings", "Fixes")
	t.print(nil, "%s", strings.Repeat("-", statRule))
	for _, name := range c.Plugins() {
		row := c.Plugin(name)
		col := t.warn
		if row.Errors > 0 {
			col = t.fail
		}
		t.print(col, "%-*s %8d  %8d  %8d", statNameWidth, name, row.Errors, row.Warnings, row.Fixes)
	}
	t.print(nil, "%s", strings.Repeat("-", statRule))
	t.print(t.info, "%-*s %8d  %8d  %8d", statNameWidth, "sum", c.Errors, c.Warnings, c.Fixes)
}
