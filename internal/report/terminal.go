package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"vtlint/internal/finding"
	"vtlint/internal/registry"
	"vtlint/internal/runner"
)

// TerminalOptions configures the terminal reporter.
type TerminalOptions struct {
	Options
	Color bool
	// Statistic prints the per-plugin table after the run.
	Statistic bool
}

// Terminal prints findings to w as they arrive.
type Terminal struct {
	w     io.Writer
	opts  TerminalOptions
	depth int
	p     presenter

	info, bold, ok, warn, fail *color.Color
}

// NewTerminal returns a reporter printing to w.
func NewTerminal(w io.Writer, opts TerminalOptions) *Terminal {
	t := &Terminal{
		w:    w,
		opts: opts,
		info: color.New(color.FgCyan),
		bold: color.New(color.FgCyan, color.Bold),
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{t.info, t.bold, t.ok, t.warn, t.fail} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	t.p = presenter{out: t, opts: opts.Options}
	return t
}

func (t *Terminal) Plugins(a *registry.Active) { t.p.plugins(a) }

func (t *Terminal) CorpusResults(name string, list []finding.Finding) { t.p.corpus(name, list) }

func (t *Terminal) FileResults(res *runner.FileResult, index, total int) {
	t.p.file(res, index, total)
}

func (t *Terminal) Finish(s *runner.Summary) {
	t.p.finish(s)
	if t.opts.Statistic && !s.Interrupted {
		t.statistics(s.Counts)
	}
}

func (t *Terminal) indent() { t.depth++ }

func (t *Terminal) dedent() {
	if t.depth > 0 {
		t.depth--
	}
}

var symbols = map[lineKind]string{
	lineInfo:    "ℹ",
	lineBold:    "ℹ",
	lineOK:      "✓",
	lineWarning: "⚠",
	lineError:   "✗",
}

func (t *Terminal) colorOf(kind lineKind) *color.Color {
	switch kind {
	case lineBold:
		return t.bold
	case lineOK:
		return t.ok
	case lineWarning:
		return t.warn
	case lineError:
		return t.fail
	}
	return t.info
}

// line prints msg behind its symbol; continuation lines keep the indent.
func (t *Terminal) line(kind lineKind, msg string) {
	pad := strings.Repeat("    ", t.depth)
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", "\n"+pad+"  ")
	c := t.colorOf(kind)
	fmt.Fprintf(t.w, "%s%s %s\n", pad, c.Sprint(symbols[kind]), c.Sprint(msg))
}

// print writes a plain line in c.
func (t *Terminal) print(c *color.Color, format string, args ...any) {
	if c == nil {
		fmt.Fprintf(t.w, format+"\n", args...)
		return
	}
	fmt.Fprintln(t.w, c.Sprintf(format, args...))
}
