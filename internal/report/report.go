// Package report renders what a run produced: the terminal view, the
// append-only log file, and machine-readable dumps.
package report

import (
	"fmt"
	"strings"
	"time"

	"vtlint/internal/finding"
	"vtlint/internal/plugin"
	"vtlint/internal/registry"
	"vtlint/internal/runner"
	"vtlint/internal/source"
)

// Options shared by the text reporters.
type Options struct {
	// Verbose mirrors the repeated -v flag: 0 prints only the closing
	// lines, 1 adds findings, 2 adds every checked file, 3 adds the plugin
	// banner and empty plugin results.
	Verbose int
	// Root shortens file headers to paths relative to it.
	Root string
}

type lineKind uint8

const (
	lineInfo lineKind = iota
	lineBold
	lineOK
	lineWarning
	lineError
)

// sink is where a presenter writes. Indentation only matters on the
// terminal; the log file uses its own fixed scheme.
type sink interface {
	line(kind lineKind, msg string)
	indent()
	dedent()
}

// presenter decides what is worth printing for a verbosity level.
type presenter struct {
	out  sink
	opts Options
}

func kindLine(k finding.Kind) lineKind {
	switch k {
	case finding.Error:
		return lineError
	case finding.Warning:
		return lineWarning
	}
	return lineOK
}

func (p *presenter) findings(list []finding.Finding) {
	for _, f := range list {
		p.out.line(kindLine(f.Kind), f.Message)
	}
}

func (p *presenter) plugins(active *registry.Active) {
	if p.opts.Verbose <= 2 {
		return
	}
	if len(active.PreRun) > 0 {
		p.out.line(lineInfo, "Pre-Run Plugins: "+joinNames(active.PreRun))
	}
	if len(active.Excluded) > 0 {
		p.out.line(lineInfo, "Excluded Plugins: "+strings.Join(active.Excluded, ", "))
	}
	if len(active.Included) > 0 {
		p.out.line(lineInfo, "Included Plugins: "+strings.Join(active.Included, ", "))
	}
	p.out.line(lineInfo, "Running plugins: "+joinNames(active.PerFile))
}

func (p *presenter) pluginResults(name string, list []finding.Finding) {
	switch {
	case len(list) > 0 && p.opts.Verbose > 0:
		p.out.line(lineInfo, "Results for plugin "+name)
	case p.opts.Verbose > 2:
		p.out.line(lineOK, "No results for plugin "+name)
	}
	if p.opts.Verbose > 0 {
		p.out.indent()
		p.findings(list)
		p.out.dedent()
	}
}

func (p *presenter) corpus(name string, list []finding.Finding) {
	p.out.indent()
	defer p.out.dedent()
	if len(list) > 0 && p.opts.Verbose > 0 || p.opts.Verbose > 1 {
		p.out.line(lineBold, "Run plugin "+name)
	}
	p.pluginResults(name, list)
}

func (p *presenter) file(res *runner.FileResult, index, total int) {
	if res.HasFindings() && p.opts.Verbose > 0 || p.opts.Verbose > 1 {
		p.out.line(lineBold, fmt.Sprintf("Checking %s (%d/%d)", p.display(res.Path), index, total))
	}
	p.out.indent()
	defer p.out.dedent()
	if p.opts.Verbose > 0 {
		p.findings(res.Generic)
	}
	for _, pr := range res.Plugins {
		p.pluginResults(pr.Plugin, pr.Findings)
	}
}

func (p *presenter) finish(s *runner.Summary) {
	if s.Interrupted {
		p.out.line(lineWarning, fmt.Sprintf("Interrupted: checked %d of %d files.", s.Checked, s.Files))
	}
	p.out.line(lineInfo, "Time elapsed: "+s.Elapsed.Round(time.Millisecond).String())
	if p.opts.Verbose > 1 {
		for _, ph := range s.Timings.Phases {
			p.out.line(lineInfo, fmt.Sprintf("  %-8s %9.2f ms", ph.Name, ph.DurationMS))
		}
	}
}

// display returns path relative to the root when possible.
func (p *presenter) display(path string) string {
	if p.opts.Root == "" {
		return path
	}
	rel, err := source.RelativePath(path, p.opts.Root)
	if err != nil {
		return path
	}
	return rel
}

func joinNames(list []plugin.Plugin) string {
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name())
	}
	return strings.Join(names, ", ")
}

// multi fans every call out in order.
type multi []runner.Reporter

// Multi combines reporters; nil entries are dropped.
func Multi(reporters ...runner.Reporter) runner.Reporter {
	var m multi
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multi) Plugins(a *registry.Active) {
	for _, r := range m {
		r.Plugins(a)
	}
}

func (m multi) CorpusResults(name string, list []finding.Finding) {
	for _, r := range m {
		r.CorpusResults(name, list)
	}
}

func (m multi) FileResults(res *runner.FileResult, index, total int) {
	for _, r := range m {
		r.FileResults(res, index, total)
	}
}

func (m multi) Finish(s *runner.Summary) {
	for _, r := range m {
		r.Finish(s)
	}
}
