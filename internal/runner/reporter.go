package runner

import (
	"vtlint/internal/finding"
	"vtlint/internal/registry"
)

// Reporter receives results as the run produces them. All methods are
// called from the controller goroutine only, so implementations need no
// locking.
type Reporter interface {
	// Plugins is called once, before any plugin runs.
	Plugins(active *registry.Active)
	// CorpusResults is called after each pre-run plugin.
	CorpusResults(plugin string, findings []finding.Finding)
	// FileResults is called once per checked file, in completion order.
	// index counts from 1.
	FileResults(res *FileResult, index, total int)
	// Finish is called once with the final summary, also after an interrupt.
	Finish(summary *Summary)
}

type nopReporter struct{}

func (nopReporter) Plugins(*registry.Active)                 {}
func (nopReporter) CorpusResults(string, []finding.Finding)  {}
func (nopReporter) FileResults(*FileResult, int, int)        {}
func (nopReporter) Finish(*Summary)                          {}
