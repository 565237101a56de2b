package runner

import (
	"time"

	"vtlint/internal/finding"
	"vtlint/internal/observ"
	"vtlint/internal/registry"
)

// PluginResult is what one plugin reported for one file.
type PluginResult struct {
	Plugin   string            `json:"plugin" msgpack:"plugin"`
	Findings []finding.Finding `json:"findings" msgpack:"findings"`
}

// FileResult collects everything reported for one file. Plugins is in
// catalogue order.
type FileResult struct {
	Path    string            `json:"path" msgpack:"path"`
	Generic []finding.Finding `json:"generic,omitempty" msgpack:"generic,omitempty"`
	Plugins []PluginResult    `json:"plugins,omitempty" msgpack:"plugins,omitempty"`
	// Skipped is set when no plugin ran (unreadable file, wrong extension).
	Skipped bool `json:"skipped,omitempty" msgpack:"skipped,omitempty"`
}

// Lookup returns the findings of plugin, if it ran.
func (r *FileResult) Lookup(plugin string) ([]finding.Finding, bool) {
	for _, pr := range r.Plugins {
		if pr.Plugin == plugin {
			return pr.Findings, true
		}
	}
	return nil, false
}

// HasFindings reports whether anything at all was reported for the file.
func (r *FileResult) HasFindings() bool {
	if len(r.Generic) > 0 {
		return true
	}
	for _, pr := range r.Plugins {
		if len(pr.Findings) > 0 {
			return true
		}
	}
	return false
}

// All flattens generic and plugin findings, generic first.
func (r *FileResult) All() []finding.Finding {
	out := append([]finding.Finding(nil), r.Generic...)
	for _, pr := range r.Plugins {
		out = append(out, pr.Findings...)
	}
	return out
}

// Summary is the outcome of a run.
type Summary struct {
	Active      *registry.Active
	Counts      *finding.Counts
	Files       int // files requested
	Checked     int // files whose result reached the controller
	Interrupted bool
	Elapsed     time.Duration
	Timings     observ.Report
}

// Success is true iff the run completed and no error was counted.
func (s *Summary) Success() bool {
	return !s.Interrupted && s.Counts.Success()
}
