// Package trace records what a lint run is doing as a tree of spans: the
// run, its phases, every file and every plugin invocation.
//
//	vtlint --trace=run.ndjson --trace-level=debug scripts/
//
// Events go either straight to a writer (stream mode) or into a bounded
// in-memory ring that is written out when the run ends (ring mode). The
// level decides how deep the tree goes:
//
//   - phase: run and phase spans
//   - detail: plus one span per file
//   - debug: plus one span per plugin call
//
// A heartbeat keeps emitting while the run is alive, so a plugin that never
// returns shows up as heartbeats after an unmatched begin.
package trace
