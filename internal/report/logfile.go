package report

import (
	"fmt"
	"os"
	"strings"

	"vtlint/internal/finding"
	"vtlint/internal/registry"
	"vtlint/internal/runner"
)

// LogFile appends the same lines the terminal shows to a plain text file.
// File headers start a new block, info lines get one tab, findings two.
type LogFile struct {
	f   *os.File
	p   presenter
	err error
}

// OpenLogFile opens path for appending, creating it if needed.
func OpenLogFile(path string, opts Options) (*LogFile, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := &LogFile{f: f}
	l.p = presenter{out: l, opts: opts}
	return l, nil
}

func (l *LogFile) Plugins(a *registry.Active) { l.p.plugins(a) }

func (l *LogFile) CorpusResults(name string, list []finding.Finding) { l.p.corpus(name, list) }

func (l *LogFile) FileResults(res *runner.FileResult, index, total int) {
	l.p.file(res, index, total)
}

func (l *LogFile) Finish(s *runner.Summary) { l.p.finish(s) }

// Close flushes the file and returns the first write error, if any.
func (l *LogFile) Close() error {
	if err := l.f.Close(); err != nil && l.err == nil {
		l.err = err
	}
	return l.err
}

func (l *LogFile) indent() {}
func (l *LogFile) dedent() {}

func (l *LogFile) line(kind lineKind, msg string) {
	if l.err != nil {
		return
	}
	var text string
	switch kind {
	case lineBold:
		text = "\n\n" + msg
	case lineInfo:
		text = "\t" + msg
	default:
		text = "\t\t" + strings.ReplaceAll(msg, "\n", "\n\t\t")
	}
	_, l.err = fmt.Fprintln(l.f, text)
}
