package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"vtlint/internal/finding"
	"vtlint/internal/observ"
	"vtlint/internal/registry"
	"vtlint/internal/runner"
)

// DumpFormat selects the encoding of a dump.
type DumpFormat uint8

const (
	DumpJSON DumpFormat = iota
	DumpMsgpack
)

func (f DumpFormat) String() string {
	if f == DumpMsgpack {
		return "msgpack"
	}
	return "json"
}

// ParseDumpFormat accepts json and msgpack.
func ParseDumpFormat(s string) (DumpFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return DumpJSON, nil
	case "msgpack", "mp":
		return DumpMsgpack, nil
	}
	return DumpJSON, fmt.Errorf("unknown dump format %q (want json|msgpack)", s)
}

// Document is the dump payload.
type Document struct {
	Catalogue   string                          `json:"catalogue" msgpack:"catalogue"`
	Plugins     []string                        `json:"plugins" msgpack:"plugins"`
	Corpus      []runner.PluginResult           `json:"corpus,omitempty" msgpack:"corpus,omitempty"`
	Files       []*runner.FileResult            `json:"files" msgpack:"files"`
	Statistics  map[string]finding.PluginCounts `json:"statistics" msgpack:"statistics"`
	Errors      int                             `json:"errors" msgpack:"errors"`
	Warnings    int                             `json:"warnings" msgpack:"warnings"`
	Fixes       int                             `json:"fixes" msgpack:"fixes"`
	Requested   uint32                          `json:"requested" msgpack:"requested"`
	Checked     uint32                          `json:"checked" msgpack:"checked"`
	Interrupted bool                            `json:"interrupted,omitempty" msgpack:"interrupted,omitempty"`
	Success     bool                            `json:"success" msgpack:"success"`
	Timings     observ.Report                   `json:"timings" msgpack:"timings"`
}

// Dump collects every result and writes one Document when the run ends.
type Dump struct {
	path   string
	format DumpFormat
	doc    Document
	err    error
}

// NewDump writes to path on Finish; "-" means stdout.
func NewDump(path string, format DumpFormat) *Dump {
	return &Dump{path: path, format: format}
}

func (d *Dump) Plugins(a *registry.Active) {
	d.doc.Catalogue = a.Catalogue
	d.doc.Plugins = a.Names()
}

func (d *Dump) CorpusResults(name string, list []finding.Finding) {
	d.doc.Corpus = append(d.doc.Corpus, runner.PluginResult{Plugin: name, Findings: list})
}

func (d *Dump) FileResults(res *runner.FileResult, _, _ int) {
	d.doc.Files = append(d.doc.Files, res)
}

func (d *Dump) Finish(s *runner.Summary) {
	// completion order is not stable across runs
	sort.Slice(d.doc.Files, func(i, j int) bool { return d.doc.Files[i].Path < d.doc.Files[j].Path })

	d.doc.Statistics = s.Counts.Snapshot()
	d.doc.Errors, d.doc.Warnings, d.doc.Fixes = s.Counts.Errors, s.Counts.Warnings, s.Counts.Fixes
	d.doc.Interrupted = s.Interrupted
	d.doc.Success = s.Success()
	d.doc.Timings = s.Timings

	var err error
	if d.doc.Requested, err = safecast.Conv[uint32](s.Files); err != nil {
		d.err = fmt.Errorf("dump: file count: %w", err)
		return
	}
	if d.doc.Checked, err = safecast.Conv[uint32](s.Checked); err != nil {
		d.err = fmt.Errorf("dump: checked count: %w", err)
		return
	}
	d.err = d.write()
}

// Err reports a failure to write the dump.
func (d *Dump) Err() error { return d.err }

// Document returns what was collected so far.
func (d *Dump) Document() *Document { return &d.doc }

func (d *Dump) write() error {
	if d.path == "-" {
		return Encode(os.Stdout, &d.doc, d.format)
	}
	f, err := os.Create(d.path)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	if err := Encode(f, &d.doc, d.format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	return nil
}

// Encode writes doc to w.
func Encode(w io.Writer, doc *Document, format DumpFormat) error {
	switch format {
	case DumpMsgpack:
		enc := msgpack.NewEncoder(w)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("dump: msgpack: %w", err)
		}
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("dump: json: %w", err)
		}
	}
	return nil
}

// Decode reads a document written by Encode.
func Decode(r io.Reader, format DumpFormat) (*Document, error) {
	var doc Document
	switch format {
	case DumpMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("dump: msgpack: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("dump: json: %w", err)
		}
	}
	return &doc, nil
}
