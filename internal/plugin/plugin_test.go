package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vtlint/internal/finding"
	"vtlint/internal/patterns"
)

type named string

func (n named) Name() string { return string(n) }
func (n named) Description() string { return "" }

type contentOnly struct{ named }

func (contentOnly) CheckContent(*FileContext) []finding.Finding { return nil }

type linesOnly struct{ named }

func (linesOnly) CheckLines(*FileContext) []finding.Finding { return nil }

type both struct{ named }

func (both) CheckContent(*FileContext) []finding.Finding { return nil }
func (both) CheckLines(*FileContext) []finding.Finding { return nil }

type readOnlyCheck struct{}

func (readOnlyCheck) Run() []finding.Finding { return nil }

type fixingCheck struct{ readOnlyCheck }

func (fixingCheck) Fix() ([]finding.Finding, error) { return nil, nil }

type fileFixer struct{ named }

func (fileFixer) NewCheck(*FileContext) Check { return fixingCheck{} }

type corpusReader struct{ named }

func (corpusReader) NewCorpusCheck(*FilesContext) Check { return readOnlyCheck{} }

func TestVariant(t *testing.T) {
	tests := []struct {
		p       Plugin
		want    VariantKind
		wantErr bool
	}{
		{contentOnly{"a"}, VariantFileContent, false},
		{linesOnly{"b"}, VariantLineContent, false},
		{fileFixer{"c"}, VariantFile, false},
		{corpusReader{"d"}, VariantFiles, false},
		{named("e"), VariantInvalid, true},
		{both{"f"}, VariantInvalid, true},
	}
	for _, tc := range tests {
		got, err := Variant(tc.p)
		if tc.wantErr {
			if !errors.Is(err, ErrVariant) {
				t.Errorf("%s: expected ErrVariant, got %v", tc.p.Name(), err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.p.Name(), err)
		}
		if got != tc.want {
			t.Errorf("%s: variant = %s, want %s", tc.p.Name(), got, tc.want)
		}
	}
}

func TestCanFixAndCorpusWide(t *testing.T) {
	if !CanFix(fileFixer{"x"}) {
		t.Errorf("fileFixer must report CanFix")
	}
	if CanFix(corpusReader{"y"}) || CanFix(contentOnly{"z"}) {
		t.Errorf("read-only plugins must not report CanFix")
	}
	if !CorpusWide(corpusReader{"y"}) || CorpusWide(fileFixer{"x"}) {
		t.Errorf("CorpusWide misclassified")
	}
}

func TestFileContextLinesAndWrite(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "sub", "a.nasl")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, err := NewFileContext(root, path, patterns.NewCache())
	if err != nil {
		t.Fatalf("NewFileContext: %v", err)
	}
	if diff := cmp.Diff([]string{"one", "two", ""}, ctx.Lines()); diff != "" {
		t.Fatalf("Lines mismatch (-want +got):\n%s", diff)
	}
	if got := ctx.Rel(); got != "sub/a.nasl" {
		t.Fatalf("Rel = %q", got)
	}
	if got := ctx.Ext(); got != ".nasl" {
		t.Fatalf("Ext = %q", got)
	}

	written, err := ctx.WriteContent(ctx.Content)
	if err != nil || written {
		t.Fatalf("unchanged content must not be written: written=%v err=%v", written, err)
	}
	written, err = ctx.WriteContent("one\n")
	if err != nil || !written {
		t.Fatalf("expected write: written=%v err=%v", written, err)
	}
	if ctx.Content != "one\ntwo\n" {
		t.Fatalf("snapshot mutated: %q", ctx.Content)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "one\n" {
		t.Fatalf("disk content = %q", data)
	}
}

func TestNewFileContextMissingFile(t *testing.T) {
	if _, err := NewFileContext("", filepath.Join(t.TempDir(), "nope.nasl"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRewriteBuildsOnPreviousWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.nasl")
	if err := os.WriteFile(path, []byte("a..\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, err := NewFileContext("", path, nil)
	if err != nil {
		t.Fatalf("NewFileContext: %v", err)
	}

	steps := []func(string) string{
		func(s string) string { return strings.Replace(s, "..", ".", 1) },
		func(s string) string { return strings.ReplaceAll(s, "\r\n", "\n") },
		func(s string) string { return s },
	}
	wantWritten := []bool{true, true, false}
	for i, edit := range steps {
		written, err := ctx.Rewrite(edit)
		if err != nil || written != wantWritten[i] {
			t.Fatalf("step %d: written=%v err=%v", i, written, err)
		}
	}
	if ctx.Content != "a..\r\n" {
		t.Fatalf("snapshot mutated: %q", ctx.Content)
	}
	if ctx.Current() != "a.\n" {
		t.Fatalf("Current = %q", ctx.Current())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "a.\n" {
		t.Fatalf("disk content = %q", data)
	}

	// a snapshot based write would drop both edits
	if _, err := ctx.WriteContent("b\n"); !errors.Is(err, ErrStale) {
		t.Fatalf("WriteContent after Rewrite: want ErrStale, got %v", err)
	}
}

func TestRewriteRefusesExternalChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.nasl")
	if err := os.WriteFile(path, []byte("one\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, err := NewFileContext("", path, nil)
	if err != nil {
		t.Fatalf("NewFileContext: %v", err)
	}
	if err := os.WriteFile(path, []byte("edited\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = ctx.Rewrite(func(s string) string { return s + "two\n" })
	if !errors.Is(err, ErrStale) {
		t.Fatalf("want ErrStale, got %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "edited\n" {
		t.Fatalf("external edit overwritten: %q", data)
	}
}
