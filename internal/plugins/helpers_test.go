package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"vtlint/internal/finding"
	"vtlint/internal/patterns"
	"vtlint/internal/plugin"
)

var testCache = patterns.NewCache()

func contentCtx(path, content string) *plugin.FileContext {
	return &plugin.FileContext{File: path, Content: content, Patterns: testCache}
}

// writeFile creates root/rel with content and returns its path.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func diskCtx(t *testing.T, root, path string) *plugin.FileContext {
	t.Helper()
	ctx, err := plugin.NewFileContext(root, path, testCache)
	if err != nil {
		t.Fatalf("NewFileContext: %v", err)
	}
	return ctx
}

func messages(list []finding.Finding) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		out = append(out, f.Message)
	}
	return out
}

func wantSingle(t *testing.T, got []finding.Finding, kind finding.Kind, msg string) {
	t.Helper()
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d: %q", len(got), messages(got))
	}
	if got[0].Kind != kind {
		t.Fatalf("expected %s, got %s", kind, got[0].Kind)
	}
	if got[0].Message != msg {
		t.Fatalf("message mismatch\nwant: %q\ngot:  %q", msg, got[0].Message)
	}
}

func wantNone(t *testing.T, got []finding.Finding) {
	t.Helper()
	if len(got) != 0 {
		t.Fatalf("expected no findings, got %q", messages(got))
	}
}
