package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadFileDecodesLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.nasl")
	// 0xE9 is "é" in ISO-8859-1 and invalid as a lone UTF-8 byte.
	if err := os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "café" {
		t.Fatalf("expected %q, got %q", "café", got)
	}
}

func TestWriteFileAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.nasl")
	raw := []byte{'x', 0xFC, '\n'}
	if err := os.WriteFile(path, raw, 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}
	content, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := WriteFileAtomic(path, content); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(raw, after) {
		t.Fatalf("round trip changed bytes: %v -> %v", raw, after)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("expected mode 0640 to be kept, got %v", info.Mode().Perm())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestWriteFileAtomicRejectsUnencodableContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.nasl")
	if err := os.WriteFile(path, []byte("original"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteFileAtomic(path, "snowman ☃"); err == nil {
		t.Fatalf("expected an encoding error")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "original" {
		t.Fatalf("file modified after failed write: %q", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"a", []string{"a"}},
		{"a\nb", []string{"a", "b"}},
		{"a\nb\n", []string{"a", "b", ""}},
		{"a\r\nb", []string{"a\r", "b"}},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, SplitLines(tc.in)); diff != "" {
			t.Errorf("SplitLines(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}
