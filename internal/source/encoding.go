package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/charmap"
)

// Scripts are stored as ISO-8859-1. No detection or conversion is attempted:
// every byte maps to exactly one rune and back.
var legacy = charmap.ISO8859_1

// Decode converts raw legacy-encoded bytes to a Go string.
func Decode(raw []byte) (string, error) {
	out, err := legacy.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode latin1: %w", err)
	}
	return string(out), nil
}

// Encode converts s back to the legacy encoding. Runes outside the
// single-byte range are an error; nothing is written in that case.
func Encode(s string) ([]byte, error) {
	out, err := legacy.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode latin1: %w", err)
	}
	return out, nil
}

// ReadFile reads path once and decodes it with the legacy encoding.
func ReadFile(path string) (string, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Decode(raw)
}

// WriteFileAtomic encodes content and replaces path with it. The new bytes
// go to a temporary file in the same directory which is then renamed over
// the target, so readers observe either the old or the new file, never a
// truncated one. The original permission bits are kept.
func WriteFileAtomic(path, content string) error {
	data, err := Encode(content)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".vtlint-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmp := f.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = os.Chmod(tmp, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// Атомарная замена
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	committed = true
	return nil
}

// SplitLines splits content on "\n". A trailing newline produces a final
// empty element, matching how line numbers are counted by the checks.
func SplitLines(content string) []string {
	if content == "" {
		return []string{""}
	}
	lines := make([]string, 0, bytes.Count([]byte(content), []byte{'\n'})+1)
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, content[start:i])
			start = i + 1
		}
	}
	return append(lines, content[start:])
}
