package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestFromContextWithoutLoggerDiscards(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatalf("expected a logger")
	}
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("fallback logger must discard")
	}
}

func TestNewJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(slog.LevelDebug, "json", &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Debug("file checked", "path", "a.nasl")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid json log: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "file checked" || rec["path"] != "a.nasl" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := New(slog.LevelInfo, "xml", &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
