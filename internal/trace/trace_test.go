package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelRecordsScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeRun, false},
		{LevelError, ScopeRun, false},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopePlugin, false},
		{LevelDebug, ScopePlugin, true},
	}
	for _, tc := range tests {
		if got := tc.level.Records(tc.scope); got != tc.want {
			t.Errorf("%s.Records(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		l, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if !strings.EqualFold(l.String(), name) {
			t.Fatalf("ParseLevel(%q) = %s", name, l)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStream(&buf, LevelDetail, FormatNDJSON)

	run := Begin(tr, ScopeRun, "run", 0)
	file := Begin(tr, ScopeFile, "file:a.nasl", run.ID())
	plug := Begin(tr, ScopePlugin, "plugin:check_tabs", file.ID())
	if plug.ID() != 0 {
		t.Fatalf("plugin span must be inert at detail level")
	}
	plug.End("")
	file.WithExtra("findings", "2").End("")
	run.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev["name"] != "file:a.nasl" || ev["kind"] != "end" || ev["seq"] != float64(3) {
		t.Fatalf("unexpected event: %v", ev)
	}
	extra, _ := ev["extra"].(map[string]any)
	if extra["findings"] != "2" {
		t.Fatalf("extra not recorded: %v", ev)
	}
}

func TestTextLine(t *testing.T) {
	ev := Event{
		Time:    time.Date(2024, 1, 2, 12, 0, 1, 250_000_000, time.UTC),
		Seq:     17,
		Kind:    KindEnd,
		Scope:   ScopeFile,
		Name:    "file:a.nasl",
		Detail:  "done",
		Elapsed: 1200 * time.Microsecond,
		Extra:   map[string]string{"b": "2", "a": "1"},
	}
	got := string(AppendEvent(nil, &ev, FormatText))
	want := "12:00:01.250 #17 file   end           file:a.nasl (done) 1.2ms {a=1, b=2}\n"
	if got != want {
		t.Fatalf("text line\n got %q\nwant %q", got, want)
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRing(3, LevelDebug)
	for i := 0; i < 5; i++ {
		Point(r, ScopePlugin, "p", "", 0)
	}
	events := r.Snapshot()
	if len(events) != 3 {
		t.Fatalf("want 3 events, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Seq != uint64(i+3) {
			t.Fatalf("event %d has seq %d, want %d", i, ev.Seq, i+3)
		}
	}
}

func TestContextFallsBackToNop(t *testing.T) {
	if Enabled(FromContext(context.Background())) {
		t.Fatalf("expected nop tracer")
	}
	r := NewRing(8, LevelError)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("tracer not propagated")
	}
	Begin(FromContext(ctx), ScopeRun, "run", 0).End("")
	Point(FromContext(ctx), ScopePlugin, "panic:check_tabs", "boom", 0)
	if got := len(r.Snapshot()); got != 1 {
		t.Fatalf("expected only the point at error level, got %d", got)
	}
}

func TestHeartbeatStops(t *testing.T) {
	r := NewRing(64, LevelPhase)
	stop := StartHeartbeat(context.Background(), r, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(r.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	stop()
	n := len(r.Snapshot())
	if n == 0 {
		t.Fatalf("no heartbeat emitted")
	}
	time.Sleep(5 * time.Millisecond)
	if got := len(r.Snapshot()); got != n {
		t.Fatalf("heartbeat kept running after stop: %d -> %d", n, got)
	}
}

func TestNewWithLevelOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if Enabled(tr) {
		t.Fatalf("expected disabled tracer")
	}
}
