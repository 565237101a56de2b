package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Mode selects where events are kept.
type Mode uint8

const (
	ModeStream Mode = iota + 1
	ModeRing
)

func (m Mode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	}
	return "unknown"
}

// ParseMode accepts stream and ring.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	}
	return ModeStream, fmt.Errorf("invalid trace mode: %q (expected: stream|ring)", s)
}

// Config describes a tracer built by New.
type Config struct {
	Level  Level
	Mode   Mode
	Format Format
	// Output is "-" or empty for stderr, a file path otherwise. The
	// extensions .ndjson and .jsonl select NDJSON when Format is auto.
	Output   string
	RingSize int
}

const defaultRingSize = 4096

// New builds a tracer for cfg. Ring tracers write to Output on Close.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatFor(cfg.Output)
	}
	switch cfg.Mode {
	case ModeRing:
		size := cfg.RingSize
		if size <= 0 {
			size = defaultRingSize
		}
		r := NewRing(size, cfg.Level)
		r.dump, r.output, r.format = true, cfg.Output, format
		return r, nil
	case ModeStream, 0:
		w, err := openOutput(cfg.Output)
		if err != nil {
			return nil, err
		}
		return NewStream(w, cfg.Level, format), nil
	}
	return nil, fmt.Errorf("unknown trace mode: %v", cfg.Mode)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Stream writes every event as soon as it arrives.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	seq    uint64
	buf    []byte
}

// NewStream writes to w. Close closes w when it is an io.Closer.
func NewStream(w io.Writer, level Level, format Format) *Stream {
	return &Stream{w: w, level: level, format: format}
}

// Emit ignores write errors; a broken trace output never fails a run.
func (s *Stream) Emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	ev.Seq = s.seq
	s.buf = AppendEvent(s.buf[:0], &ev, s.format)
	_, _ = s.w.Write(s.buf)
}

func (s *Stream) Level() Level { return s.level }

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Ring keeps the most recent events in memory.
type Ring struct {
	mu     sync.Mutex
	events []Event
	next   int
	seq    uint64
	level  Level

	dump   bool
	output string
	format Format
}

// NewRing keeps at most size events.
func NewRing(size int, level Level) *Ring {
	if size <= 0 {
		size = defaultRingSize
	}
	return &Ring{events: make([]Event, 0, size), level: level}
}

func (r *Ring) Emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ev.Seq = r.seq
	if len(r.events) < cap(r.events) {
		r.events = append(r.events, ev)
		return
	}
	r.events[r.next] = ev
	r.next = (r.next + 1) % len(r.events)
}

// Snapshot returns the kept events, oldest first.
func (r *Ring) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, len(r.events))
	out = append(out, r.events[r.next:]...)
	return append(out, r.events[:r.next]...)
}

// WriteTo writes the snapshot in format.
func (r *Ring) WriteTo(w io.Writer, format Format) error {
	var buf []byte
	for _, ev := range r.Snapshot() {
		buf = AppendEvent(buf[:0], &ev, format)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func (r *Ring) Level() Level { return r.level }

// Close writes the ring to the output named in Config. Rings made with
// NewRing have no output and Close does nothing.
func (r *Ring) Close() error {
	if !r.dump {
		return nil
	}
	w, err := openOutput(r.output)
	if err != nil {
		return err
	}
	if err := r.WriteTo(w, r.format); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
