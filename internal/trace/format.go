package trace

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
)

// ParseFormat accepts auto, text, ndjson and jsonl.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "jsonl":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatFor picks NDJSON for .ndjson and .jsonl paths and text otherwise.
func FormatFor(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

type jsonEvent struct {
	Time      string            `json:"time"`
	Seq       uint64            `json:"seq"`
	Kind      string            `json:"kind"`
	Scope     string            `json:"scope"`
	SpanID    uint64            `json:"span_id,omitempty"`
	ParentID  uint64            `json:"parent_id,omitempty"`
	Name      string            `json:"name"`
	Detail    string            `json:"detail,omitempty"`
	ElapsedUS int64             `json:"elapsed_us,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// AppendEvent appends one encoded line, newline included, to dst.
func AppendEvent(dst []byte, ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		data, err := json.Marshal(jsonEvent{
			Time:      ev.Time.Format(time.RFC3339Nano),
			Seq:       ev.Seq,
			Kind:      ev.Kind.String(),
			Scope:     ev.Scope.String(),
			SpanID:    ev.SpanID,
			ParentID:  ev.ParentID,
			Name:      ev.Name,
			Detail:    ev.Detail,
			ElapsedUS: ev.Elapsed.Microseconds(),
			Extra:     ev.Extra,
		})
		if err != nil {
			return dst
		}
		return append(append(dst, data...), '\n')
	}
	return appendText(dst, ev)
}

// 12:00:01.250 #17 file   end   file:a.nasl (2 findings) 1.2ms {k=v}
func appendText(dst []byte, ev *Event) []byte {
	dst = ev.Time.AppendFormat(dst, "15:04:05.000")
	dst = append(dst, " #"...)
	dst = strconv.AppendUint(dst, ev.Seq, 10)
	dst = fmt.Appendf(dst, " %-6s %-9s ", ev.Scope, ev.Kind)
	// вложенность по глубине scope
	if ev.Scope > ScopeRun {
		dst = append(dst, strings.Repeat("  ", int(ev.Scope-ScopeRun))...)
	}
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	if ev.Kind == KindEnd {
		dst = append(dst, ' ')
		dst = append(dst, ev.Elapsed.Round(time.Microsecond).String()...)
	}
	if len(ev.Extra) > 0 {
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		dst = append(dst, " {"...)
		for i, k := range keys {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = append(dst, k...)
			dst = append(dst, '=')
			dst = append(dst, ev.Extra[k]...)
		}
		dst = append(dst, '}')
	}
	return append(dst, '\n')
}
