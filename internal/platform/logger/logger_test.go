package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		"":        Info,
		"WARNING": Warn,
		"error":   Error,
		"bogus":   Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestJSONLogger_WritesFieldsAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "pawsera", Output: &buf})

	l.Debug("hidden", nil)
	l.With(map[string]any{"request_id": "r-1"}).Warn("upstream down", map[string]any{
		"service": "weather",
		"err":     errors.New("boom"),
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly 1 line (debug filtered), got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json line: %v", err)
	}
	if entry["msg"] != "upstream down" || entry["level"] != "warn" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if entry["app"] != "pawsera" || entry["request_id"] != "r-1" || entry["service"] != "weather" {
		t.Fatalf("missing fields in %#v", entry)
	}
	if entry["err"] != "boom" {
		t.Fatalf("expected err=boom, got %#v", entry["err"])
	}
}
