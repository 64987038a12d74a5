package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type bufCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufCloser) Close() error {
	b.closed = true
	return nil
}

func TestJSONLoggerWritesLines(t *testing.T) {
	buf := &bufCloser{}
	l := NewJSONLoggerTo(buf)
	l.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	child := l.With(map[string]any{"session": "s1"})

	child.Info("passage.load.done", map[string]any{"passage": "p01"})
	child.Error("result.persist_failed", map[string]any{"error": errors.New("disk full")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if first["msg"] != "passage.load.done" || first["session"] != "s1" || first["passage"] != "p01" || first["level"] != "info" {
		t.Fatalf("unexpected entry: %+v", first)
	}
	if first["ts"] != "2026-01-01T00:00:00Z" {
		t.Fatalf("unexpected ts: %v", first["ts"])
	}
	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if second["error"] != "disk full" || second["level"] != "error" {
		t.Fatalf("errors should be logged as strings: %+v", second)
	}

	if err := l.Close(); err != nil || !buf.closed {
		t.Fatalf("close: %v closed=%v", err, buf.closed)
	}
}

func TestJSONLoggerAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.jsonl")
	for i := 0; i < 2; i++ {
		l, err := NewJSONLogger(path)
		if err != nil {
			t.Fatalf("new logger: %v", err)
		}
		l.Info("app.start", nil)
		_ = l.Close()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := strings.Count(string(b), "\n"); n != 2 {
		t.Fatalf("expected 2 appended lines, got %d", n)
	}
}

func TestNilAndDiscardLoggers(t *testing.T) {
	var nilLogger *JSONLogger
	nilLogger.Info("ignored", nil)
	if nilLogger.With(nil) != nil {
		t.Fatalf("With on nil logger should stay nil")
	}
	l, err := NewJSONLogger("")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Warn("ignored", map[string]any{"k": 1})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestMetricsHandlerServesCounters(t *testing.T) {
	m := NewMetrics()
	m.Actions.WithLabelValues("type").Add(3)
	m.FocusCorrections.Inc()
	m.Results.WithLabelValues("true").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`clozedojo_actions_total{kind="type"} 3`,
		`clozedojo_focus_corrections_total 1`,
		`clozedojo_results_total{persisted="true"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}
