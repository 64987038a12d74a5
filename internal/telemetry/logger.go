package telemetry

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// JSONLogger writes one JSON object per line. Child loggers made with With
// share the writer and add their base fields to every entry.
type JSONLogger struct {
	sink *sink
	base map[string]any
	now  func() time.Time
}

type sink struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// NewJSONLogger appends to path. An empty path discards everything.
func NewJSONLogger(path string) (*JSONLogger, error) {
	if path == "" {
		return NewJSONLoggerTo(nopCloser{Writer: io.Discard}), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return NewJSONLoggerTo(f), nil
}

func NewJSONLoggerTo(w io.WriteCloser) *JSONLogger {
	return &JSONLogger{sink: &sink{w: w}, now: time.Now}
}

// With returns a logger that adds fields to every entry.
func (l *JSONLogger) With(fields map[string]any) *JSONLogger {
	if l == nil {
		return nil
	}
	base := make(map[string]any, len(l.base)+len(fields))
	for k, v := range l.base {
		base[k] = v
	}
	for k, v := range fields {
		base[k] = v
	}
	return &JSONLogger{sink: l.sink, base: base, now: l.now}
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	l.log("info", msg, fields)
}

func (l *JSONLogger) Warn(msg string, fields map[string]any) {
	l.log("warn", msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	l.log("error", msg, fields)
}

func (l *JSONLogger) log(level, msg string, fields map[string]any) {
	if l == nil || l.sink == nil {
		return
	}
	entry := make(map[string]any, len(l.base)+len(fields)+3)
	for k, v := range l.base {
		entry[k] = v
	}
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["ts"] = l.now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level
	entry["msg"] = msg
	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]any{"ts": entry["ts"], "level": "error", "msg": "log.marshal_failed", "event": msg})
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = l.sink.w.Write(append(b, '\n'))
}

func (l *JSONLogger) Close() error {
	if l == nil || l.sink == nil {
		return nil
	}
	return l.sink.w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
