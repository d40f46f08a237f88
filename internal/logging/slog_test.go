package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufLogger(t *testing.T, level slog.Level) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})
	return NewSlogLogger(slog.New(h)), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	return m
}

func TestSlogLogger_Levels(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		log  func(l *SlogLogger)
		want string
	}{
		{"debug", func(l *SlogLogger) { l.Debug(ctx, "m") }, "DEBUG"},
		{"info", func(l *SlogLogger) { l.Info(ctx, "m") }, "INFO"},
		{"warn", func(l *SlogLogger) { l.Warn(ctx, "m") }, "WARN"},
		{"error", func(l *SlogLogger) { l.Error(ctx, "m") }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufLogger(t, slog.LevelDebug)
			tt.log(l)
			m := decodeLine(t, buf)
			if m["level"] != tt.want {
				t.Fatalf("level: got %v want %v", m["level"], tt.want)
			}
			if m["msg"] != "m" {
				t.Fatalf("msg: got %v", m["msg"])
			}
		})
	}
}

func TestSlogLogger_With(t *testing.T) {
	l, buf := newBufLogger(t, slog.LevelInfo)

	child := l.With("module", "api")
	child.Info(context.Background(), "hello")

	m := decodeLine(t, buf)
	if m["module"] != "api" {
		t.Fatalf("expected module attr on child logger, got %v", m)
	}
}
