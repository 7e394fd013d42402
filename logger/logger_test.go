package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedLogger(level Level, buf *bytes.Buffer) *standardLogger {
	l := NewLogger(level, buf).(*standardLogger)
	l.state.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	return l
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		logFunc  func(Logger)
		expected bool
	}{
		{"debug at debug", LevelDebug, func(l Logger) { l.Debug("msg") }, true},
		{"debug at info", LevelInfo, func(l Logger) { l.Debug("msg") }, false},
		{"info at info", LevelInfo, func(l Logger) { l.Info("msg") }, true},
		{"warn at error", LevelError, func(l Logger) { l.Warn("msg") }, false},
		{"error at error", LevelError, func(l Logger) { l.Error("msg") }, true},
		{"error at silent", LevelSilent, func(l Logger) { l.Error("msg") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(NewLogger(tt.level, &buf))

			if got := buf.Len() > 0; got != tt.expected {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.expected, buf.String())
			}
		})
	}
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(LevelInfo, &buf)

	l.Info("task finished", F("task", "abc"), F("exit", 0))

	want := "2026-03-04 05:06:07 [INFO] task finished | task=abc exit=0\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(LevelInfo, &buf)

	child := l.WithFields(F("component", "exec"))
	child.Info("started", F("program", "sh"))

	if !strings.Contains(buf.String(), "| component=exec program=sh") {
		t.Errorf("expected persistent and call fields, got %q", buf.String())
	}

	// Level changes on the parent apply to derived loggers
	l.SetLevel(LevelError)
	buf.Reset()
	child.Info("ignored")
	if buf.Len() != 0 {
		t.Errorf("expected derived logger to honour parent level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"off":     LevelSilent,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quill.log")

	l, closer, err := NewFileLogger(LevelInfo, path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	l.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[INFO] hello") {
		t.Errorf("log file missing entry: %q", data)
	}
}
