package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LevelWarn, &buf, "")

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below the level must be suppressed:\n%s", out)
	}
	if !strings.Contains(out, "WARN warn message") {
		t.Errorf("missing warn line:\n%s", out)
	}
	if !strings.Contains(out, "ERROR error message") {
		t.Errorf("missing error line:\n%s", out)
	}
}

func TestFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LevelDebug, &buf, "xchain: ")

	l.Info("attempt %d of %d", 3, 30)

	if !strings.Contains(buf.String(), "INFO xchain: attempt 3 of 30") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LevelDebug, &buf, "")

	l.WithPrefix("spv").Info("ready")
	if !strings.Contains(buf.String(), "spv: ready") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	l.WithPrefix("workflow").WithPrefix("spv").Info("ready")
	if !strings.Contains(buf.String(), "workflow: spv: ready") {
		t.Errorf("nested prefixes not applied: %s", buf.String())
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
