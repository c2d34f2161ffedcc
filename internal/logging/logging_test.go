package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, slog.LevelWarn)
	log.Info("hidden")
	log.Warn("rows dropped", "count", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "count=3") {
		t.Errorf("expected text attribute, got: %s", out)
	}

	buf.Reset()
	New(&buf, true, slog.LevelInfo).Info("built", "edges", 4)
	if !strings.Contains(buf.String(), `"edges":4`) {
		t.Errorf("expected JSON attribute, got: %s", buf.String())
	}
}
