package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		quiet     bool
		wantDebug bool
		wantWarn  bool
	}{
		{"default", false, false, false, true},
		{"verbose", true, false, true, true},
		{"quiet", false, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zapLogger{newLogger(&buf, tt.verbose, tt.quiet)}

			logger.Debug("debug message", "key", "value")
			logger.Warn("warn message")
			logger.Error("error message")

			out := buf.String()
			if got := strings.Contains(out, "debug message"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "warn message"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v\n%s", got, tt.wantWarn, out)
			}
			if !strings.Contains(out, "error message") {
				t.Errorf("error not logged:\n%s", out)
			}
		})
	}
}

func TestNewLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	zapLogger{newLogger(&buf, true, false)}.Info("installed", "name", "tool")

	if out := buf.String(); !strings.Contains(out, "INFO") || !strings.Contains(out, `"name": "tool"`) {
		t.Errorf("log line = %q", out)
	}
}

func TestNewProgress_NotTerminal(t *testing.T) {
	if newProgress(&bytes.Buffer{}, false) != nil {
		t.Error("progress should be disabled for non-terminal writers")
	}
}
