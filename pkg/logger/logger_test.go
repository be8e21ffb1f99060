package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestSetMode(t *testing.T) {
	defer SetMode("release")

	tests := []struct {
		mode string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"release", zapcore.InfoLevel},
		{"test", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		SetMode(tt.mode)
		if got := Level(); got != tt.want {
			t.Errorf("SetMode(%q): level = %v, want %v", tt.mode, got, tt.want)
		}
	}
}
