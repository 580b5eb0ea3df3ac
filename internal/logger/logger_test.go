package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		" warn ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewBuildsBothEncoders(t *testing.T) {
	for _, pretty := range []bool{true, false} {
		l := New("debug", pretty)
		child := l.With(String("component", "test"))
		child.Debug("hello", Int("n", 1), Bool("ok", true))
		_ = l.Sync()
	}
}
