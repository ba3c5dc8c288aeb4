package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"shiftlog/config"
)

func TestNew_UsesConfiguredLevel(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"console", "json"} {
		logger, err := New(config.LogConfig{Level: "warn", Format: format})
		if err != nil {
			t.Fatalf("New(%s) failed: %v", format, err)
		}
		if logger.Core().Enabled(zapcore.InfoLevel) {
			t.Fatalf("%s logger must not enable info at warn level", format)
		}
		if !logger.Core().Enabled(zapcore.ErrorLevel) {
			t.Fatalf("%s logger must enable error at warn level", format)
		}
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := New(config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
