package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New("warn", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error should be enabled at warn level")
	}

	if _, err := New("debug", true); err != nil {
		t.Errorf("development logger: %v", err)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud", false); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
