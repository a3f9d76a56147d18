package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	logger, err := New("debug")
	if err != nil {
		t.Fatalf("New(debug) error = %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}

	logger, err = New("")
	if err != nil {
		t.Fatalf("New(\"\") error = %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("default level should not log debug")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
