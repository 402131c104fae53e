package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetBeforeInitIsUsable(t *testing.T) {
	Set(nil)
	Get().Info("dropped", zap.String("k", "v"))
}

func TestToZapLevel(t *testing.T) {
	cases := map[LogLevel]zapcore.Level{
		DebugLevel: zapcore.DebugLevel,
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		"bogus":    zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Errorf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetCapturesEntries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	defer Set(nil)

	Get().Info("snapshot saved", zap.String("user_id", "u1"))
	Get().Debug("hidden")

	if logs.Len() != 1 {
		t.Fatalf("entries = %d, want 1", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "snapshot saved" {
		t.Errorf("message = %q, want %q", entry.Message, "snapshot saved")
	}
	if entry.ContextMap()["user_id"] != "u1" {
		t.Errorf("user_id = %v, want u1", entry.ContextMap()["user_id"])
	}
}
