package logger

import (
	"testing"

	"github.com/samvad-hq/http-methods/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	S = nil
	InfoObj("msg", "k", 1)
	ErrorObj("msg", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close without init: %v", err)
	}
}

func TestInitFallsBackToInfoLevel(t *testing.T) {
	log, err := Init(&config.Config{AppName: "t", Env: "test", LogLevel: "bogus"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if log == nil || S == nil {
		t.Fatalf("expected logger to be initialized")
	}
	if S.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug should be disabled at info level")
	}
	S = nil
}

func TestZapLoggerWritesStructuredField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	S = zap.New(core).Sugar()
	defer func() { S = nil }()

	New().WarnObj("request failed", "http_transport_error", map[string]any{"kind": "timeout"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "request failed" || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("unexpected entry %#v", entries[0])
	}
	if _, ok := entries[0].ContextMap()["http_transport_error"]; !ok {
		t.Fatalf("missing structured field: %#v", entries[0].ContextMap())
	}
}
