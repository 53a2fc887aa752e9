package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithFieldsKeepsParentFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(&Config{Level: "debug"}, core).WithFields(Component("uploads"))
	log.WithFields(RepoID("abc")).Info("published")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["component"] != "uploads" || ctx["repo_id"] != "abc" {
		t.Fatalf("context = %v", ctx)
	}
}

func TestFileOutputWritesJSONLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	cfg := DefaultConfig()
	cfg.Output = OutputFile
	cfg.FilePath = path

	log, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("hello", FileCount(2))
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"hello"`) || !strings.Contains(string(data), `"file_count":2`) {
		t.Fatalf("unexpected log content: %s", data)
	}
}
