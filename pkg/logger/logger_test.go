package logger

import (
	"sync"
	"testing"

	"go.uber.org/zap/zapcore"
)

// resetGlobal resets package state between tests
func resetGlobal() {
	globalLogger = nil
	once = sync.Once{}
}

func TestGet_Uninitialized(t *testing.T) {
	resetGlobal()

	l := Get()
	if l == nil {
		t.Fatal("Get() returned nil, want no-op logger")
	}
	// Must not panic
	l.Info("no-op")
}

func TestInit_JSONFormat(t *testing.T) {
	resetGlobal()

	err := Init(Config{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if globalLogger == nil {
		t.Fatal("globalLogger is nil after Init")
	}
}

func TestInit_TextFormat(t *testing.T) {
	resetGlobal()

	err := Init(Config{Level: "info", Format: "text"})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if globalLogger == nil {
		t.Fatal("globalLogger is nil after Init")
	}
}

func TestInit_OnlyOnce(t *testing.T) {
	resetGlobal()

	if err := Init(Config{Level: "info", Format: "json"}); err != nil {
		t.Fatalf("first Init() error = %v", err)
	}
	first := globalLogger

	if err := Init(Config{Level: "debug", Format: "text"}); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if globalLogger != first {
		t.Error("second Init() replaced the logger, want no-op")
	}
}

func TestInit_FileOutput(t *testing.T) {
	resetGlobal()

	file := t.TempDir() + "/logs/app.log"
	err := Init(Config{Level: "info", Format: "json", File: file})
	if err != nil {
		t.Fatalf("Init() with file error = %v", err)
	}
	Info("write something")
	_ = Sync()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"bogus", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPackageHelpers_NoPanic(t *testing.T) {
	resetGlobal()
	// Helpers must be safe before Init
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	if err := Sync(); err != nil {
		t.Errorf("Sync() error = %v", err)
	}
}
