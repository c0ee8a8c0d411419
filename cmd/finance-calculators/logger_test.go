package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/finance-calculators/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LoggingConfig
		override string
		wantErr  bool
		enabled  zapcore.Level
		disabled zapcore.Level
	}{
		{"Defaults to info", config.LoggingConfig{}, "", false, zapcore.InfoLevel, zapcore.DebugLevel},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"Override wins", config.LoggingConfig{Level: "debug"}, "error", false, zapcore.ErrorLevel, zapcore.WarnLevel},
		{"Warning alias", config.LoggingConfig{Level: "warning"}, "", false, zapcore.WarnLevel, zapcore.InfoLevel},
		{"Invalid level", config.LoggingConfig{Level: "loud"}, "", true, 0, 0},
		{"Invalid format", config.LoggingConfig{Format: "xml"}, "", true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.cfg, tt.override)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			core := logger.Core()
			if !core.Enabled(tt.enabled) {
				t.Errorf("expected level %v to be enabled", tt.enabled)
			}
			if core.Enabled(tt.disabled) {
				t.Errorf("expected level %v to be disabled", tt.disabled)
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "calc.log")

	logger, err := initializeLogger(config.LoggingConfig{Level: "info", Format: "json", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log output in file")
	}
}
