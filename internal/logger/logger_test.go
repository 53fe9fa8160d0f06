package logger

import (
	"log/slog"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expect    slog.Level
		expectErr bool
	}{
		{"debug", "debug", slog.LevelDebug, false},
		{"default-info", "", slog.LevelInfo, false},
		{"warn", "warn", slog.LevelWarn, false},
		{"warning-alias", "warning", slog.LevelWarn, false},
		{"error", "error", slog.LevelError, false},
		{"invalid", "verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := levelFromString(tt.input)
			if tt.expectErr && err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if lvl != tt.expect {
				t.Errorf("expected %v, got %v", tt.expect, lvl)
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Config{Level: "shout"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNew_ValidConfigs(t *testing.T) {
	for _, env := range []string{"", "dev", "prod"} {
		if _, err := New(Config{Level: "info", Environment: env}); err != nil {
			t.Fatalf("env %q: unexpected error: %v", env, err)
		}
	}
}
