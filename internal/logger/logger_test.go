package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/aliskhannn/feedback-quiz-bot/internal/config"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.Config
		debug bool
	}{
		{"development default", config.Config{Env: "local"}, true},
		{"production default", config.Config{Env: "production"}, false},
		{"override", config.Config{Env: "production", LogLevel: "debug"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, err := New(&tt.cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := lg.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Fatalf("debug enabled = %v, want %v", got, tt.debug)
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(&config.Config{LogLevel: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
