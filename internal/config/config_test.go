package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/quiz")

	cfg, err := load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Env != "local" {
		t.Fatalf("expected env=local got %q", cfg.Env)
	}
	if cfg.FeedbackAPI.BaseURL != "http://127.0.0.1:5000" {
		t.Fatalf("unexpected base url %q", cfg.FeedbackAPI.BaseURL)
	}
	if cfg.FeedbackAPI.Timeout != 60*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.FeedbackAPI.Timeout)
	}
	if cfg.Identity.Backend != IdentityBackendPostgres {
		t.Fatalf("unexpected backend %q", cfg.Identity.Backend)
	}
	if cfg.Quiz.SessionTTL != 2*time.Hour {
		t.Fatalf("unexpected session ttl %v", cfg.Quiz.SessionTTL)
	}
	dsn, err := cfg.DB.DSN()
	if err != nil || dsn != "postgres://localhost/quiz" {
		t.Fatalf("unexpected dsn %q err=%v", dsn, err)
	}
}

func TestLoad_TrimsBaseURL(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/quiz")
	t.Setenv("FEEDBACK_API_URL", "https://quiz.example.com/")

	cfg, err := load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FeedbackAPI.BaseURL != "https://quiz.example.com" {
		t.Fatalf("unexpected base url %q", cfg.FeedbackAPI.BaseURL)
	}
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/quiz")

	_, err := load(t.TempDir())
	if !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Fatalf("expected ErrMissingEnvironmentVariables got %v", err)
	}
}

func TestLoad_RedisBackendDoesNotNeedDatabase(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("IDENTITY_BACKEND", IdentityBackendRedis)

	cfg, err := load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Identity.Backend != IdentityBackendRedis {
		t.Fatalf("unexpected backend %q", cfg.Identity.Backend)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("IDENTITY_BACKEND", "memcached")

	_, err := load(t.TempDir())
	if !errors.Is(err, ErrUnknownIdentityBackend) {
		t.Fatalf("expected ErrUnknownIdentityBackend got %v", err)
	}
}

func TestLoad_LogLevelFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/quiz")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel)
	}
}
