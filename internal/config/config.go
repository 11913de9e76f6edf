package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownIdentityBackend      = errors.New("unknown identity backend")
)

// Identity backends.
const (
	IdentityBackendPostgres = "postgres"
	IdentityBackendRedis    = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string      `mapstructure:"env"`       // current application environment (local, dev, production etc)
	LogLevel         string      `mapstructure:"log_level"` // optional zap level override (debug, info, warn, error)
	TelegramAPIToken string      `mapstructure:"-"`         // Telegram API token loaded from environment
	FeedbackAPI      FeedbackAPI `mapstructure:"feedback_api"`
	Quiz             Quiz        `mapstructure:"quiz"`
	Identity         Identity    `mapstructure:"identity"`
	DB               DB          `mapstructure:"database"`
	Redis            Redis       `mapstructure:"redis"`
	HTTP             HTTP        `mapstructure:"http"`
}

// FeedbackAPI configures the remote questions/feedback/scoring server.
type FeedbackAPI struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"` // per request
}

// Quiz contains session lifetime parameters.
type Quiz struct {
	SessionTTL    time.Duration `mapstructure:"session_ttl"`    // idle time after which a session is dropped
	SweepInterval time.Duration `mapstructure:"sweep_interval"` // how often idle sessions are swept
}

// Identity selects where the login step persists username and grade.
type Identity struct {
	Backend string `mapstructure:"backend"` // postgres or redis
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Redis contains redis connection parameters.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"-"`
	DB       int    `mapstructure:"db"`
}

// HTTP configures the health/readiness listener.
type HTTP struct {
	Addr string `mapstructure:"addr"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return load("./config")
}

func load(configPath string) (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("feedback_api.base_url", "http://127.0.0.1:5000")
	v.SetDefault("feedback_api.timeout", "60s")
	v.SetDefault("quiz.session_ttl", "2h")
	v.SetDefault("quiz.sweep_interval", "10m")
	v.SetDefault("identity.backend", IdentityBackendPostgres)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("http.addr", ":8080")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("feedback_api.base_url", "FEEDBACK_API_URL")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("identity.backend", "IDENTITY_BACKEND")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.Redis.Password = v.GetString("redis_password")

	switch cfg.Identity.Backend {
	case IdentityBackendPostgres:
		cfg.DB.URL = v.GetString("database_url")
		if cfg.DB.URL == "" {
			return nil, ErrMissingEnvironmentVariables
		}
	case IdentityBackendRedis:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIdentityBackend, cfg.Identity.Backend)
	}

	cfg.FeedbackAPI.BaseURL = strings.TrimRight(cfg.FeedbackAPI.BaseURL, "/")

	return &cfg, nil
}
