package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	MovieListPath    string `env:"MOVIE_LIST_PATH" default:"data/movielist.csv"`
	ImportOnStartup  bool   `env:"IMPORT_ON_STARTUP" default:"true"`
	ProducerSplitAnd bool   `env:"PRODUCER_SPLIT_AND" default:"false"`
	MaxImportBytes   int64  `env:"MAX_IMPORT_BYTES" default:"10485760"` // 10 MiB

	// Per client IP. Zero disables the limit.
	ImportRateLimit float64 `env:"IMPORT_RATE_LIMIT" default:"0.5"`
	ImportRateBurst int     `env:"IMPORT_RATE_BURST" default:"5"`

	CacheTTL     time.Duration `env:"CACHE_TTL" default:"10m"`
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT" default:"5s"`
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", cfg.Port)
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	if cfg.QueryTimeout <= 0 {
		return errors.New("QUERY_TIMEOUT must be positive")
	}
	if cfg.MaxImportBytes <= 0 {
		return errors.New("MAX_IMPORT_BYTES must be positive")
	}

	if cfg.ImportRateLimit < 0 {
		return errors.New("IMPORT_RATE_LIMIT must not be negative")
	}
	if cfg.ImportRateLimit > 0 && cfg.ImportRateBurst < 1 {
		return errors.New("IMPORT_RATE_BURST must be at least 1 when IMPORT_RATE_LIMIT is set")
	}

	if cfg.ImportOnStartup && cfg.MovieListPath == "" {
		return errors.New("MOVIE_LIST_PATH is required when IMPORT_ON_STARTUP is set")
	}

	if cfg.IsProduction() {
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required in production")
		}
		if mode := sslMode(cfg.DatabaseURL); mode == "disable" || mode == "allow" {
			return fmt.Errorf("DATABASE_URL uses sslmode=%s which is not allowed in production", mode)
		}
	}

	return nil
}

func sslMode(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Query().Get("sslmode"))
}
