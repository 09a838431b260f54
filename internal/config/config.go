// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/oukeidos/scantranslate/internal/gemini"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Host            string        `envconfig:"HOST" default:"127.0.0.1"`
	Port            int           `envconfig:"PORT" default:"8501"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"3m"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxUploadMB     int           `envconfig:"MAX_UPLOAD_MB" default:"32"`

	// GeminiAPIKey is the environment fallback; the OS keychain, when it
	// holds a key, takes precedence.
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" default:""`
	ExtractModel string `envconfig:"EXTRACT_MODEL" default:""`
	AnswerModel  string `envconfig:"ANSWER_MODEL" default:""`

	CacheCapacity int `envconfig:"CACHE_CAPACITY" default:"1024"`
}

// LoadDotenv overlays variables from the given .env file, if it exists.
// A missing file is not an error; local runs may rely on real environment
// variables alone.
func LoadDotenv(path string) bool {
	if path == "" {
		path = ".env"
	}
	return godotenv.Overload(path) == nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("READ_TIMEOUT must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("WRITE_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_MB must be >= 1")
	}
	if c.CacheCapacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be >= 1")
	}
	return nil
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ExtractModelName returns the configured extraction model or the default.
func (c *Config) ExtractModelName() string {
	if m := strings.TrimSpace(c.ExtractModel); m != "" {
		return m
	}
	return gemini.DefaultExtractModel
}

// AnswerModelName returns the configured answer model or the default.
func (c *Config) AnswerModelName() string {
	if m := strings.TrimSpace(c.AnswerModel); m != "" {
		return m
	}
	return gemini.DefaultAnswerModel
}
