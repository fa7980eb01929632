// Package config handles loading and validating server configuration.
//
// Configuration is loaded from a YAML file with environment variable
// overrides. Environment variables use the ANVIL_ prefix (e.g. ANVIL_PORT).
// A local .env file, if present, is read into the environment first.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration.
type Config struct {
	Server    Server    `yaml:"server"`
	RateLimit RateLimit `yaml:"ratelimit"`
	CORS      CORS      `yaml:"cors"`
	Log       Log       `yaml:"log"`
}

// Server configures the HTTP listener.
type Server struct {
	Host            string        `yaml:"host" validate:"required"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"min=0"`
}

// RateLimit configures the token bucket rate limiter.
type RateLimit struct {
	Enabled bool `yaml:"enabled"`
	Rate    int  `yaml:"rate" validate:"min=1"`
	Burst   int  `yaml:"burst" validate:"min=1"`
}

// CORS configures cross-origin resource sharing headers.
type CORS struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age" validate:"min=0"`
}

// Log configures structured logging.
type Log struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Server: Server{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		RateLimit: RateLimit{
			Enabled: false,
			Rate:    100,
			Burst:   200,
		},
		CORS: CORS{
			Enabled:        false,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         86400,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads configuration from the given YAML file path, then applies
// environment variable overrides and validates the result. If path is empty,
// only defaults and environment variables are used. A .env file in the
// working directory is loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides reads ANVIL_* environment variables and overrides the
// corresponding config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ANVIL_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("ANVIL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ANVIL_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("ANVIL_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if v := os.Getenv("ANVIL_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if v := os.Getenv("ANVIL_RATELIMIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RateLimit.Enabled = b
		}
	}
	if v := os.Getenv("ANVIL_RATELIMIT_RATE"); v != "" {
		if rate, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.Rate = rate
		}
	}
	if v := os.Getenv("ANVIL_RATELIMIT_BURST"); v != "" {
		if burst, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.Burst = burst
		}
	}
	if v := os.Getenv("ANVIL_CORS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CORS.Enabled = b
		}
	}
	if v := os.Getenv("ANVIL_CORS_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("ANVIL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Addr returns the listen address as "host:port".
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
