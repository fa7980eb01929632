package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Addr() != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want %q", cfg.Server.Addr(), "127.0.0.1:8080")
	}
	if cfg.RateLimit.Enabled {
		t.Error("rate limiting should be off by default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "info")
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("port = %d, want 8080", cfg.Server.Port)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := writeFile(t, `
server:
  host: 0.0.0.0
  port: 9090
  read_timeout: 10s
ratelimit:
  enabled: true
  rate: 50
  burst: 75
log:
  level: debug
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Server.Addr() != "0.0.0.0:9090" {
			t.Errorf("Addr() = %q, want %q", cfg.Server.Addr(), "0.0.0.0:9090")
		}
		if cfg.Server.ReadTimeout != 10*time.Second {
			t.Errorf("read timeout = %v, want 10s", cfg.Server.ReadTimeout)
		}
		if !cfg.RateLimit.Enabled || cfg.RateLimit.Rate != 50 || cfg.RateLimit.Burst != 75 {
			t.Errorf("ratelimit = %+v", cfg.RateLimit)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("log level = %q, want %q", cfg.Log.Level, "debug")
		}
		// untouched sections keep their defaults
		if cfg.Server.WriteTimeout != 30*time.Second {
			t.Errorf("write timeout = %v, want 30s", cfg.Server.WriteTimeout)
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := writeFile(t, "server: [not a mapping")
		if _, err := Load(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("env overrides win over the file", func(t *testing.T) {
		t.Setenv("ANVIL_PORT", "7070")
		t.Setenv("ANVIL_LOG_LEVEL", "ERROR")
		t.Setenv("ANVIL_CORS_ORIGINS", "https://a.example, https://b.example")

		path := writeFile(t, "server:\n  port: 9090\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Server.Port != 7070 {
			t.Errorf("port = %d, want 7070", cfg.Server.Port)
		}
		if cfg.Log.Level != "error" {
			t.Errorf("log level = %q, want %q", cfg.Log.Level, "error")
		}
		want := []string{"https://a.example", "https://b.example"}
		if len(cfg.CORS.AllowedOrigins) != 2 ||
			cfg.CORS.AllowedOrigins[0] != want[0] ||
			cfg.CORS.AllowedOrigins[1] != want[1] {
			t.Errorf("origins = %v, want %v", cfg.CORS.AllowedOrigins, want)
		}
	})

	t.Run("invalid port fails validation", func(t *testing.T) {
		path := writeFile(t, "server:\n  port: 70000\n")
		if _, err := Load(path); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("invalid log level fails validation", func(t *testing.T) {
		t.Setenv("ANVIL_LOG_LEVEL", "loud")
		if _, err := Load(""); err == nil {
			t.Error("expected validation error")
		}
	})
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
