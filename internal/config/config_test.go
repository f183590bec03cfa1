// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, env var expansion, overrides and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every override so the host environment cannot leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"BENOTES_DATA_ROOT", "BENOTES_HTTP_ADDR", "BENOTES_JWT_SECRET", "BENOTES_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yaml", `
server:
  http_addr: "0.0.0.0:9090"
  shutdown_timeout: "5s"

data:
  root: "/var/lib/benotes"

auth:
  jwt_secret: "s3cret"
  token_ttl: "2h"
  allow_registration: false

logging:
  level: "debug"
  format: "json"

metrics:
  enabled: false

rate_limit:
  auth_requests: 3
  window: "30s"

debug:
  allow_reset: true
  admins: ["root"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:9090" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:9090")
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 5s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Data.Root != "/var/lib/benotes" {
		t.Errorf("Data.Root = %q", cfg.Data.Root)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 2h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.AllowRegistration {
		t.Error("Auth.AllowRegistration = true, want false")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.RateLimit.AuthRequests != 3 || cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
	if !cfg.Debug.AllowReset || len(cfg.Debug.Admins) != 1 || cfg.Debug.Admins[0] != "root" {
		t.Errorf("Debug = %+v", cfg.Debug)
	}
}

func TestLoad_ValidTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.toml", `
[server]
http_addr = "127.0.0.1:7000"

[data]
root = "./tenants-data"

[auth]
jwt_secret = "toml-secret"
token_ttl = "15m"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTPAddr != "127.0.0.1:7000" {
		t.Errorf("Server.HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Data.Root != "./tenants-data" {
		t.Errorf("Data.Root = %q", cfg.Data.Root)
	}
	if cfg.Auth.TokenTTL != 15*time.Minute {
		t.Errorf("Auth.TokenTTL = %v, want 15m", cfg.Auth.TokenTTL)
	}
	// Unset sections keep their defaults
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want default", cfg.Metrics.Path)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BENOTES_JWT_SECRET", "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Data.Root != "./data" {
		t.Errorf("Data.Root = %q, want ./data", cfg.Data.Root)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 24h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("Auth.JWTSecret = %q", cfg.Auth.JWTSecret)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_BENOTES_SECRET", "expanded-secret")
	path := writeConfig(t, "config.yaml", `
auth:
  jwt_secret: "${TEST_BENOTES_SECRET}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Auth.JWTSecret != "expanded-secret" {
		t.Errorf("Auth.JWTSecret = %q, want %q", cfg.Auth.JWTSecret, "expanded-secret")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("BENOTES_DATA_ROOT", "/override")
	t.Setenv("BENOTES_HTTP_ADDR", ":1234")
	t.Setenv("BENOTES_LOG_LEVEL", "warn")
	path := writeConfig(t, "config.yaml", `
data:
  root: "/from-file"
auth:
  jwt_secret: "x"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Data.Root != "/override" {
		t.Errorf("Data.Root = %q, want /override", cfg.Data.Root)
	}
	if cfg.Server.HTTPAddr != ":1234" {
		t.Errorf("Server.HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yaml", `
auth:
  jwt_secret: "x"
  token_ttl: "forever"
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "token_ttl") {
		t.Fatalf("Load() error = %v, want token_ttl error", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yaml", "server: [unterminated")

	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected parse error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Auth.JWTSecret = "x"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing http addr", mutate: func(c *Config) { c.Server.HTTPAddr = "" }, wantErr: "server.http_addr"},
		{name: "missing data root", mutate: func(c *Config) { c.Data.Root = "" }, wantErr: "data.root"},
		{name: "missing secret is fine outside serve", mutate: func(c *Config) { c.Auth.JWTSecret = "" }},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "bad metrics path", mutate: func(c *Config) { c.Metrics.Path = "metrics" }, wantErr: "metrics.path"},
		{name: "metrics disabled ignores path", mutate: func(c *Config) { c.Metrics.Enabled = false; c.Metrics.Path = "" }},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimit.AuthRequests = 0 }, wantErr: "rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateServe(t *testing.T) {
	c := Default()
	if err := c.ValidateServe(); err == nil || !strings.Contains(err.Error(), "auth.jwt_secret") {
		t.Errorf("ValidateServe() error = %v, want jwt_secret error", err)
	}

	c.Auth.JWTSecret = "x"
	if err := c.ValidateServe(); err != nil {
		t.Errorf("ValidateServe() error = %v", err)
	}

	c.Data.Root = ""
	if err := c.ValidateServe(); err == nil || !strings.Contains(err.Error(), "data.root") {
		t.Errorf("ValidateServe() error = %v, want data.root error", err)
	}
}

func TestLoad_NoSecretForOperatorCommands(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Auth.JWTSecret != "" {
		t.Errorf("Auth.JWTSecret = %q, want empty", cfg.Auth.JWTSecret)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("BENOTES_CONFIG", "/etc/benotes.toml")
	if got := DefaultPath(); got != "/etc/benotes.toml" {
		t.Errorf("DefaultPath() = %q", got)
	}

	t.Setenv("BENOTES_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultPath(); got != filepath.Join("/xdg", "benotes", "config.yaml") {
		t.Errorf("DefaultPath() = %q", got)
	}
}
