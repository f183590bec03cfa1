// ABOUTME: Configuration loading and parsing for benotes
// ABOUTME: YAML or TOML files with ${VAR} expansion, .env loading, env overrides and duration parsing

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete benotes configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Data      DataConfig      `yaml:"data" toml:"data"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
	Debug     DebugConfig     `yaml:"debug" toml:"debug"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr" toml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"-" toml:"-"`

	// TrustProxy reads the client IP from X-Forwarded-For. Off unless a
	// reverse proxy in front of benotes rewrites that header.
	TrustProxy bool `yaml:"trust_proxy" toml:"trust_proxy"`

	// Raw string value for unmarshaling
	ShutdownTimeoutRaw string `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// DataConfig selects where tenant and system stores live
type DataConfig struct {
	Root string `yaml:"root" toml:"root"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret" toml:"jwt_secret"`
	AllowRegistration bool          `yaml:"allow_registration" toml:"allow_registration"`
	TokenTTL          time.Duration `yaml:"-" toml:"-"`

	TokenTTLRaw string `yaml:"token_ttl" toml:"token_ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// RateLimitConfig limits login and registration attempts per client IP
type RateLimitConfig struct {
	AuthRequests int           `yaml:"auth_requests" toml:"auth_requests"`
	Window       time.Duration `yaml:"-" toml:"-"`

	WindowRaw string `yaml:"window" toml:"window"`
}

// DebugConfig holds operator escape hatches. Both are off by default.
type DebugConfig struct {
	// AllowReset mounts the destructive tenant store reset endpoint.
	AllowReset bool `yaml:"allow_reset" toml:"allow_reset"`
	// Admins lists the user names allowed to call operator endpoints.
	Admins []string `yaml:"admins" toml:"admins"`
}

// envOverrides are applied after the file is parsed. Empty values are ignored.
type envOverrides struct {
	DataRoot  string `env:"BENOTES_DATA_ROOT"`
	HTTPAddr  string `env:"BENOTES_HTTP_ADDR"`
	JWTSecret string `env:"BENOTES_JWT_SECRET"`
	LogLevel  string `env:"BENOTES_LOG_LEVEL"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:           "127.0.0.1:8080",
			ShutdownTimeoutRaw: "10s",
		},
		Data: DataConfig{
			Root: "./data",
		},
		Auth: AuthConfig{
			AllowRegistration: true,
			TokenTTLRaw:       "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		RateLimit: RateLimitConfig{
			AuthRequests: 10,
			WindowRaw:    "1m",
		},
	}
}

// DefaultPath returns the config file location: $BENOTES_CONFIG if set,
// otherwise benotes/config.yaml under the XDG config directory.
func DefaultPath() string {
	if p := os.Getenv("BENOTES_CONFIG"); p != "" {
		return p
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml"
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "benotes", "config.yaml")
}

// Load reads a configuration file from the given path and returns a parsed Config.
// A missing file yields the defaults. Files ending in .toml are parsed as TOML,
// everything else as YAML. Environment variables in the format ${VAR_NAME} are
// expanded, a .env file in the working directory is loaded first, and
// BENOTES_* variables override file values.
func Load(path string) (*Config, error) {
	// .env is optional and only for local development.
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := decode(path, expandEnvVars(string(data)), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func decode(path, content string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(content, cfg)
		return err
	default:
		return yaml.Unmarshal([]byte(content), cfg)
	}
}

func applyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return err
	}
	if o.DataRoot != "" {
		cfg.Data.Root = o.DataRoot
	}
	if o.HTTPAddr != "" {
		cfg.Server.HTTPAddr = o.HTTPAddr
	}
	if o.JWTSecret != "" {
		cfg.Auth.JWTSecret = o.JWTSecret
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Data.Root == "" {
		return fmt.Errorf("data.root is required")
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	if c.RateLimit.AuthRequests <= 0 {
		return fmt.Errorf("rate_limit.auth_requests must be positive")
	}

	return nil
}

// ValidateServe runs Validate plus the checks that only matter when the
// server issues tokens. Operator commands skip it.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (or set BENOTES_JWT_SECRET)")
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Server.ShutdownTimeoutRaw != "" {
		cfg.Server.ShutdownTimeout, err = time.ParseDuration(cfg.Server.ShutdownTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing shutdown_timeout %q: %w", cfg.Server.ShutdownTimeoutRaw, err)
		}
	}

	if cfg.Auth.TokenTTLRaw != "" {
		cfg.Auth.TokenTTL, err = time.ParseDuration(cfg.Auth.TokenTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing token_ttl %q: %w", cfg.Auth.TokenTTLRaw, err)
		}
	}

	if cfg.RateLimit.WindowRaw != "" {
		cfg.RateLimit.Window, err = time.ParseDuration(cfg.RateLimit.WindowRaw)
		if err != nil {
			return fmt.Errorf("parsing window %q: %w", cfg.RateLimit.WindowRaw, err)
		}
	}

	return nil
}
