// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Site     SiteConfig     `yaml:"site"`
	Database DatabaseConfig `yaml:"database"`
	Tracking TrackingConfig `yaml:"tracking"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// SiteConfig configures the public storefront.
type SiteConfig struct {
	// BaseURL is the public origin, used in generated QR codes.
	BaseURL     string `yaml:"base_url"`
	CompanyName string `yaml:"company_name"`
	// QRSize is the pixel width of generated QR codes.
	QRSize int `yaml:"qr_size"`
}

// DatabaseConfig configures the database.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // only "sqlite" for now
	DSN    string `yaml:"dsn"`
}

// TrackingConfig configures the visitor analytics engine. Tracking is on
// unless explicitly disabled.
type TrackingConfig struct {
	Disabled bool `yaml:"disabled"`
	// BotTokens are user-agent substrings treated as automated traffic.
	// Empty means the built-in list.
	BotTokens []string `yaml:"bot_tokens"`
	// ExcludedPaths are URL path prefixes never tracked. Empty means the
	// built-in list.
	ExcludedPaths []string `yaml:"excluded_paths"`
	// WindowDays is the default analytics window.
	WindowDays int `yaml:"window_days"`
	// CookieName carries the anonymous visitor key.
	CookieName string `yaml:"cookie_name"`
	// CookieMaxAge bounds the visitor cookie lifetime.
	CookieMaxAge time.Duration `yaml:"cookie_max_age"`
}

// AuthConfig configures back-office authentication.
type AuthConfig struct {
	// CookieName carries the login session token.
	CookieName string `yaml:"cookie_name"`
	// BcryptCost tunes password hashing. Zero means the bcrypt default.
	BcryptCost int `yaml:"bcrypt_cost"`
	// SecureCookies marks cookies Secure; turn off only for local HTTP.
	SecureCookies bool `yaml:"secure_cookies"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // Enable /metrics endpoint
	Path    string `yaml:"path"`    // Custom path (default: /metrics)
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(&cfg)

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// This is useful for Docker deployments where no config file is needed.
//
// Environment variables:
//
//	SHOWROOM_SERVER_HOST       - Server host (default: 0.0.0.0)
//	SHOWROOM_SERVER_PORT       - Server port (default: 8080)
//	SHOWROOM_SITE_BASE_URL     - Public origin used in QR codes
//	SHOWROOM_DATABASE_DSN      - Database path (default: showroom.db)
//	SHOWROOM_TRACKING_ENABLED  - Enable visitor tracking (default: true)
//	SHOWROOM_LOG_LEVEL         - Log level: debug, info, warn, error (default: info)
//	SHOWROOM_LOG_FORMAT        - Log format: json or console (default: json)
//	SHOWROOM_METRICS_ENABLED   - Enable /metrics endpoint (default: true)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falls back to environment
// variables when the file is absent.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies SHOWROOM_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Server configuration
	if v := os.Getenv("SHOWROOM_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SHOWROOM_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SHOWROOM_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("SHOWROOM_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Site configuration
	if v := os.Getenv("SHOWROOM_SITE_BASE_URL"); v != "" {
		cfg.Site.BaseURL = v
	}
	if v := os.Getenv("SHOWROOM_SITE_COMPANY_NAME"); v != "" {
		cfg.Site.CompanyName = v
	}

	// Database configuration
	if v := os.Getenv("SHOWROOM_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("SHOWROOM_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}

	// Tracking configuration
	if v := os.Getenv("SHOWROOM_TRACKING_ENABLED"); v != "" {
		cfg.Tracking.Disabled = !parseBool(v)
	}
	if v := os.Getenv("SHOWROOM_TRACKING_BOT_TOKENS"); v != "" {
		cfg.Tracking.BotTokens = splitList(v)
	}
	if v := os.Getenv("SHOWROOM_TRACKING_EXCLUDED_PATHS"); v != "" {
		cfg.Tracking.ExcludedPaths = splitList(v)
	}
	if v := os.Getenv("SHOWROOM_TRACKING_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tracking.WindowDays = n
		}
	}

	// Auth configuration
	if v := os.Getenv("SHOWROOM_AUTH_COOKIE_NAME"); v != "" {
		cfg.Auth.CookieName = v
	}
	if v := os.Getenv("SHOWROOM_AUTH_BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Auth.BcryptCost = n
		}
	}
	if v := os.Getenv("SHOWROOM_AUTH_SECURE_COOKIES"); v != "" {
		cfg.Auth.SecureCookies = parseBool(v)
	}

	// Logging configuration
	if v := os.Getenv("SHOWROOM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SHOWROOM_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("SHOWROOM_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("SHOWROOM_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

// splitList parses a comma-separated list, trimming whitespace.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	cfg.Site.BaseURL = strings.TrimRight(cfg.Site.BaseURL, "/")
	if cfg.Site.QRSize == 0 {
		cfg.Site.QRSize = 256
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "showroom.db"
	}

	if cfg.Tracking.WindowDays == 0 {
		cfg.Tracking.WindowDays = 30
	}
	if cfg.Tracking.CookieName == "" {
		cfg.Tracking.CookieName = "visitor_key"
	}
	if cfg.Tracking.CookieMaxAge == 0 {
		cfg.Tracking.CookieMaxAge = 365 * 24 * time.Hour
	}

	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "showroom_session"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
	}

	if cfg.Database.Driver != "sqlite" {
		return fmt.Errorf("database.driver must be 'sqlite', got %q", cfg.Database.Driver)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if cfg.Tracking.WindowDays < 1 {
		return fmt.Errorf("tracking.window_days must be positive, got %d", cfg.Tracking.WindowDays)
	}
	for i, p := range cfg.Tracking.ExcludedPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("tracking.excluded_paths[%d] must start with '/', got %q", i, p)
		}
	}

	return nil
}
