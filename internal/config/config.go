package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Backends      BackendsConfig      `toml:"backends"`
	Auth          AuthConfig          `toml:"auth"`
	Notifications NotificationsConfig `toml:"notifications"`
	Probe         ProbeConfig         `toml:"probe"`
	Logging       LoggingConfig       `toml:"logging"`
	Ngrok         NgrokConfig         `toml:"ngrok"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port           string `toml:"port"`
	Host           string `toml:"host"`
	EnableCORS     bool   `toml:"enable_cors"`
	ReadTimeout    int    `toml:"read_timeout_seconds"`
	WriteTimeout   int    `toml:"write_timeout_seconds"`
	IdleTimeout    int    `toml:"idle_timeout_seconds"`
	RequestTimeout int    `toml:"upstream_request_timeout_seconds"`
}

// DatabaseConfig contains the local state store configuration
type DatabaseConfig struct {
	Path           string `toml:"path"`
	MaxConnections int    `toml:"max_connections"`
}

// BackendEndpoints holds the three base URLs one environment points at.
type BackendEndpoints struct {
	Content       string `toml:"content"`
	Courses       string `toml:"courses"`
	Notifications string `toml:"notifications"`
}

// BackendsConfig contains the dev and prod backend endpoint sets plus the
// file the currently selected environment is persisted to.
type BackendsConfig struct {
	Dev       BackendEndpoints `toml:"dev"`
	Prod      BackendEndpoints `toml:"prod"`
	StateFile string           `toml:"state_file"`
}

// AuthConfig contains the single-admin credential and session settings.
// The password is bcrypt-hashed in place on first load.
type AuthConfig struct {
	Enabled         bool   `toml:"enabled"`
	AdminEmail      string `toml:"admin_email"`
	AdminPassword   string `toml:"admin_password"`
	SessionDuration string `toml:"session_duration"`
	SecureCookies   bool   `toml:"secure_cookies"`
}

// NotificationsConfig carries the admin key the notifications backend
// expects as both bearer token and x-admin-key header.
type NotificationsConfig struct {
	AdminKey string `toml:"admin_key"`
}

// ProbeConfig controls the remote audio duration probe.
type ProbeConfig struct {
	TimeoutSeconds  int   `toml:"timeout_seconds"`
	MaxDownloadSize int64 `toml:"max_download_bytes"`
	CacheTTLMinutes int   `toml:"cache_ttl_minutes"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level          string `toml:"level"`
	Format         string `toml:"format"`
	File           string `toml:"file"`
	RequestLogging bool   `toml:"request_logging"`
}

// NgrokConfig contains the optional remote-access tunnel configuration
type NgrokConfig struct {
	Enabled   bool   `toml:"enabled"`
	AuthToken string `toml:"auth_token"`
	Domain    string `toml:"domain"`
	Region    string `toml:"region"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8090",
			Host:           "0.0.0.0",
			EnableCORS:     true,
			ReadTimeout:    30,
			WriteTimeout:   30,
			IdleTimeout:    120,
			RequestTimeout: 20,
		},
		Database: DatabaseConfig{
			Path:           "./breathadmin.db",
			MaxConnections: 10,
		},
		Backends: BackendsConfig{
			Dev: BackendEndpoints{
				Content:       "https://dev-api-music-iota.vercel.app",
				Courses:       "https://dev-api-music-iota.vercel.app",
				Notifications: "https://breathing-ejercices-api.vercel.app",
			},
			Prod: BackendEndpoints{
				Content:       "https://api-music-iota.vercel.app",
				Courses:       "https://api-music-iota.vercel.app",
				Notifications: "https://breathing-ejercices-api.vercel.app",
			},
			StateFile: "./environment.state",
		},
		Auth: AuthConfig{
			Enabled:         true,
			AdminEmail:      "admin@schoolofbreath.example",
			AdminPassword:   "change-me",
			SessionDuration: "24h",
			SecureCookies:   false,
		},
		Notifications: NotificationsConfig{
			AdminKey: "",
		},
		Probe: ProbeConfig{
			TimeoutSeconds:  15,
			MaxDownloadSize: 64 << 20,
			CacheTTLMinutes: 60,
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "text",
			File:           "",
			RequestLogging: true,
		},
		Ngrok: NgrokConfig{
			Enabled: false,
			Region:  "us",
		},
	}
}

// LoadConfig loads configuration from a TOML file, creating it with the
// defaults when it does not exist. A .env file, when present, supplies the
// notifications admin key and ngrok token without putting them in the TOML.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cfg.SaveToFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		fmt.Printf("Created default configuration file at: %s\n", configPath)
	} else if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides layers secrets from the environment (and .env) over the
// file-based configuration.
func (c *Config) applyEnvOverrides() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
	if v := os.Getenv("SOB_NOTIFICATIONS_ADMIN_KEY"); v != "" {
		c.Notifications.AdminKey = v
	}
	if v := os.Getenv("SOB_ADMIN_PASSWORD"); v != "" {
		c.Auth.AdminPassword = v
	}
	if v := os.Getenv("NGROK_AUTHTOKEN"); v != "" && c.Ngrok.AuthToken == "" {
		c.Ngrok.AuthToken = v
	}
}

// SaveToFile saves the configuration to a TOML file
func (c *Config) SaveToFile(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	header := `# Breath Admin Configuration
# This file contains all configuration options for the School of Breath
# admin server. Edit the values below to customize your deployment.

`
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config to TOML: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	for _, set := range []struct {
		name string
		ep   BackendEndpoints
	}{{"dev", c.Backends.Dev}, {"prod", c.Backends.Prod}} {
		if set.ep.Content == "" || set.ep.Courses == "" || set.ep.Notifications == "" {
			return fmt.Errorf("%s backend endpoints must all be set", set.name)
		}
	}
	if c.Backends.StateFile == "" {
		return fmt.Errorf("backends state file cannot be empty")
	}

	if c.Auth.Enabled {
		if c.Auth.AdminEmail == "" || c.Auth.AdminPassword == "" {
			return fmt.Errorf("admin email and password are required when auth is enabled")
		}
		if c.Auth.SessionDuration == "" {
			return fmt.Errorf("session duration cannot be empty")
		}
	}

	if c.Probe.TimeoutSeconds < 1 {
		return fmt.Errorf("probe timeout must be at least 1 second")
	}
	if c.Probe.MaxDownloadSize < 1 {
		return fmt.Errorf("probe max download size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	return nil
}

// GetAddress returns the full server address
func (c *Config) GetAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}
