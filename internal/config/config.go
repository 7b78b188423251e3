package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Session   SessionConfig   `yaml:"session"`
	Outbox    OutboxConfig    `yaml:"outbox"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// SessionConfig tunes live workout sessions.
type SessionConfig struct {
	DefaultBodyMassKg float64       `yaml:"default_body_mass_kg"`
	TickInterval      time.Duration `yaml:"tick_interval"`
}

// OutboxConfig locates the local retry queue for completion records.
type OutboxConfig struct {
	Dir           string        `yaml:"dir"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, applies defaults, then environment
// variable overrides. Env vars use the prefix GYMLOG_ and underscore-separated paths:
//
//	GYMLOG_SERVER_HOST, GYMLOG_SERVER_PORT,
//	GYMLOG_DB_HOST, GYMLOG_DB_PORT, GYMLOG_DB_NAME,
//	GYMLOG_DB_USER, GYMLOG_DB_PASSWORD, GYMLOG_DB_SSLMODE,
//	GYMLOG_AUTH_API_KEY,
//	GYMLOG_TAILSCALE_ENABLED, GYMLOG_TAILSCALE_HOSTNAME, GYMLOG_TAILSCALE_STATE_DIR,
//	GYMLOG_SESSION_DEFAULT_BODY_MASS_KG, GYMLOG_SESSION_TICK_INTERVAL,
//	GYMLOG_OUTBOX_DIR, GYMLOG_OUTBOX_FLUSH_INTERVAL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "gymlog"
	}
	if cfg.Tailscale.StateDir == "" {
		cfg.Tailscale.StateDir = "tsnet-state"
	}
	if cfg.Session.DefaultBodyMassKg == 0 {
		cfg.Session.DefaultBodyMassKg = 70
	}
	if cfg.Session.TickInterval == 0 {
		cfg.Session.TickInterval = time.Second
	}
	if cfg.Outbox.Dir == "" {
		cfg.Outbox.Dir = "outbox"
	}
	if cfg.Outbox.FlushInterval == 0 {
		cfg.Outbox.FlushInterval = 30 * time.Second
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GYMLOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("GYMLOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GYMLOG_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("GYMLOG_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("GYMLOG_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("GYMLOG_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("GYMLOG_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("GYMLOG_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("GYMLOG_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("GYMLOG_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("GYMLOG_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("GYMLOG_TAILSCALE_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
	if v := os.Getenv("GYMLOG_SESSION_DEFAULT_BODY_MASS_KG"); v != "" {
		if kg, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Session.DefaultBodyMassKg = kg
		}
	}
	if v := os.Getenv("GYMLOG_SESSION_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.TickInterval = d
		}
	}
	if v := os.Getenv("GYMLOG_OUTBOX_DIR"); v != "" {
		cfg.Outbox.Dir = v
	}
	if v := os.Getenv("GYMLOG_OUTBOX_FLUSH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Outbox.FlushInterval = d
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Session.DefaultBodyMassKg <= 0 {
		return fmt.Errorf("session.default_body_mass_kg must be positive")
	}
	if c.Session.TickInterval < 0 || c.Outbox.FlushInterval < 0 {
		return fmt.Errorf("intervals must not be negative")
	}
	return nil
}
