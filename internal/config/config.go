package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration. It is loaded once at startup,
// passed explicitly into constructors, and never mutated afterwards.
type Config struct {
	Server     Server     `yaml:"server"`
	Database   Database   `yaml:"database"`
	Auth       Auth       `yaml:"auth"`
	Logging    Logging    `yaml:"logging"`
	Compliance Compliance `yaml:"compliance"`
	Venue      Venue      `yaml:"venue"`
}

// Server holds network listener configuration.
type Server struct {
	Port int `yaml:"port"`
}

// Database holds the SQLite file path.
type Database struct {
	Path string `yaml:"path"`
}

// Auth holds the JWT signing secret and token lifetime.
type Auth struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
}

// Compliance gates the pre-trade validation chain. Enabled by default;
// disabling it bypasses every rule.
type Compliance struct {
	Enabled bool `yaml:"enabled"`
}

// Venue gates outbound execution-venue notifications.
type Venue struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the production-equivalent defaults: compliance on,
// venue notifications off.
func Default() *Config {
	return &Config{
		Server:     Server{Port: 8080},
		Database:   Database{Path: "finco.db"},
		Auth:       Auth{JWTSecret: "finco-secret-key", TokenTTLHours: 24},
		Logging:    Logging{Level: "info"},
		Compliance: Compliance{Enabled: true},
		Venue:      Venue{Enabled: false},
	}
}

// Load reads the YAML configuration file at the given path and applies
// environment variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			cfg.Auth.TokenTTLHours = hours
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("COMPLIANCE_ENABLED"); v != "" {
		cfg.Compliance.Enabled = v == "true"
	}
	if v := os.Getenv("VENUE_ENABLED"); v != "" {
		cfg.Venue.Enabled = v == "true"
	}
}
