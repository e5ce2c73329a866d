// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so TOML values like "30s" parse naturally.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Plex     PlexConfig     `toml:"plex"`
	Bridge   BridgeConfig   `toml:"bridge"`
	Health   HealthConfig   `toml:"health"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type PlexConfig struct {
	URL        string   `toml:"url"`
	Token      string   `toml:"token"`
	Timeout    Duration `toml:"timeout"`
	LocalPath  string   `toml:"local_path"`
	RemotePath string   `toml:"remote_path"`
}

type BridgeConfig struct {
	Workers    int `toml:"workers"`
	QueueDepth int `toml:"queue_depth"`
}

type HealthConfig struct {
	PollInterval   Duration `toml:"poll_interval"`
	EventRetention Duration `toml:"event_retention"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8486
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/plexbridge.db"
	}
	if cfg.Plex.Timeout == 0 {
		cfg.Plex.Timeout = Duration(30 * time.Second)
	}
	if cfg.Bridge.Workers == 0 {
		cfg.Bridge.Workers = 4
	}
	if cfg.Bridge.QueueDepth == 0 {
		cfg.Bridge.QueueDepth = 16
	}
	if cfg.Health.PollInterval == 0 {
		cfg.Health.PollInterval = Duration(time.Minute)
	}
	if cfg.Health.EventRetention == 0 {
		cfg.Health.EventRetention = Duration(7 * 24 * time.Hour)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Plex.URL == "" {
		return errors.New("plex.url is required")
	}
	if c.Plex.Token == "" {
		return errors.New("plex.token is required")
	}
	if (c.Plex.LocalPath == "") != (c.Plex.RemotePath == "") {
		return errors.New("plex.local_path and plex.remote_path must be set together")
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
