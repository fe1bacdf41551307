// Package config provides configuration loading and validation for the
// local sandbox CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Chain    ChainConfig    `yaml:"chain"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig configures the SQLite state file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ChainConfig pins the simulated host chain.
type ChainConfig struct {
	// Bech32Prefix restricts accepted addresses; empty accepts any prefix.
	Bech32Prefix string `yaml:"bech32_prefix"`

	// Contract is the instance's own address on the simulated chain.
	Contract string `yaml:"contract"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // "console" or "json"
}

// Default returns a configuration with sensible defaults.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Path: "tokengate.db"},
		Chain: ChainConfig{
			Bech32Prefix: "osmo",
			Contract:     "osmo1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5z5tpwxqergd3c8g7rusq4z5ese",
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads a YAML config file, falling back to defaults for omitted
// fields. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for inconsistencies.
func (c Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Chain.Contract == "" {
		return fmt.Errorf("chain.contract must not be empty")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	return nil
}
