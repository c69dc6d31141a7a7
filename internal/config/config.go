// Package config loads the service configuration. Values come from a YAML
// file with environment variable overrides, the file being optional so the
// binary runs with built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Data struct {
		Provider string `yaml:"provider"` // yahoo, csv or synthetic
		CSVDir   string `yaml:"csv_dir"`
	} `yaml:"data"`
	Backtest struct {
		RiskFreeRate float64 `yaml:"risk_free_rate"`
		HoldingDays  string  `yaml:"holding_days"` // business or calendar
		VolWindow    int     `yaml:"vol_window"`
	} `yaml:"backtest"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	c := &Config{Environment: "development", LogLevel: "info"}
	c.Server.Port = 8000
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 120 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	c.Data.Provider = "yahoo"
	c.Backtest.HoldingDays = "business"
	c.Backtest.VolWindow = 30
	return c
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML (when path is non-empty) and overrides
// with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	var c *Config
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		c = loaded
	} else {
		c = Default()
	}

	if v := os.Getenv("STRANGLE_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("STRANGLE_PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("STRANGLE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("STRANGLE_DATA_PROVIDER"); v != "" {
		c.Data.Provider = v
	}
	if v := os.Getenv("STRANGLE_CSV_DIR"); v != "" {
		c.Data.CSVDir = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Data.Provider {
	case "yahoo", "csv", "synthetic":
	default:
		return fmt.Errorf("data.provider must be 'yahoo', 'csv' or 'synthetic', got '%s'", c.Data.Provider)
	}
	if c.Data.Provider == "csv" && c.Data.CSVDir == "" {
		return fmt.Errorf("data.csv_dir is required when data.provider is 'csv'")
	}
	switch c.Backtest.HoldingDays {
	case "business", "calendar":
	default:
		return fmt.Errorf("backtest.holding_days must be 'business' or 'calendar', got '%s'", c.Backtest.HoldingDays)
	}
	return nil
}
