// Package config loads the service configuration and owns database setup.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the routerd service. Zero values are
// filled from defaults; a YAML file and command-line flags override them.
type Config struct {
	Listen     string          `yaml:"listen"`
	DBPath     string          `yaml:"db_path"`
	ScriptsDir string          `yaml:"scripts_dir"`
	LogLevel   string          `yaml:"log_level"`
	Executor   ExecutorConfig  `yaml:"executor"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`
	Admin      AdminConfig     `yaml:"admin"`
}

// ExecutorConfig bounds the enforcement helper processes.
type ExecutorConfig struct {
	Interpreter    string `yaml:"interpreter"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// TelemetryConfig controls the websocket broadcast loop.
type TelemetryConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// AdminConfig is the bootstrap account created on first start when the users
// table is empty.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Listen:     ":8080",
		DBPath:     "~/hybrid-router/data/router.db",
		ScriptsDir: "/usr/local/lib/hybrid-router/scripts",
		LogLevel:   "info",
		Executor: ExecutorConfig{
			Interpreter:    "python3",
			TimeoutSeconds: 30,
		},
		Telemetry: TelemetryConfig{
			IntervalSeconds: 5,
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "changeme123",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ExecutorTimeout returns the helper timeout as a duration.
func (c *Config) ExecutorTimeout() time.Duration {
	return time.Duration(c.Executor.TimeoutSeconds) * time.Second
}

// TelemetryInterval returns the broadcast period as a duration.
func (c *Config) TelemetryInterval() time.Duration {
	return time.Duration(c.Telemetry.IntervalSeconds) * time.Second
}
