// Package config provides configuration management for the Claude Code bridge server.
// It handles loading and parsing YAML configuration files, and provides structured
// access to application settings including server port, Claude CLI location,
// debug settings, session storage, and API keys.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// Port is the network port on which the API server will listen.
	Port int `yaml:"port"`

	// Debug enables or disables debug-level logging and other debug features.
	Debug bool `yaml:"debug"`

	// LoggingToFile routes application logs to rotating files instead of stdout.
	LoggingToFile bool `yaml:"logging-to-file"`

	// APIKeys is a list of keys for authenticating clients to this bridge server.
	APIKeys []string `yaml:"api-keys"`

	// AllowLocalhostUnauthenticated allows unauthenticated requests from localhost.
	AllowLocalhostUnauthenticated bool `yaml:"allow-localhost-unauthenticated"`

	// ClaudeCLI is the path to the Claude Code CLI binary. Defaults to "claude"
	// resolved through PATH.
	ClaudeCLI string `yaml:"claude-cli"`

	// WorkingDir is the directory the CLI process runs in. Empty means the
	// server's working directory.
	WorkingDir string `yaml:"working-dir"`

	// RequestTimeoutSec bounds a single CLI invocation, in seconds. Zero means
	// no timeout.
	RequestTimeoutSec int `yaml:"request-timeout"`

	// SessionDB is the path of the bolt database used to map caller session
	// identifiers to CLI conversation sessions. Empty disables session resume.
	SessionDB string `yaml:"session-db"`
}

// LoadConfig reads a YAML configuration file from the given path,
// unmarshals it into a Config struct, applies defaults, and returns it.
//
// Parameters:
//   - configFile: The path to the YAML configuration file
//
// Returns:
//   - *Config: The loaded configuration
//   - error: An error if the configuration could not be loaded
func LoadConfig(configFile string) (*Config, error) {
	// Read the entire configuration file into memory.
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal the YAML data into the Config struct.
	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	return &config, nil
}

// RequestTimeout returns the CLI invocation bound as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8317
	}
	if c.ClaudeCLI == "" {
		c.ClaudeCLI = "claude"
	}
}
