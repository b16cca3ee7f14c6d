package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the classforge configuration
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Provision ProvisionConfig `yaml:"provision"`
}

// GitHubConfig represents GitHub-specific configuration. Tokens never
// live in the config file; they are read from the token file argument.
type GitHubConfig struct {
	// BaseURL points at a GitHub Enterprise API endpoint when set.
	// Empty means github.com.
	BaseURL string `yaml:"base_url"`
}

// ProvisionConfig tunes how provisioning runs behave
type ProvisionConfig struct {
	Concurrency   int             `yaml:"concurrency"`
	DefaultBranch string          `yaml:"default_branch"`
	Readiness     ReadinessConfig `yaml:"readiness"`
}

// ReadinessConfig bounds the wait for repository copies to complete
type ReadinessConfig struct {
	MaxAttempts  int      `yaml:"max_attempts"`
	InitialDelay Duration `yaml:"initial_delay"`
	MaxDelay     Duration `yaml:"max_delay"`
}

// Duration wraps time.Duration so YAML values like "500ms" or "10s"
// round-trip through the config file
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}

	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &config, nil
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	// Create config directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".classforge", "config.yaml"), nil
}

// Validate validates the configuration. Every field is optional, so
// validation only rejects values that cannot work.
func (c *Config) Validate() error {
	if c.Provision.Concurrency < 0 {
		return fmt.Errorf("provision concurrency cannot be negative")
	}

	if c.Provision.Readiness.MaxAttempts < 0 {
		return fmt.Errorf("readiness max_attempts cannot be negative")
	}

	if c.Provision.Readiness.InitialDelay < 0 {
		return fmt.Errorf("readiness initial_delay cannot be negative")
	}

	if c.Provision.Readiness.MaxDelay < 0 {
		return fmt.Errorf("readiness max_delay cannot be negative")
	}

	return nil
}
