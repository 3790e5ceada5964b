// Package config provides configuration management for remountd.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigDir returns the default config directory (~/.remountd).
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".remountd"), nil
}

// DefaultConfigPath returns the default config file path
// (~/.remountd/config.yml).
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// Config holds the daemon's configuration. Command-line arguments overlay
// values loaded from the file.
type Config struct {
	// Host is the file server whose SMB port is monitored.
	Host string `yaml:"host,omitempty"`
	// Shares are the local mount paths to restore, in order.
	Shares []string `yaml:"shares,omitempty"`
	// PostMountScript is an optional command run after a fully successful
	// remount pass.
	PostMountScript string `yaml:"post_mount_script,omitempty"`
}

// Validate checks that the configuration is sufficient to run the daemon.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}
	if len(c.Shares) == 0 {
		return errors.New("at least one share path is required")
	}
	for _, share := range c.Shares {
		if share == "" {
			return errors.New("share paths must not be empty")
		}
	}
	return nil
}

// ParseShares splits a comma-separated share list into paths, trimming
// whitespace and dropping empty entries.
func ParseShares(s string) []string {
	var shares []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			shares = append(shares, part)
		}
	}
	return shares
}

// Load reads the configuration from the given path.
// If the file does not exist, an empty config is returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads the configuration from the default path.
func LoadDefault() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Save writes the configuration to the given path, creating directories as
// needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}
