package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a YAML file with env overrides,
// defaults and validation applied.
func LoadFromFile(path string) (*Config, error) {
	// Clean the path to prevent directory traversal attacks
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304 - Config file path is trusted (from user)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML and applies env overrides, defaults and validation.
func Parse(data []byte) (*Config, error) {
	// rate_limit: 0 is meaningful, so its default is seeded before decoding.
	cfg := &Config{Server: ServerSection{RateLimit: DefaultRateLimit}}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return finish(cfg)
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() (*Config, error) {
	return finish(&Config{Server: ServerSection{RateLimit: DefaultRateLimit}})
}

// Load reads path when non-empty and falls back to the environment otherwise.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromEnv()
	}
	return LoadFromFile(path)
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
