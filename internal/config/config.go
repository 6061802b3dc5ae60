// Package config loads the API client configuration from a YAML file and
// PYRK_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// Config holds everything needed to talk to the registrar API.
type Config struct {
	APIKey       string  `yaml:"api_key"`
	SecretAPIKey string  `yaml:"secret_api_key"`
	ForceV4      bool    `yaml:"force_v4"`
	RateLimit    float64 `yaml:"rate_limit"` // seconds slept before each API call
	Timeout      int     `yaml:"timeout"`    // per-request timeout in seconds
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{Timeout: 15}
}

// Load assembles the configuration in ascending priority: defaults, then the
// config file (PYRK_CONFIG_FILE, falling back to
// ~/.config/porkbun-cli/config.yaml when that file exists), then individual
// PYRK_* environment variables, then the explicitly given path (empty to
// skip). Validation of required fields is left to Validate so callers can
// report credentials guidance themselves.
func Load(path string) (*Config, error) {
	cfg := Default()

	if envPath := os.Getenv("PYRK_CONFIG_FILE"); envPath != "" {
		if err := cfg.mergeFile(envPath); err != nil {
			return nil, err
		}
	} else if defPath := defaultPath(); defPath != "" {
		if err := cfg.mergeFile(defPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// defaultPath returns the conventional config location, or "" when it does
// not exist. A missing default file is not an error.
func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".config", "porkbun-cli", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Validate checks that credentials are present.
func (c *Config) Validate() error {
	if c.APIKey == "" || c.SecretAPIKey == "" {
		return fmt.Errorf("config: api_key and secret_api_key are required; " +
			"set PYRK_API_KEY and PYRK_API_SECRET_KEY or provide a config file")
	}
	return nil
}

// mergeFile overlays values from a YAML file. ${ENV_VAR} references in
// string values are expanded. Unset keys leave the current value alone.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	var file Config
	// Start from the current values so absent keys do not zero fields.
	file = *c
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}

	file.APIKey = os.ExpandEnv(file.APIKey)
	file.SecretAPIKey = os.ExpandEnv(file.SecretAPIKey)

	*c = file
	return nil
}

// mergeEnv overlays values from individual environment variables.
func (c *Config) mergeEnv() error {
	if v := os.Getenv("PYRK_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("PYRK_API_SECRET_KEY"); v != "" {
		c.SecretAPIKey = v
	}
	if v := os.Getenv("PYRK_FORCE_V4"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid PYRK_FORCE_V4 %q: %w", v, err)
		}
		c.ForceV4 = parsed
	}
	if v := os.Getenv("PYRK_RATE"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: invalid PYRK_RATE %q: %w", v, err)
		}
		c.RateLimit = parsed
	}
	if v := os.Getenv("PYRK_TIMEOUT"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PYRK_TIMEOUT %q: %w", v, err)
		}
		c.Timeout = parsed
	}
	return nil
}
