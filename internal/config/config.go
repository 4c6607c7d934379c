// Package config handles voidstate configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all voidstate configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Providers ProvidersConfig `yaml:"providers"`
	LogLevel  string          `yaml:"log_level"`
}

// DatabaseConfig selects where the settings and thread store lives.
type DatabaseConfig struct {
	// Path overrides the default per-OS location when set.
	Path string `yaml:"path"`
}

// ProvidersConfig carries endpoint overrides for the discoverable providers.
type ProvidersConfig struct {
	OllamaEndpoint           string `yaml:"ollama_endpoint"`
	OpenAICompatibleEndpoint string `yaml:"openai_compatible_endpoint"`
}

// Default returns the built-in configuration used when no file exists.
func Default() Config {
	return Config{LogLevel: "warn"}
}

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/voidstate/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "voidstate", "config.yaml"))
	}
	return paths
}

// Load reads configuration. If explicit is non-empty it must exist;
// otherwise the search paths are tried and defaults are used when nothing is
// found.
func Load(explicit string) (Config, error) {
	path := explicit
	if path == "" {
		for _, p := range DefaultSearchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
