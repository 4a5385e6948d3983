// Package config loads the remote server configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LibraryConfig selects one hosted library by catalog name and carries its
// free-form options.
type LibraryConfig struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// Config is the remote server configuration.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// RegisterKeywords toggles the direct function export endpoints.
	RegisterKeywords *bool `yaml:"register_keywords,omitempty"`
	// Introspection publishes the system.* enumeration functions.
	Introspection bool `yaml:"introspection"`
	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `yaml:"metrics"`

	// AllowImport restricts runtime library imports; empty means any
	// importable library may be imported.
	AllowImport []string `yaml:"allow_import,omitempty"`

	// Libraries are served from startup.
	Libraries []LibraryConfig `yaml:"libraries"`
	// Importable libraries are instantiated only on demand through the
	// Import Remote Library keyword.
	Importable []LibraryConfig `yaml:"importable,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Host:     "127.0.0.1",
		Port:     8270,
		LogLevel: "info",
		Metrics:  true,
		Libraries: []LibraryConfig{
			{Name: "tools"},
		},
	}
}

// Load reads and validates a YAML configuration file. Unset scalar fields
// fall back to the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration bytes.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	cfg.Libraries = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	seen := make(map[string]bool)
	for _, lib := range append(append([]LibraryConfig{}, c.Libraries...), c.Importable...) {
		if lib.Name == "" {
			return fmt.Errorf("library entry without a name")
		}
		if seen[lib.Name] {
			return fmt.Errorf("library %q configured twice", lib.Name)
		}
		seen[lib.Name] = true
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RegisterKeywordsEnabled resolves the tri-state flag; registration mode
// defaults to on.
func (c *Config) RegisterKeywordsEnabled() bool {
	if c.RegisterKeywords == nil {
		return true
	}
	return *c.RegisterKeywords
}
