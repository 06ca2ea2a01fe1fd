// Package config loads linter settings from a .modlint.yml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/DeusData/modlint/internal/diag"
)

// DefaultBatchFactor is the multiplier applied to concurrency when sizing
// dependency-resolution batches.
const DefaultBatchFactor = 4

// Config holds user-overridable linter settings.
// Loaded from .modlint.yml in the project root.
type Config struct {
	// Rules maps rule names to a severity ("warn", "error") or to "off".
	// Rules not listed run at their default severity.
	Rules map[string]string `yaml:"rules"`

	// Ignore holds extra glob patterns skipped during discovery.
	Ignore []string `yaml:"ignore"`

	// Fix enables writing merged fixes back to disk.
	Fix *bool `yaml:"fix"`

	// Concurrency is the number of worker goroutines.
	// Default: runtime.NumCPU().
	Concurrency *int `yaml:"concurrency"`

	// BatchFactor scales batch size relative to concurrency.
	// Default: 4.
	BatchFactor *int `yaml:"batch_factor"`

	// CrossModules enables import resolution and dependency-graph
	// construction. Default: true.
	CrossModules *bool `yaml:"cross_modules"`

	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig holds result-cache settings. The cache is only consulted when
// cross-module resolution is disabled.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ConfigFileName is looked up in the project root when no explicit path is given.
const ConfigFileName = ".modlint.yml"

// Default returns the default configuration.
func Default() *Config {
	return &Config{}
}

// Load reads a config file. A missing file yields the defaults; a file that
// exists but does not parse is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDir reads .modlint.yml from the given directory, falling back to
// defaults when absent.
func LoadDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, ConfigFileName))
}

func (c *Config) validate() error {
	for name, level := range c.Rules {
		switch level {
		case "off", "warn", "error":
		default:
			return fmt.Errorf("rule %q: unknown severity %q", name, level)
		}
	}
	if c.Concurrency != nil && *c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", *c.Concurrency)
	}
	if c.BatchFactor != nil && *c.BatchFactor < 1 {
		return fmt.Errorf("batch_factor must be positive, got %d", *c.BatchFactor)
	}
	return nil
}

// EnabledRules splits the rule table into the names switched off and the
// severity overrides for the rest.
func (c *Config) EnabledRules() (disabled map[string]bool, overrides map[string]diag.Severity) {
	disabled = map[string]bool{}
	overrides = map[string]diag.Severity{}
	for name, level := range c.Rules {
		switch level {
		case "off":
			disabled[name] = true
		case "warn":
			overrides[name] = diag.SeverityWarning
		case "error":
			overrides[name] = diag.SeverityError
		}
	}
	return disabled, overrides
}

// EffectiveFix returns the configured fix mode, or false if not set.
func (c *Config) EffectiveFix() bool {
	if c.Fix != nil {
		return *c.Fix
	}
	return false
}

// EffectiveConcurrency returns the configured worker count, or NumCPU.
func (c *Config) EffectiveConcurrency() int {
	if c.Concurrency != nil {
		return *c.Concurrency
	}
	return runtime.NumCPU()
}

// EffectiveBatchFactor returns the configured batch factor, or the default.
func (c *Config) EffectiveBatchFactor() int {
	if c.BatchFactor != nil {
		return *c.BatchFactor
	}
	return DefaultBatchFactor
}

// EffectiveCrossModules returns whether dependency-graph construction is on.
func (c *Config) EffectiveCrossModules() bool {
	if c.CrossModules != nil {
		return *c.CrossModules
	}
	return true
}
