// Package config loads repoctx settings from defaults, a project file,
// the environment and finally command-line flags.
package config

import (
	"strings"
	"time"

	"github.com/arjunmahishi/repoctx/cache"
	"github.com/arjunmahishi/repoctx/document"
	"github.com/arjunmahishi/repoctx/scanner"
)

// FileNames are the project config files looked up in the root, in order.
var FileNames = []string{".repoctx.yaml", ".repoctx.yml"}

// Config is the complete repoctx configuration.
type Config struct {
	Root      string        `yaml:"root" mapstructure:"root"`
	Output    string        `yaml:"output" mapstructure:"output"` // empty: context_<timestamp>.txt; "-": stdout
	Format    string        `yaml:"format" mapstructure:"format"` // "text" or "json"
	Compact   bool          `yaml:"compact" mapstructure:"compact"`
	Ignore    []string      `yaml:"ignore" mapstructure:"ignore"`
	Include   []string      `yaml:"include" mapstructure:"include"`
	MaxBytes  int64         `yaml:"max_bytes" mapstructure:"max_bytes"` // negative disables the limit
	Jobs      int           `yaml:"jobs" mapstructure:"jobs"`           // 0: number of CPUs
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CacheSize int           `yaml:"cache_size" mapstructure:"cache_size"`
	Log       LogConfig     `yaml:"log" mapstructure:"log"`
	Watch     WatchConfig   `yaml:"watch" mapstructure:"watch"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Root:      ".",
		Format:    "text",
		Ignore:    scanner.DefaultIgnorePatterns(),
		Include:   []string{},
		MaxBytes:  document.DefaultMaxBytes,
		Timeout:   document.DefaultTimeout,
		CacheSize: cache.DefaultSize,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Normalize lower-cases the enumerated values so "JSON" and "json" select
// the same format. Callers that override fields after Load call it again.
func (c *Config) Normalize() {
	c.Format = strings.ToLower(c.Format)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
}

// yamlConfig mirrors Config with durations spelled as strings ("5m0s").
type yamlConfig struct {
	Root      string   `yaml:"root"`
	Output    string   `yaml:"output,omitempty"`
	Format    string   `yaml:"format"`
	Compact   bool     `yaml:"compact"`
	Ignore    []string `yaml:"ignore"`
	Include   []string `yaml:"include,omitempty"`
	MaxBytes  int64    `yaml:"max_bytes"`
	Jobs      int      `yaml:"jobs"`
	Timeout   string   `yaml:"timeout"`
	CacheSize int      `yaml:"cache_size"`
	Log       struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Watch struct {
		Debounce string `yaml:"debounce"`
	} `yaml:"watch"`
}

// MarshalYAML implements yaml.Marshaler.
func (c *Config) MarshalYAML() (any, error) {
	y := yamlConfig{
		Root:      c.Root,
		Output:    c.Output,
		Format:    c.Format,
		Compact:   c.Compact,
		Ignore:    c.Ignore,
		Include:   c.Include,
		MaxBytes:  c.MaxBytes,
		Jobs:      c.Jobs,
		Timeout:   c.Timeout.String(),
		CacheSize: c.CacheSize,
	}
	y.Log.Level = c.Log.Level
	y.Log.Format = c.Log.Format
	y.Watch.Debounce = c.Watch.Debounce.String()
	return y, nil
}
