package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. REPOCTX_LOG_LEVEL.
const EnvPrefix = "REPOCTX"

// Options selects where configuration is read from.
type Options struct {
	// Dir is searched for a project config file. Defaults to ".".
	Dir string

	// File is an explicit config file. It must exist when set.
	File string

	// EnvFile is a dotenv file loaded before the environment is read.
	// Defaults to ".env"; a missing file is ignored.
	EnvFile string
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (REPOCTX_*)
// 2. Config file (.repoctx.yaml or .repoctx.yml, or Options.File)
// 3. Default values
//
// Command-line flags are applied afterward by the caller.
func Load(opts Options) (*Config, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.EnvFile == "" {
		opts.EnvFile = ".env"
	}

	// Variables already in the environment win over the file.
	_ = godotenv.Load(opts.EnvFile)

	file := opts.File
	if file != "" {
		if !fileExists(file) {
			return nil, fmt.Errorf("config file %s not found", file)
		}
	} else {
		file = Path(opts.Dir)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., REPOCTX_WATCH_DEBOUNCE)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Normalize()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file that Load would read from dir, or "" if
// there is none.
func Path(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// setDefaults configures viper with default values. Every key needs a
// default so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("root", d.Root)
	v.SetDefault("output", d.Output)
	v.SetDefault("format", d.Format)
	v.SetDefault("compact", d.Compact)
	v.SetDefault("ignore", d.Ignore)
	v.SetDefault("include", d.Include)
	v.SetDefault("max_bytes", d.MaxBytes)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("cache_size", d.CacheSize)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("watch.debounce", d.Watch.Debounce)
}
