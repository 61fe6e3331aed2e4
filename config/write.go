package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrExists is returned by Write when the target exists and force is false.
var ErrExists = errors.New("config file already exists")

const header = "# repoctx configuration. Environment variables (REPOCTX_*) and flags override these values.\n"

// Write saves cfg as YAML to path.
func Write(path string, cfg *Config, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
