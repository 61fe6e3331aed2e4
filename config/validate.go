package config

import (
	"errors"
	"fmt"

	"github.com/arjunmahishi/repoctx/logging"
	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks cfg and reports every problem at once. Enumerated values
// must already be lower case; see Normalize.
func Validate(cfg *Config) error {
	var errs []error

	switch cfg.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("format must be 'text' or 'json', got '%s'", cfg.Format))
	}

	if cfg.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must be >= 0, got %d", cfg.Jobs))
	}
	if cfg.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be >= 0, got %s", cfg.Timeout))
	}
	if cfg.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size must be >= 0, got %d", cfg.CacheSize))
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must be >= 0, got %s", cfg.Watch.Debounce))
	}

	for _, p := range append(append([]string(nil), cfg.Ignore...), cfg.Include...) {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("invalid pattern %q", p))
		}
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if !logging.ValidFormat(cfg.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be 'text' or 'json', got '%s'", cfg.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n%w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
