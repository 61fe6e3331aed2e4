package document

import (
	"log/slog"
	"time"

	"github.com/arjunmahishi/repoctx/cache"
)

const (
	// DefaultMaxBytes is the size above which files are inventoried but not read.
	DefaultMaxBytes = 2 * 1024 * 1024
	// DefaultTimeout bounds a whole build.
	DefaultTimeout = 5 * time.Minute
)

// Options configures a Builder.
type Options struct {
	// Root is the directory to summarize.
	// If empty, current directory is used.
	Root string

	// Ignore lists ignore patterns. Nil means scanner.DefaultIgnorePatterns.
	Ignore []string

	// Include restricts summarized files to matching patterns.
	Include []string

	// Jobs is the number of parallel workers.
	// If 0, defaults to number of CPUs.
	Jobs int

	// MaxBytes skips reading files larger than this size.
	// If 0, DefaultMaxBytes is used. A negative value disables the limit.
	MaxBytes int64

	// Timeout bounds the build. If 0, DefaultTimeout is used.
	Timeout time.Duration

	// Cache, if set, is consulted before a file is read.
	Cache *cache.Cache

	// Progress, if set, is called after each file with the number of
	// files processed so far and the total.
	Progress func(done, total int)

	// Logger receives per-file warnings. Defaults to slog.Default().
	Logger *slog.Logger

	// Now stamps the document. Defaults to time.Now.
	Now func() time.Time
}
