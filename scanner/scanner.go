// Package scanner provides file discovery for repoctx.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arjunmahishi/repoctx/types"
	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned by New when an ignore or include pattern
// cannot be parsed.
var ErrInvalidPattern = errors.New("invalid pattern")

// DefaultIgnorePatterns returns the default list of ignored entries.
// Patterns without a slash match an entry's base name at any depth.
func DefaultIgnorePatterns() []string {
	return []string{
		// version control and editor state
		".git", ".hg", ".svn", ".jj", ".idea", ".cursor", ".vs", ".vscode", ".DS_Store",
		// dependency and build output
		"node_modules", "__pycache__", ".venv", ".mypy_cache", ".pytest_cache",
		"bin", "obj", "dist", "build", "ApiLogs",
		// compiled artifacts and local state
		"*.pyc", "*.pyo", "*.pyd", "*.so", "*.dll", "*.dylib", "*.exe",
		"*.log", "*.pot", "*.sln", "*.user", "*.suo", "*.cache",
		// secrets and environment-specific settings
		".env", ".gitignore", "appsettings*.json", "launchSettings.json",
		// previously generated documents
		"context_*.txt",
	}
}

// Config holds scanner configuration. It is copied by New and never
// modified afterward.
type Config struct {
	Root string

	// Ignore lists patterns for entries to skip. Ignored directories are
	// not descended into. Nil means DefaultIgnorePatterns.
	Ignore []string

	// Include, when non-empty, restricts files to those matching at least
	// one pattern.
	Include []string

	// MaxBytes marks larger files as skipped. Zero disables the limit.
	MaxBytes int64
}

// Scanner discovers files for processing.
type Scanner struct {
	cfg Config
}

// New creates a new Scanner with the given configuration.
func New(cfg Config) (*Scanner, error) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Ignore == nil {
		cfg.Ignore = DefaultIgnorePatterns()
	}
	cfg.Ignore = append([]string(nil), cfg.Ignore...)
	cfg.Include = append([]string(nil), cfg.Include...)

	for _, p := range append(cfg.Ignore, cfg.Include...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}
	return &Scanner{cfg: cfg}, nil
}

// Root returns the absolute scan root.
func (s *Scanner) Root() (string, error) {
	return filepath.Abs(s.cfg.Root)
}

// Collect walks the root and returns every file that survives the ignore
// and include rules, in walk order. Entries that cannot be read
// are reported in the second return value and do not stop the walk.
func (s *Scanner) Collect(ctx context.Context) ([]types.FileJob, []error, error) {
	absRoot, err := s.Root()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve root: %w", err)
	}

	var (
		jobs []types.FileJob
		errs []error
	)
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == absRoot {
				return err
			}
			errs = append(errs, fmt.Errorf("walk %s: %w", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if s.Ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || s.Ignored(rel) || !s.included(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			errs = append(errs, fmt.Errorf("stat %s: %w", rel, err))
			return nil
		}

		jobs = append(jobs, types.FileJob{
			AbsPath:     path,
			DisplayPath: rel,
			Size:        info.Size(),
			Skipped:     s.cfg.MaxBytes > 0 && info.Size() > s.cfg.MaxBytes,
		})
		return nil
	})
	if err != nil {
		return nil, errs, err
	}

	return jobs, errs, nil
}

// CollectSingle returns a single file as a FileJob.
func (s *Scanner) CollectSingle(filePath string) (types.FileJob, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return types.FileJob{}, fmt.Errorf("resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return types.FileJob{}, fmt.Errorf("stat %s: %w", filePath, err)
	}
	if info.IsDir() {
		return types.FileJob{}, fmt.Errorf("%s is a directory", filePath)
	}

	return types.FileJob{
		AbsPath:     absPath,
		DisplayPath: filepath.Base(absPath),
		Size:        info.Size(),
		Skipped:     s.cfg.MaxBytes > 0 && info.Size() > s.cfg.MaxBytes,
	}, nil
}

// Ignored reports whether the slash-separated, root-relative path rel
// matches an ignore pattern.
func (s *Scanner) Ignored(rel string) bool {
	return matchAny(s.cfg.Ignore, rel)
}

func (s *Scanner) included(rel string) bool {
	if len(s.cfg.Include) == 0 {
		return true
	}
	return matchAny(s.cfg.Include, rel)
}

func matchAny(patterns []string, rel string) bool {
	name := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		name = rel[i+1:]
	}
	for _, p := range patterns {
		target := name
		if strings.Contains(p, "/") {
			target = rel
		}
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}
