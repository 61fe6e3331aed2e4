// Package document assembles a repository context document: statistics,
// a directory tree and a per-file summary with extracted code context.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/arjunmahishi/repoctx/scanner"
	"github.com/arjunmahishi/repoctx/types"
)

var (
	// ErrBuildCancelled is returned when a build is cancelled via context.
	ErrBuildCancelled = errors.New("document: build cancelled")
	// ErrBuildTimeout is returned when a build exceeds its timeout.
	ErrBuildTimeout = errors.New("document: build timeout")
)

// Document is a complete repository summary.
type Document struct {
	Root        string              `json:"root"`
	GeneratedAt time.Time           `json:"generated_at"`
	Stats       types.Stats         `json:"stats"`
	Tree        *Node               `json:"tree"`
	Files       []types.FileSummary `json:"files"`
	Errors      []FileError         `json:"errors,omitempty"`
}

// FileError records a file that was left out of the document.
type FileError struct {
	// Path is the display path, or empty for errors not tied to one file.
	Path string

	// Phase is where the error happened: "walk", "stat", "read" or "decode".
	Phase string

	Err error
}

func (e FileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

func (e FileError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path  string `json:"path,omitempty"`
		Phase string `json:"phase"`
		Error string `json:"error"`
	}{e.Path, e.Phase, e.Err.Error()})
}

// Builder produces Documents. A Builder may be reused; watch mode calls
// Build once per change.
type Builder struct {
	opts    Options
	scanner *scanner.Scanner
	logger  *slog.Logger
}

// New validates opts, applies defaults and returns a Builder.
func New(opts Options) (*Builder, error) {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Jobs == 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.MaxBytes < 0 {
		opts.MaxBytes = 0
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sc, err := scanner.New(scanner.Config{
		Root:     opts.Root,
		Ignore:   opts.Ignore,
		Include:  opts.Include,
		MaxBytes: opts.MaxBytes,
	})
	if err != nil {
		return nil, err
	}

	return &Builder{
		opts:    opts,
		scanner: sc,
		logger:  opts.Logger,
	}, nil
}

// Scanner returns the scanner the builder walks with.
func (b *Builder) Scanner() *scanner.Scanner {
	return b.scanner
}

// Build walks the root and summarizes every file. Files that fail are
// logged, recorded in Document.Errors and left out; the build itself only
// fails when the root cannot be walked or the context ends.
func (b *Builder) Build(ctx context.Context) (*Document, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	root, err := b.scanner.Root()
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	jobs, walkErrs, err := b.scanner.Collect(ctx)
	if err != nil {
		if ctxErr := contextError(ctx); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("collect files: %w", err)
	}

	var fileErrs []FileError
	for _, err := range walkErrs {
		b.logger.Warn("skip entry", "error", err)
		fileErrs = append(fileErrs, FileError{Phase: "walk", Err: err})
	}

	files, errs := b.runWorkers(ctx, jobs)
	if err := contextError(ctx); err != nil {
		return nil, err
	}
	fileErrs = append(fileErrs, errs...)

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	sort.SliceStable(fileErrs, func(i, j int) bool {
		return fileErrs[i].Path < fileErrs[j].Path
	})

	doc := &Document{
		Root:        root,
		GeneratedAt: b.opts.Now().UTC(),
		Stats:       computeStats(files),
		Tree:        NewTree(files),
		Files:       files,
		Errors:      fileErrs,
	}

	b.logger.Debug("document built",
		"root", root,
		"files", len(files),
		"errors", len(fileErrs),
		"duration", time.Since(start),
	)
	return doc, nil
}

// Generate builds a single document with opts.
func Generate(ctx context.Context, opts Options) (*Document, error) {
	b, err := New(opts)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx)
}

func computeStats(files []types.FileSummary) types.Stats {
	stats := types.Stats{FileTypes: make(map[types.FileType]int)}
	for _, f := range files {
		stats.TotalFiles++
		stats.TotalSize += f.Size
		stats.FileTypes[f.Type]++
	}
	return stats
}

func contextError(ctx context.Context) error {
	switch err := ctx.Err(); {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrBuildTimeout
	case errors.Is(err, context.Canceled):
		return ErrBuildCancelled
	}
	return nil
}
