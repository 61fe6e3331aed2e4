// Package watch regenerates a context document whenever files under the
// root change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arjunmahishi/repoctx/document"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

var errWatcherClosed = errors.New("watch: event stream closed")

// Options configures a Watcher.
type Options struct {
	// Debounce is how long the tree must be quiet before a rebuild.
	Debounce time.Duration

	// OnBuild receives every document, starting with the initial build.
	// An error from OnBuild stops the watcher.
	OnBuild func(ctx context.Context, doc *document.Document) error

	// Skip reports absolute paths whose changes never trigger a rebuild,
	// such as the document being written.
	Skip func(path string) bool

	Logger *slog.Logger
}

// Watcher rebuilds documents on file system changes.
type Watcher struct {
	builder *document.Builder
	fsw     *fsnotify.Watcher
	root    string
	opts    Options
	logger  *slog.Logger
}

// New watches every non-ignored directory under the builder's root.
func New(b *document.Builder, opts Options) (*Watcher, error) {
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.OnBuild == nil {
		opts.OnBuild = func(context.Context, *document.Document) error { return nil }
	}

	root, err := b.Scanner().Root()
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		builder: b,
		fsw:     fsw,
		root:    root,
		opts:    opts,
		logger:  opts.Logger,
	}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run builds once, then rebuilds after every debounced burst of changes
// until ctx is cancelled. It closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.rebuild(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	changes := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.pump(gctx, changes)
	})
	g.Go(func() error {
		return w.loop(gctx, changes)
	})

	err := g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// pump turns raw events into at most one pending change signal per quiet
// period.
func (w *Watcher) pump(ctx context.Context, changes chan<- struct{}) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errWatcherClosed
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.ignored(event.Name) {
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.Warn("watch directory", "path", event.Name, "error", err)
					}
				}
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change", "path", event.Name, "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.opts.Debounce, func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errWatcherClosed
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) loop(ctx context.Context, changes <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
			if err := w.rebuild(ctx); err != nil {
				return err
			}
		}
	}
}

// rebuild builds a document and hands it to OnBuild. A failed build is
// logged and the previous document stays in place.
func (w *Watcher) rebuild(ctx context.Context) error {
	doc, err := w.builder.Build(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.logger.Error("build document", "error", err)
		return nil
	}
	return w.opts.OnBuild(ctx, doc)
}

// relevant reports whether event should trigger a rebuild.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if w.opts.Skip != nil && w.opts.Skip(event.Name) {
		return false
	}
	return !w.ignored(event.Name)
}

// ignored reports whether path or any of its parent directories below the
// root matches an ignore pattern.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)

	sc := w.builder.Scanner()
	for i := 0; i <= len(rel); i++ {
		if i == len(rel) || rel[i] == '/' {
			if sc.Ignored(rel[:i]) {
				return true
			}
		}
	}
	return false
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
