package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/arjunmahishi/repoctx/cache"
	"github.com/arjunmahishi/repoctx/document"
	"github.com/arjunmahishi/repoctx/watch"
	"github.com/urfave/cli/v3"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "regenerate the document whenever files change",
		Description: "Build the document once, then rebuild it after every burst of changes.\n" +
			"Unchanged files are served from an in-memory cache.\n\n" +
			"Examples:\n" +
			"  repoctx watch -o context.txt                  # keep context.txt current\n" +
			"  repoctx watch -o ctx.json --format json --debounce 2s",
		Flags: append(documentFlags(), &cli.DurationFlag{
			Name:  "debounce",
			Value: watch.DefaultDebounce,
			Usage: "quiet period before a rebuild",
		}),
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	summaries, err := cache.New(cfg.CacheSize, logger)
	if err != nil {
		return err
	}

	opts := documentOptions(cfg, logger)
	opts.Cache = summaries
	b, err := document.New(opts)
	if err != nil {
		return err
	}

	// Every rebuild overwrites the same file.
	target := outputPath(cfg, time.Now())
	var skip string
	if target != "-" {
		if skip, err = filepath.Abs(target); err != nil {
			return fmt.Errorf("resolve output: %w", err)
		}
	}

	w, err := watch.New(b, watch.Options{
		Debounce: cfg.Watch.Debounce,
		Logger:   logger,
		Skip: func(path string) bool {
			return path == skip
		},
		OnBuild: func(_ context.Context, doc *document.Document) error {
			if err := writeDocument(stdout(cmd), target, doc, cfg); err != nil {
				return err
			}
			stats := summaries.Stats()
			logger.Info("document written",
				"output", target,
				"files", doc.Stats.TotalFiles,
				"cache_hits", stats.Hits,
				"cache_misses", stats.Misses,
			)
			return nil
		},
	})
	if err != nil {
		return err
	}

	logger.Info("watching", "root", cfg.Root, "debounce", cfg.Watch.Debounce)
	return w.Run(ctx)
}
