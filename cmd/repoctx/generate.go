package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/arjunmahishi/repoctx/config"
	"github.com/arjunmahishi/repoctx/document"
	"github.com/arjunmahishi/repoctx/logging"
	"github.com/arjunmahishi/repoctx/output"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "build the context document",
		Description: "Walk the repository, summarize every file and write the document.\n\n" +
			"Examples:\n" +
			"  repoctx generate --path ./service         # write ./service/context_<timestamp>.txt\n" +
			"  repoctx generate -o ctx.txt --progress    # fixed output file with a progress bar\n" +
			"  repoctx generate --include 'src/**/*.cs'  # only C# sources under src",
		Flags:  generateFlags(),
		Action: runGenerate,
	}
}

// documentFlags are shared by every command that builds documents.
func documentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "path",
			Value: ".",
			Usage: "repository root to summarize",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file, '-' for stdout (default: context_<timestamp>.txt in the root)",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: "text",
			Usage: "document format: text, json",
		},
		&cli.BoolFlag{
			Name:  "compact",
			Usage: "minimize JSON output",
		},
		&cli.StringSliceFlag{
			Name:  "ignore",
			Usage: "ignore pattern, replaces the defaults (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "only summarize files matching this pattern (repeatable)",
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Value:   runtime.NumCPU(),
			Usage:   "number of parallel workers",
		},
		&cli.Int64Flag{
			Name:  "max-bytes",
			Value: document.DefaultMaxBytes,
			Usage: "inventory but do not read files larger than this, negative for no limit",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "config file (default: .repoctx.yaml in the root)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: string(logging.LevelWarn),
			Usage: "log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Value: string(logging.FormatText),
			Usage: "log format: text, json",
		},
	}
}

func generateFlags() []cli.Flag {
	return append(documentFlags(), &cli.BoolFlag{
		Name:  "progress",
		Usage: "show a progress bar on stderr",
	})
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	opts := documentOptions(cfg, logger)
	if cmd.Bool("progress") {
		opts.Progress = progressFunc(os.Stderr)
	}

	doc, err := document.Generate(ctx, opts)
	if err != nil {
		return err
	}

	target := outputPath(cfg, doc.GeneratedAt)
	if err := writeDocument(stdout(cmd), target, doc, cfg); err != nil {
		return err
	}
	logger.Info("document written", "output", target, "files", doc.Stats.TotalFiles)
	return nil
}

// loadConfig reads the config file and environment for the selected root
// and applies every flag the user set explicitly.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	dir := cmd.String("path")
	cfg, err := config.Load(config.Options{
		Dir:  dir,
		File: cmd.String("config"),
	})
	if err != nil {
		return nil, err
	}

	// A root from the config file is relative to the directory it was found in.
	switch {
	case cmd.IsSet("path"):
		cfg.Root = dir
	case !filepath.IsAbs(cfg.Root):
		cfg.Root = filepath.Join(dir, cfg.Root)
	}
	if cmd.IsSet("output") {
		cfg.Output = cmd.String("output")
	}
	if cmd.IsSet("format") {
		cfg.Format = cmd.String("format")
	}
	if cmd.IsSet("compact") {
		cfg.Compact = cmd.Bool("compact")
	}
	if cmd.IsSet("ignore") {
		cfg.Ignore = cmd.StringSlice("ignore")
	}
	if cmd.IsSet("include") {
		cfg.Include = cmd.StringSlice("include")
	}
	if cmd.IsSet("jobs") {
		cfg.Jobs = cmd.Int("jobs")
	}
	if cmd.IsSet("max-bytes") {
		cfg.MaxBytes = cmd.Int64("max-bytes")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}
	if cmd.IsSet("debounce") {
		cfg.Watch.Debounce = cmd.Duration("debounce")
	}

	cfg.Normalize()
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	lc := logging.DefaultConfig()
	lc.Level = logging.Level(cfg.Log.Level)
	lc.Format = logging.Format(cfg.Log.Format)
	return logging.New(lc)
}

func documentOptions(cfg *config.Config, logger *slog.Logger) document.Options {
	return document.Options{
		Root:     cfg.Root,
		Ignore:   cfg.Ignore,
		Include:  cfg.Include,
		Jobs:     cfg.Jobs,
		MaxBytes: cfg.MaxBytes,
		Timeout:  cfg.Timeout,
		Logger:   logger,
	}
}

// outputPath resolves where a document generated at t goes. "-" means
// stdout.
func outputPath(cfg *config.Config, t time.Time) string {
	if cfg.Output == "" {
		return filepath.Join(cfg.Root, document.DefaultOutputName(t))
	}
	return cfg.Output
}

func writeDocument(stdout io.Writer, target string, doc *document.Document, cfg *config.Config) error {
	if target == "-" {
		return encodeDocument(stdout, doc, cfg)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := encodeDocument(f, doc, cfg); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}

func encodeDocument(w io.Writer, doc *document.Document, cfg *config.Config) error {
	if cfg.Format == "json" {
		return output.New(output.Config{Compact: cfg.Compact, Output: w}).Write(doc)
	}
	return document.WriteText(w, doc)
}

// progressFunc draws a bar sized on the first callback, once the number of
// files is known. Calls arrive from a single goroutine.
func progressFunc(w io.Writer) func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("Summarizing files"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("files/s"),
				progressbar.OptionThrottle(65*time.Millisecond),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(w)
				}),
			)
		}
		_ = bar.Set(done)
	}
}
