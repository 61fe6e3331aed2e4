package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arjunmahishi/repoctx/document"
	"github.com/arjunmahishi/repoctx/extract"
	"github.com/arjunmahishi/repoctx/output"
	"github.com/arjunmahishi/repoctx/scanner"
	"github.com/urfave/cli/v3"
)

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "print the code context of a single file",
		Description: "Run the structural summary for one file, exactly as it appears in the document.\n\n" +
			"Examples:\n" +
			"  repoctx extract -f src/Widget.cs          # labeled sections\n" +
			"  repoctx extract -f app.ts --json          # structured declarations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "file to summarize (required)",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the declarations as JSON",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "minimize JSON output",
			},
			&cli.Int64Flag{
				Name:  "max-bytes",
				Value: document.DefaultMaxBytes,
				Usage: "refuse files larger than this, negative for no limit",
			},
		},
		Action: runExtract,
	}
}

// extractResult is the JSON form of a single-file summary.
type extractResult struct {
	Path     string          `json:"path"`
	Language string          `json:"language,omitempty"`
	Family   extract.Family  `json:"family"`
	Result   *extract.Result `json:"result,omitempty"`
}

func runExtract(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	sc, err := scanner.New(scanner.Config{MaxBytes: cmd.Int64("max-bytes")})
	if err != nil {
		return err
	}
	job, err := sc.CollectSingle(path)
	if err != nil {
		return err
	}
	if job.Skipped {
		return fmt.Errorf("%s is %s, over the --max-bytes limit", path, document.FormatSize(job.Size))
	}

	data, err := os.ReadFile(job.AbsPath)
	if err != nil {
		return err
	}
	text := string(data)

	if !cmd.Bool("json") {
		_, err := fmt.Fprintln(stdout(cmd), extract.Extract(path, text))
		return err
	}

	res := extractResult{
		Path:   filepath.ToSlash(path),
		Family: extract.FamilyFor(path),
		Result: extract.Summarize(path, text),
	}
	if lang := extract.ForPath(path); lang != nil {
		res.Language = lang.Name()
	}
	return output.New(output.Config{
		Compact: cmd.Bool("compact"),
		Output:  stdout(cmd),
	}).Write(res)
}

func languagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "list the languages that get a code context",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "minimize output",
			},
		},
		Action: runLanguages,
	}
}

type languageInfo struct {
	Name       string         `json:"name"`
	Family     extract.Family `json:"family"`
	Extensions []string       `json:"extensions"`
}

func runLanguages(_ context.Context, cmd *cli.Command) error {
	names := extract.List()
	langs := make([]languageInfo, 0, len(names))
	for _, name := range names {
		lang := extract.Get(name)
		langs = append(langs, languageInfo{
			Name:       lang.Name(),
			Family:     lang.Family(),
			Extensions: lang.Extensions(),
		})
	}
	return output.New(output.Config{
		Compact: cmd.Bool("compact"),
		Output:  stdout(cmd),
	}).Write(langs)
}
