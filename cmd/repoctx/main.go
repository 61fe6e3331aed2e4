package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arjunmahishi/repoctx/output"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		output.WriteError(err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	generate := generateCommand()
	return &cli.Command{
		Name:  "repoctx",
		Usage: "summarize a repository into a single context document",
		Description: "Without a subcommand, repoctx behaves like 'repoctx generate'.\n\n" +
			"Examples:\n" +
			"  repoctx                          # write context_<timestamp>.txt in the current directory\n" +
			"  repoctx -o - --format json       # print the document as JSON\n" +
			"  repoctx extract -f Program.cs    # show the code context of one file",
		Flags:  generateFlags(),
		Action: generate.Action,
		Commands: []*cli.Command{
			generate,
			extractCommand(),
			watchCommand(),
			languagesCommand(),
			initCommand(),
		},
	}
}

// stdout is where commands print results. Tests replace the root writer.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
