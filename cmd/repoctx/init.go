package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arjunmahishi/repoctx/config"
	"github.com/urfave/cli/v3"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "write a starter .repoctx.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Value: ".",
				Usage: "directory to write the config file to",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite an existing config file",
			},
		},
		Action: runInit,
	}
}

func runInit(_ context.Context, cmd *cli.Command) error {
	path := filepath.Join(cmd.String("path"), config.FileNames[0])
	if err := config.Write(path, config.Default(), cmd.Bool("force")); err != nil {
		return err
	}
	_, err := fmt.Fprintf(stdout(cmd), "wrote %s\n", path)
	return err
}
