package main

import (
	"context"
	"fmt"
	"os"

	"github.com/atlanticdynamic/activetx/internal/fancy"
	"github.com/atlanticdynamic/activetx/internal/logging"
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "activetx",
		Version: Version,
		Usage:   "Run transactions against the active document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
			},
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Database path for a single document, used when no --config is given",
			},
			&cli.StringFlag{
				Name:    "document",
				Aliases: []string{"d"},
				Usage:   "Name of the document to make active",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (trace, debug, info, warn, error); overrides the config file",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// replaced by the configured handler once a session opens
			logging.SetupLogger(cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			newVersionCmd(),
			newValidateCmd(),
			newGetCmd(),
			newPutCmd(),
			newDeleteCmd(),
			newBatchCmd(),
			newListCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", fancy.ErrorText("Error:"), err)
		os.Exit(1)
	}
}
