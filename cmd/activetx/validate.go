package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlanticdynamic/activetx/internal/config"
	"github.com/atlanticdynamic/activetx/internal/fancy"
	"github.com/urfave/cli/v3"
)

func newValidateCmd() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"lint"},
		Usage:   "Validate a configuration file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "tree",
				Aliases: []string{"t"},
				Usage:   "Show detailed tree view of the validated configuration",
			},
		},
		Suggest: true,
		Action:  validateAction,
	}
}

func validateAction(_ context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		if cmd.Args().Len() < 1 {
			return cli.Exit(
				"config file path required (use the --config flag, or provide the config file as positional argument)",
				1,
			)
		}
		configPath = cmd.Args().Get(0)
	}

	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.Root().Writer
	fmt.Fprintln(out, fancy.ValidText(fmt.Sprintf("Configuration file %s is valid", configPath)))

	if cmd.Bool("tree") {
		fmt.Fprintln(out, cfg)
		return nil
	}

	fmt.Fprintln(out, renderConfigSummary(configPath, cfg))
	return nil
}

// renderConfigSummary creates a formatted summary string for the configuration
func renderConfigSummary(path string, cfg *config.Config) string {
	var summary strings.Builder

	summary.WriteString("\nConfig Summary:\n")
	summary.WriteString(fmt.Sprintf("- Path: %s\n", path))
	summary.WriteString(fmt.Sprintf("- Version: %s\n", cfg.Version))
	summary.WriteString(fmt.Sprintf("- Documents: %d\n", len(cfg.Documents)))
	summary.WriteString(fmt.Sprintf("- Active: %s\n", cfg.ActiveDocument()))
	summary.WriteString("\nUse --tree for a more detailed view of the config.")

	return summary.String()
}
