package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/scribe/internal"
	pkgconfig "github.com/starford/scribe/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := internal.ExpandHome(cmd.String("config"))

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(configPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	// Flags win over the config file.
	if cmd.IsSet("dir") {
		cfg.Notes.Dir = cmd.String("dir")
	}
	if cmd.Bool("no-index") {
		cfg.Index.Enabled = false
	}
	if cmd.Bool("no-watch") {
		cfg.Watch.Enabled = false
	}
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "scribe",
		Usage:  "Interactive note-taking shell with tags, line editing, and stats",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/.config/scribe/config.yaml",
				Value:       "~/.config/scribe/config.yaml",
				Sources:     cli.EnvVars("SCRIBE_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Notes directory",
				Sources: cli.EnvVars("SCRIBE_NOTES_DIR"),
			},
			&cli.BoolFlag{
				Name:  "no-index",
				Usage: "Disable the search catalog used by :find",
			},
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "Do not watch the notes directory for external changes",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
