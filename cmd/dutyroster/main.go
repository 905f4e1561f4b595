package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/fgz-roster/dutyroster/internal/adapters/secondary/sheetcsv"
	"github.com/fgz-roster/dutyroster/internal/application/services"
	"github.com/fgz-roster/dutyroster/internal/infrastructure/config"
	"github.com/fgz-roster/dutyroster/internal/ports"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("dutyroster failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "dutyroster v%s (%s %s)\n", version, commit, date)
	}

	return &cli.App{
		Name:    "dutyroster",
		Usage:   "Show the ongoing, next and today's duties from a published roster sheet.",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to configuration file",
				EnvVars: []string{"DUTYROSTER_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			showCommand(),
			watchCommand(),
		},
		Action: func(c *cli.Context) error {
			return runServe(c)
		},
	}
}

// loadConfig loads the file named by --config with environment overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, _ := cfg.LogLevel()
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// newRosterService wires a roster source into a service configured from cfg.
func newRosterService(cfg *config.Config, source ports.RosterSource, logger *slog.Logger) (*services.RosterService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	svc := services.NewRosterService(source, loc)
	svc.SetTag(cfg.Roster.Tag)
	svc.SetLogger(logger)
	return svc, nil
}

func newSheetClient(cfg *config.Config) *sheetcsv.Client {
	return sheetcsv.NewClient(cfg.Roster.CSVURL, cfg.Roster.FetchTimeout,
		sheetcsv.WithUserAgent("dutyroster/"+version),
	)
}
