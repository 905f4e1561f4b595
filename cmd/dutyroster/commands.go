package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	httpAdapter "github.com/fgz-roster/dutyroster/internal/adapters/primary/http"
	"github.com/fgz-roster/dutyroster/internal/adapters/primary/terminal"
	"github.com/fgz-roster/dutyroster/internal/adapters/secondary/sheetcsv"
	"github.com/fgz-roster/dutyroster/internal/ports"
)

const shutdownTimeout = 30 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web board and refresh the roster in the background.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "web-dir", Value: "web", Usage: "directory holding templates/ and static/"},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Setup logging
	logger := newLogger(os.Stdout, cfg)
	logger.Info("starting dutyroster", slog.String("version", version), slog.String("commit", commit), slog.String("date", date))
	logger.Info("configuration loaded",
		slog.String("csv_url", cfg.Roster.CSVURL),
		slog.String("tag", cfg.Roster.Tag),
		slog.String("timezone", cfg.Roster.Timezone),
		slog.String("server_host", cfg.Server.Host),
		slog.Int("server_port", cfg.Server.Port),
	)

	roster, err := newRosterService(cfg, newSheetClient(cfg), logger)
	if err != nil {
		return err
	}

	webDir := c.String("web-dir")
	if webDir == "" {
		webDir = "web"
	}
	templates, err := httpAdapter.LoadTemplates(filepath.Join(webDir, "templates"))
	if err != nil {
		return err
	}

	handler := httpAdapter.NewHandler(logger, roster)
	handler.SetTemplates(templates)
	handler.SetUIThemeDefault(cfg.UI.Theme)
	handler.SetTitle(cfg.UI.Title)

	mux := httpAdapter.SetupRoutes(handler, logger, filepath.Join(webDir, "static"))
	server := httpAdapter.NewServer(&cfg.Server, logger, mux)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Refresh loop runs until shutdown.
	go roster.Run(ctx)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	logger.Info("server started", slog.String("addr", "http://"+server.Addr()))

	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Fetch the roster once and print the board.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "read the roster from a local CSV file instead of the sheet"},
			&cli.StringFlag{Name: "at", Usage: "evaluate the board at this time (2006-01-02T15:04) in the roster timezone"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger := newLogger(os.Stderr, cfg)

			var source ports.RosterSource = newSheetClient(cfg)
			if path := c.String("file"); path != "" {
				source = sheetcsv.FileSource{Path: path}
			}

			roster, err := newRosterService(cfg, source, logger)
			if err != nil {
				return err
			}

			now := time.Now()
			if at := c.String("at"); at != "" {
				now, err = parseAt(at, roster.Location())
				if err != nil {
					return err
				}
			}

			if err := roster.Refresh(c.Context); err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, terminal.RenderBoard(roster.Board(now), now.In(roster.Location())))
			return nil
		},
	}
}

// parseAt reads --at values in loc. RFC 3339 input keeps its own offset.
func parseAt(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --at %q: want 2006-01-02T15:04", s)
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Show a live board in the terminal.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dark", Usage: "start with dark styles"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			// The TUI owns the terminal; refresh diagnostics surface in the view.
			logger := slog.New(slog.DiscardHandler)
			roster, err := newRosterService(cfg, newSheetClient(cfg), logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			dark := c.Bool("dark") || cfg.UI.Theme == "dark"
			model := terminal.NewWatchModel(ctx, roster, cfg.UI.Title).WithDarkTheme(dark)

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("watch: %w", err)
			}
			return nil
		},
	}
}
