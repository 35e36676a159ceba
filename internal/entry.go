// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/scribe/internal/index"
	"github.com/starford/scribe/internal/notestore"
	"github.com/starford/scribe/internal/session"
	"github.com/starford/scribe/internal/shell"
	"github.com/starford/scribe/internal/watch"
)

// Run starts an interactive note session with the given options and returns
// when the user quits, input ends, or the process is interrupted.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{in: os.Stdin, out: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger, closeLog, err := newLogger(cfg.App)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("notes_dir", cfg.Notes.Dir),
		slog.Bool("index_enabled", cfg.Index.Enabled),
		slog.String("index_path", cfg.IndexPath()),
		slog.Bool("watch_enabled", cfg.Watch.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage.
	store, err := notestore.New(cfg.Notes.Dir)
	if err != nil {
		return fmt.Errorf("init notes dir: %w", err)
	}

	console := shell.NewConsole(app.in, app.out)
	sessOpts := []session.Option{
		session.WithLogger(logger),
		session.WithLineReader(console),
	}

	// Initialize SQLite catalog.
	if cfg.Index.Enabled {
		db, err := index.Open(cfg.IndexPath())
		if err != nil {
			return fmt.Errorf("init index: %w", err)
		}
		defer db.Close()

		catalog := index.NewCatalog(db, store, logger)
		if err := catalog.Sync(); err != nil {
			logger.Warn("initial sync failed", slog.String("error", err.Error()))
		} else if n, err := db.Count(); err == nil {
			logger.Info("catalog ready", slog.Int("notes", n))
		}
		sessOpts = append(sessOpts, session.WithFinder(catalog))
	}

	sess := session.New(store, sessOpts...)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(runCtx)

	// Start directory watcher; external edits make cached stats stale.
	if cfg.Watch.Enabled {
		g.Go(func() error {
			err := watch.Watch(gCtx, store.Root(), logger, func(kind watch.Kind, name string) {
				sess.InvalidateStats()
			})
			if err != nil {
				logger.Warn("watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Run the shell; leaving it stops everything else.
	g.Go(func() error {
		defer cancel()
		return shell.Run(gCtx, console, sess, logger)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Session ended")
	return nil
}

// newLogger writes JSON logs to cfg.LogFile when set, else to stderr.
func newLogger(cfg ApplicationConfig) (*slog.Logger, func(), error) {
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	return logger, closeFn, nil
}
