package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wingbeat/carrier/internal/notify/store"
	"github.com/wingbeat/carrier/internal/notify/store/drivers/sqlite"
	"github.com/wingbeat/carrier/internal/worker/delivery"
	"github.com/wingbeat/carrier/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the delivery worker. It shares the notification
// database with the notify service and owns nothing else.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	poller *delivery.Poller
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "push-worker",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.poller = &delivery.Poller{
		Outbox: app.db.Outbox(),
		Sender: &delivery.WebPushSender{
			Subscriber:      cfg.Subscriber,
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			TTLSeconds:      int(cfg.PushTTL.Seconds()),
		},
		Interval:  cfg.PollInterval,
		BatchSize: cfg.BatchSize,
		Logger:    app.logger,
	}

	return app, nil
}

// Run polls the outbox until a shutdown signal arrives.
func (app *Application) Run() error {
	app.logger.Info("push worker starting",
		"poll_interval", app.cfg.PollInterval.String(),
		"batch_size", app.cfg.BatchSize,
		"version", BuildVersion,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.poller.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("poller failed: %w", err)
	}

	app.logger.Info("shutting down push worker...")
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("push worker stopped")
	return nil
}

// initDatabase opens the shared notification database and applies migrations,
// so the worker can start before the notify service ever has.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}
