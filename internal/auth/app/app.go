package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/wingbeat/carrier/internal/auth/http"
	"github.com/wingbeat/carrier/internal/auth/provider"
	"github.com/wingbeat/carrier/internal/auth/service"
	"github.com/wingbeat/carrier/internal/auth/store"
	"github.com/wingbeat/carrier/internal/auth/store/drivers/sqlite"
	"github.com/wingbeat/carrier/pkg/cryptox"
	"github.com/wingbeat/carrier/pkg/httpx"
	"github.com/wingbeat/carrier/pkg/jwtx"
	"github.com/wingbeat/carrier/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the issuer service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *jwtx.Codec

	authService      *service.AuthService
	refreshService   *service.RefreshService
	delegatedService *service.DelegatedService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.codec = jwtx.NewCodec([]byte(app.cfg.TokenSecret))

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
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

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.authService = &service.AuthService{Store: app.db, Codec: app.codec}
	app.refreshService = &service.RefreshService{Codec: app.codec}
	app.delegatedService = &service.DelegatedService{Store: app.db, Codec: app.codec}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	cookies := httpx.NewSessionTransport(app.cfg.CookieSecure)

	router := httpapi.NewRouter(
		cookies,
		httpx.SessionConfig{
			Codec:       app.codec,
			Cookies:     cookies,
			Resolver:    &service.StoreResolver{Store: app.db},
			RefreshPath: httpapi.RefreshPath,
		},
		app.cfg.FrontendURL,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.RefreshService = app.refreshService
	router.DelegatedService = app.delegatedService

	if app.cfg.GitHubClientID != "" {
		router.Exchanger = provider.NewGitHub(app.cfg.GitHubClientID, app.cfg.GitHubClientSecret)
	} else {
		app.logger.Warn("no provider credentials configured, delegated login disabled")
	}

	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
