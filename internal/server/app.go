// Package server wires the users API together: configuration, logging, the
// embedded store, the users service and the HTTP server, with graceful
// shutdown on SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/server/config"
	"github.com/dmitrijs2005/usersapi/internal/server/httpapi"
	"github.com/dmitrijs2005/usersapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usersapi/internal/server/services"
	"github.com/dmitrijs2005/usersapi/internal/server/store"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       *store.Manager
	userService *services.UserService
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(c, logging.New(c.LogFormat, c.LogLevel))
}

func newApp(c *config.Config, logger logging.Logger) (*App, error) {
	if c.DatabasePath == "" {
		return nil, fmt.Errorf("database path is not set")
	}

	rm := repomanager.NewSQLiteRepositoryManager(logger.With("module", "migrations"))
	st := store.NewManager(store.Config{Path: c.DatabasePath}, rm, logger)
	us := services.NewUserService(st, logger)

	return &App{config: c, logger: logger, store: st, userService: us}, nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
}

func (app *App) httpServer() *httpapi.HTTPServer {
	return httpapi.NewHTTPServer(httpapi.Options{
		Address:           app.config.Address,
		CORSOrigins:       app.config.CORSOrigins,
		ReadHeaderTimeout: app.config.ReadHeaderTimeout,
		ShutdownTimeout:   app.config.ShutdownTimeout,
	}, app.logger, app.userService)
}

// Run seeds the store if needed and serves HTTP until ctx is cancelled or a
// termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := app.initSignalHandler(ctx)
	defer cancel()

	app.logger.Info(ctx, "Starting app...", "mode", app.config.Mode, "database", app.config.DatabasePath)

	defer func() {
		if err := app.store.Close(); err != nil {
			app.logger.Error(ctx, "close store", "error", err)
		}
	}()

	if err := app.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	if err := app.httpServer().Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	app.logger.Info(context.Background(), "App stopped")
	return nil
}
