// Package server initializes and runs the authboard application: it opens the
// store, applies migrations, wires the services and serves HTTP until the
// process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authboard/internal/dbx"
	"github.com/dmitrijs2005/authboard/internal/logging"
	"github.com/dmitrijs2005/authboard/internal/server/auth"
	"github.com/dmitrijs2005/authboard/internal/server/config"
	"github.com/dmitrijs2005/authboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authboard/internal/server/rest"
	"github.com/dmitrijs2005/authboard/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.HTTPServer
}

// OpenStore connects to the database named by dsn and brings its schema up
// to date.
func OpenStore(ctx context.Context, dsn string) (*sql.DB, *repomanager.SQLRepositoryManager, error) {
	db, dialect, err := dbx.Open(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewSQLRepositoryManager(dialect)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}

	return db, rm, nil
}

// NewUserService builds the user service the way the server does, so other
// entry points hash and sign identically.
func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, c *config.Config) *services.UserService {
	tokens := auth.NewTokenManager([]byte(c.SecretKey), c.AccessTokenTTL)
	return services.NewUserService(db, rm, auth.NewBcryptHasher(c.BcryptCost), tokens)
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, rm, err := OpenStore(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	us := NewUserService(db, rm, c)
	ps := services.NewPageService(db, rm)

	srv, err := rest.NewHTTPServer(c.HTTPAddr, logger, us, ps, rest.Options{
		StaticDir:       c.StaticDir,
		CORSOrigins:     c.CORSOrigins,
		ReadTimeout:     c.ReadTimeout,
		WriteTimeout:    c.WriteTimeout,
		IdleTimeout:     c.IdleTimeout,
		ShutdownTimeout: c.ShutdownTimeout,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

// initSignalHandler cancels on SIGINT, SIGTERM or SIGQUIT. The returned
// channel is closed once the handler has stopped listening, which happens on
// the first signal or when ctx is done.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) <-chan struct{} {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer signal.Stop(sigs)

		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()

	return done
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	if app.config.SecretKey == config.DefaultSecretKey {
		app.logger.Warn(ctx, "using the development secret key; set JWT_SECRET_KEY")
	}

	signalsDone := app.initSignalHandler(ctx, cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	cancelFunc()
	<-signalsDone

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr.Error())
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
