// Package server initializes and runs the thesis archive server: it opens the
// database, applies migrations, wires the services, and starts the HTTP
// endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"thesisarchive/internal/logging"
	"thesisarchive/internal/server/config"
	"thesisarchive/internal/server/httpapi"
	"thesisarchive/internal/server/repositories/repomanager"
	"thesisarchive/internal/server/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	identity *services.IdentityService
	theses   *services.ThesisService
	files    *services.FileStoreService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	identity := services.NewIdentityService(db, m, cfg)
	theses := services.NewThesisService(db, m, identity)
	files := services.NewFileStoreService(cfg)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		identity: identity,
		theses:   theses,
		files:    files,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	if n, err := app.identity.PurgeExpiredSessions(ctx); err != nil {
		app.logger.Warn(ctx, "session purge failed", "error", err.Error())
	} else if n > 0 {
		app.logger.Info(ctx, "purged expired sessions", "count", n)
	}

	srv := httpapi.NewServer(app.config, app.logger, app.identity, app.theses, app.files, app.db)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}

	app.logger.Info(shutdownCtx, "app stopped")
}
