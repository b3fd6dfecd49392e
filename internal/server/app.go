// Package server initializes and runs the picshare application server.
// It loads configuration, connects storage backends, runs migrations,
// and starts the HTTP API with graceful shutdown on OS signals.
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

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vmelnikov/picshare/internal/logging"
	"github.com/vmelnikov/picshare/internal/server/api"
	"github.com/vmelnikov/picshare/internal/server/auth"
	"github.com/vmelnikov/picshare/internal/server/config"
	"github.com/vmelnikov/picshare/internal/server/password"
	"github.com/vmelnikov/picshare/internal/server/repositories/refreshtokens"
	"github.com/vmelnikov/picshare/internal/server/repositories/repomanager"
	"github.com/vmelnikov/picshare/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *api.Server
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	tokens, err := auth.NewManager(c.AccessTokenSecret, c.RefreshTokenSecret,
		c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token manager init error: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseConnString())
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	registry := refreshtokens.NewPostgresRepository(db)
	hasher := password.NewHasher(c.BcryptCost)
	media := services.NewMediaService(c)

	as := services.NewAuthService(db, rm, registry, tokens, hasher, media)
	fs := services.NewFeedService(db, rm, media)

	srv := api.NewServer(c.Address, logger, as, fs, tokens)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
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

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
