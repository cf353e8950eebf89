// Package server initializes and runs the backend application. It wires
// the configuration, database pool, repositories, services, and the HTTP
// surface, and handles graceful shutdown on OS signals.
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

	"github.com/Trevrosa/pcupback/internal/logging"
	"github.com/Trevrosa/pcupback/internal/server/config"
	"github.com/Trevrosa/pcupback/internal/server/httpapi"
	"github.com/Trevrosa/pcupback/internal/server/password"
	"github.com/Trevrosa/pcupback/internal/server/repositories/repomanager"
	"github.com/Trevrosa/pcupback/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	authService    *services.AuthService
	sessionService *services.SessionService
	syncService    *services.SyncService
	accountService *services.AccountService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	ss := services.NewSessionService(db, rm, c.SessionTimeout, logger)
	as := services.NewAuthService(db, rm, password.NewArgon2(), ss, logger)
	ys := services.NewSyncService(db, rm, logger)
	ds := services.NewAccountService(db, rm, logger)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		authService:    as,
		sessionService: ss,
		syncService:    ys,
		accountService: ds,
	}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.authService, app.sessionService, app.syncService, app.accountService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
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
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
