// Package server wires the configuration, storage, login limiter and
// services together and runs the gRPC and HTTP transports until a shutdown
// signal arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophportal/internal/cryptox"
	"github.com/dmitrijs2005/gophportal/internal/logging"
	"github.com/dmitrijs2005/gophportal/internal/server/auth"
	"github.com/dmitrijs2005/gophportal/internal/server/config"
	"github.com/dmitrijs2005/gophportal/internal/server/httpapi"
	"github.com/dmitrijs2005/gophportal/internal/server/ratelimit"
	"github.com/dmitrijs2005/gophportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophportal/internal/server/services"

	gs "github.com/dmitrijs2005/gophportal/internal/server/grpc"
)

// logOutput is where the application logger writes; tests replace it.
var logOutput io.Writer = os.Stdout

type App struct {
	config         *config.Config
	logger         logging.Logger
	repomanager    repomanager.RepositoryManager
	limiter        ratelimit.Limiter
	authService    *services.AuthService
	accountService *services.AccountService
	avatarService  *services.AvatarService
	closers        []io.Closer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogFormat, c.LogLevel, logOutput)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger}

	if err := app.initStorage(ctx); err != nil {
		app.Close()
		return nil, err
	}

	if err := app.initLimiter(ctx); err != nil {
		app.Close()
		return nil, err
	}

	tokens, err := auth.NewTokenService([]byte(c.SecretKey), auth.WithDefaultTTL(c.AccessTokenValidityDuration))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	hasher := cryptox.NewHasher(cryptox.DefaultArgon2Params)

	app.authService, err = services.NewAuthService(app.repomanager, hasher, tokens, app.limiter, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("auth service init error: %w", err)
	}
	app.accountService = services.NewAccountService(app.repomanager, hasher, logger)
	app.avatarService = services.NewAvatarService(app.repomanager, c)

	return app, nil
}

// initStorage picks Postgres when a DSN is configured and the in-memory
// store otherwise.
func (app *App) initStorage(ctx context.Context) error {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "No database DSN configured, using in-memory storage")
		app.repomanager = repomanager.NewMemoryRepositoryManager()
		return nil
	}

	m, err := repomanager.NewPostgresRepositoryManager(ctx, app.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	app.repomanager = m
	app.closers = append(app.closers, m)

	if err := m.RunMigrations(ctx); err != nil {
		return fmt.Errorf("db migration error: %w", err)
	}
	return nil
}

func (app *App) initLimiter(ctx context.Context) error {
	switch {
	case app.config.LoginAttemptLimit <= 0:
		app.limiter = ratelimit.Nop{}
	case app.config.RedisAddr != "":
		client, err := ratelimit.NewRedisClient(ctx, app.config.RedisAddr)
		if err != nil {
			return fmt.Errorf("redis init error: %w", err)
		}
		app.closers = append(app.closers, client)
		app.limiter = ratelimit.NewRedisLimiter(client, app.config.LoginAttemptLimit, app.config.LoginAttemptWindow)
	default:
		app.limiter = ratelimit.NewMemoryLimiter(app.config.LoginAttemptLimit, app.config.LoginAttemptWindow, nil)
	}
	return nil
}

// Close releases the database and Redis connections.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Error(context.Background(), "close error", "error", err.Error())
		}
	}
	app.closers = nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService, app.accountService, app.avatarService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.accountService, app.avatarService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until ctx is cancelled, a shutdown signal
// arrives or one of the servers fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}
