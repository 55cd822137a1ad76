// Package server wires the registration server together: storage, the
// registration service, the HTTP form endpoint, the gRPC health endpoint and
// the storage health watcher, and runs them until a signal arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/symptoms/internal/logging"
	"github.com/dmitrijs2005/symptoms/internal/server/config"
	"github.com/dmitrijs2005/symptoms/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/symptoms/internal/server/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/symptoms/internal/server/grpc"
	hs "github.com/dmitrijs2005/symptoms/internal/server/http"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	storage       repomanager.RepositoryManager
	registrations *services.RegistrationService
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(context.Background(), c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {

	logger := logging.NewJSONLogger(logOut, c.LogLevel)
	if logging.ParseLevel(c.LogLevel) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	rm, err := repomanager.New(ctx, c.DatabaseDSN, repomanager.Options{MongoDatabase: c.MongoDatabase})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	rs, err := services.NewRegistrationService(rm, c)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	logger.Info(ctx, "storage ready", "backend", string(repomanager.KindOf(c.DatabaseDSN)))

	return &App{config: c, logger: logger, storage: rm, registrations: rs}, nil
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

// Run serves until ctx is cancelled, a signal arrives or one of the servers
// fails. Storage is closed before returning.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	httpServer := hs.NewServer(app.config.EndpointAddrHTTP, app.config.AllowOrigins, app.logger, app.registrations, app.storage)
	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.storage, app.config.HealthCheckInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(gctx) })
	g.Go(func() error { return grpcServer.Run(gctx) })
	g.Go(func() error { return grpcServer.WatchStorage(gctx) })

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
	}

	if cerr := app.storage.Close(); cerr != nil {
		app.logger.Error(ctx, "closing storage", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
