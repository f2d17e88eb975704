// Package server wires the journal store together: repositories, photo
// offloading, the HTTP JSON API and the gRPC health service. It runs both
// listeners until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/geojournal/internal/logging"
	"github.com/dmitrijs2005/geojournal/internal/server/api"
	"github.com/dmitrijs2005/geojournal/internal/server/config"
	"github.com/dmitrijs2005/geojournal/internal/server/photos"
	"github.com/dmitrijs2005/geojournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/geojournal/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/geojournal/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      repomanager.RepositoryManager
	httpServer *api.Server
	grpcServer *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, entries are kept in memory")
	}

	offloader, err := newOffloader(ctx, c)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	var reg *prometheus.Registry
	if c.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	es := services.NewEntryService(repos.Entries(), offloader, logger)
	handler := api.NewHandler(es, logger)

	return &App{
		config:     c,
		logger:     logger,
		repos:      repos,
		httpServer: api.NewServer(c.HTTPAddr, handler, reg, c.ShutdownTimeout, logger),
		grpcServer: gs.NewHealthServer(c.GRPCAddr, logger),
	}, nil
}

func newOffloader(ctx context.Context, c *config.Config) (photos.Offloader, error) {
	if c.S3Bucket == "" {
		return photos.Passthrough{}, nil
	}
	s, err := photos.NewS3Store(ctx, photos.S3Options{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("photo store init error: %w", err)
	}
	return s, nil
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, or until either listener
// fails. The first listener error cancels the other.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.httpServer.Run(ctx) })
	g.Go(func() error { return app.grpcServer.Run(ctx) })

	err := g.Wait()

	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "close repositories", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
