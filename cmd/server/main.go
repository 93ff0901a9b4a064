// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/gridwatch/internal/api"
	"github.com/tomtom215/gridwatch/internal/cache"
	"github.com/tomtom215/gridwatch/internal/config"
	"github.com/tomtom215/gridwatch/internal/dashboard"
	"github.com/tomtom215/gridwatch/internal/database"
	"github.com/tomtom215/gridwatch/internal/logging"
	"github.com/tomtom215/gridwatch/internal/metrics"
	"github.com/tomtom215/gridwatch/internal/pgstore"
	"github.com/tomtom215/gridwatch/internal/state"
	"github.com/tomtom215/gridwatch/internal/store"
	"github.com/tomtom215/gridwatch/internal/supervisor"
	"github.com/tomtom215/gridwatch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "gridwatch",
		Version:   version,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("backend", cfg.Database.Backend).
		Str("state_store", cfg.State.Store).
		Int("top_n", cfg.Dashboard.TopN).
		Bool("pushdown_filters", cfg.Dashboard.PushdownFilters).
		Msg("Starting GridWatch")
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS")
	}
	metrics.SetAppInfo(version, runtime.Version())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := openRowStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open row store")
	}
	defer func() {
		if err := src.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close row store")
		}
	}()

	accessor := store.NewAccessor(src, store.Options{
		QueryTimeout: cfg.Dashboard.QueryTimeout,
		Breaker: store.BreakerSettings{
			MaxRequests:  cfg.Dashboard.BreakerMaxRequests,
			Interval:     cfg.Dashboard.BreakerInterval,
			Timeout:      cfg.Dashboard.BreakerTimeout,
			MinRequests:  cfg.Dashboard.BreakerMinRequests,
			FailureRatio: cfg.Dashboard.BreakerFailureRatio,
		},
	})

	submitted, err := state.Open(cfg.State)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open submitted query store")
	}
	defer func() {
		if err := submitted.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close submitted query store")
		}
	}()

	viewCache := cache.New("detailed", cfg.Dashboard.CacheTTL, nil)
	svc := dashboard.New(accessor, submitted, dashboard.Options{
		TopN:     cfg.Dashboard.TopN,
		Pushdown: cfg.Dashboard.PushdownFilters,
		Cache:    viewCache,
	})

	handler := api.NewHandler(svc, accessor, cfg.Database.Backend, version)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Dashboard.Preload {
		tree.AddDataService(services.NewWarmupService(svc, cfg.Dashboard.QueryTimeout, logging.Logger()))
	}
	tree.AddDataService(viewCache)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logging.Logger()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, u := range unstopped {
			logging.Warn().Str("service", u.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// openRowStore opens the configured backend. The DuckDB backend seeds mock
// data first when enabled.
func openRowStore(ctx context.Context, cfg *config.Config) (store.Source, error) {
	switch cfg.Database.Backend {
	case config.BackendPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		pg, err := pgstore.Connect(connectCtx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return pg, nil

	case config.BackendDuckDB, "":
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if cfg.Database.SeedMockData {
			seedCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()
			if _, err := db.SeedMockData(seedCtx, database.SeedOptionsFromConfig(&cfg.Database)); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unknown database backend %q", cfg.Database.Backend)
	}
}
