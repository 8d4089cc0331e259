// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/Srijan272002/Kahani-sub000/internal/api"
	"github.com/Srijan272002/Kahani-sub000/internal/cache"
	"github.com/Srijan272002/Kahani-sub000/internal/config"
	"github.com/Srijan272002/Kahani-sub000/internal/database"
	"github.com/Srijan272002/Kahani-sub000/internal/logging"
	"github.com/Srijan272002/Kahani-sub000/internal/metrics"
	"github.com/Srijan272002/Kahani-sub000/internal/supervisor"
	"github.com/Srijan272002/Kahani-sub000/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("experiments", cfg.Experiment.Enabled).
		Msg("Starting Kahani with supervisor tree")

	metrics.RecordAppInfo(version)

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Server stopped")
}

//nolint:gocyclo // sequential setup steps
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedPath != "" {
		if err := db.SeedFromFile(ctx, cfg.Database.SeedPath); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
		logging.Info().Str("path", cfg.Database.SeedPath).Msg("Database seeded")
	}

	store, err := cache.New(cfg.CacheConfig())
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing result cache")
			}
		}()
	} else {
		logging.Warn().Msg("Result caching is disabled (CACHE_BACKEND=none)")
	}

	engine, guards, err := buildEngine(cfg, db, store)
	if err != nil {
		return err
	}

	handler := api.NewHandler(engine, api.HandlerConfig{Version: version}, readinessChecks(db, guards, store)...)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.IsProduction() && cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS to specific origins")
	}
	mw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, mw).SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	if tree.AddDataServiceIfSupported(store) {
		logging.Info().Str("backend", cfg.Cache.Backend).Msg("Cache maintenance added to supervisor")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
	}
	return nil
}
