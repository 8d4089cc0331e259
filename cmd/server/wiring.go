// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package main

import (
	"context"
	"fmt"

	"github.com/Srijan272002/Kahani-sub000/internal/api"
	"github.com/Srijan272002/Kahani-sub000/internal/cache"
	"github.com/Srijan272002/Kahani-sub000/internal/config"
	"github.com/Srijan272002/Kahani-sub000/internal/database"
	"github.com/Srijan272002/Kahani-sub000/internal/experiment"
	"github.com/Srijan272002/Kahani-sub000/internal/logging"
	"github.com/Srijan272002/Kahani-sub000/internal/metrics"
	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
	"github.com/Srijan272002/Kahani-sub000/internal/recommend/algorithms"
	"github.com/Srijan272002/Kahani-sub000/internal/upstream"
)

// guardState is the part of upstream.Guard the readiness checks need.
type guardState interface {
	Name() string
	State() string
}

// buildEngine wires the recommendation engine over db. store may be nil, in
// which case result caching is disabled. The returned guards protect the
// database-backed providers.
func buildEngine(cfg *config.Config, db *database.DB, store cache.Store) (*recommend.Engine, []guardState, error) {
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, nil, err
	}

	catalog := upstream.NewCatalog(db, cfg.Upstream)
	history := upstream.NewHistory(db, cfg.Upstream)
	feedback := upstream.NewFeedbackWriter(db, cfg.Upstream)

	assigner, err := experiment.NewAssigner(cfg.Experiment, db)
	if err != nil {
		return nil, nil, fmt.Errorf("experiment assigner: %w", err)
	}

	deps := recommend.Dependencies{
		History:     history,
		Feedback:    feedback,
		Experiments: assigner,
		Recorder:    metrics.NewRecorder(cfg.Cache.Backend),
	}
	// A nil *cache.Results inside the interface would look like a live cache.
	if store != nil {
		deps.Cache = cache.NewResults(store, cache.Backend(cfg.Cache.Backend))
	}

	engine, err := recommend.NewEngine(engineCfg, deps, logging.WithComponent("recommend"))
	if err != nil {
		return nil, nil, fmt.Errorf("create engine: %w", err)
	}
	engine.RegisterScorer(algorithms.NewContentScorer(catalog, engineCfg.Content))
	engine.RegisterScorer(algorithms.NewCollaborativeScorer(catalog, history, engineCfg.Collaborative))
	engine.RegisterScorer(algorithms.NewContextualScorer(catalog, engineCfg.Contextual))

	guards := []guardState{catalog.Guard(), history.Guard(), feedback.Guard()}
	return engine, guards, nil
}

// readinessChecks builds the /health/ready probes. The database is critical;
// open breakers and an unreachable shared cache only degrade readiness.
func readinessChecks(db cache.Pinger, guards []guardState, store cache.Store) []api.ReadinessCheck {
	checks := []api.ReadinessCheck{{
		Name:     "database",
		Critical: true,
		Check:    db.Ping,
	}}

	for _, g := range guards {
		checks = append(checks, api.ReadinessCheck{
			Name: "breaker_" + g.Name(),
			Check: func(context.Context) error {
				if state := g.State(); state == "open" {
					return fmt.Errorf("circuit breaker %s is %s", g.Name(), state)
				}
				return nil
			},
		})
	}

	if p, ok := store.(cache.Pinger); ok {
		checks = append(checks, api.ReadinessCheck{
			Name:  "cache",
			Check: p.Ping,
		})
	}
	return checks
}
