// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

// Package recommend implements the hybrid recommendation engine for movies,
// TV shows and books.
//
// # Architecture
//
// A request flows through the following stages:
//
//   - Profile: the user's interactions, stated preferences and feedback are
//     folded into a UserProfile (genre and era weights, rating statistics,
//     time-of-day engagement). The profile is rebuilt on every request.
//   - Scoring: the registered Scorers (content, collaborative, contextual)
//     run concurrently, each bounded by its own timeout. A scorer that fails
//     or times out yields a degraded outcome instead of failing the request.
//   - Fusion: in hybrid mode the outcomes are merged per (item, kind) with
//     fixed weights. In single-strategy mode one scorer's output is returned
//     unchanged.
//   - Caching: the ranked list is stored in a ResultCache keyed by user,
//     media kind and strategy. Cache errors are logged and ignored.
//   - Explanation: Explain groups a result's factors into content, social
//     and personal buckets and picks a primary reason.
//
// # Collaborators
//
// The engine never talks to storage directly. It consumes a CatalogProvider,
// a HistoryStore, a FeedbackStore and an ExperimentAssigner, all of which are
// injected by the caller. Scorer implementations live in the algorithms
// subpackage.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
//	    History:     history,
//	    Feedback:    history,
//	    Experiments: assigner,
//	    Cache:       resultCache,
//	}, logger)
//
//	engine.RegisterScorer(algorithms.NewContentScorer(catalog, cfg.Content))
//	engine.RegisterScorer(algorithms.NewCollaborativeScorer(catalog, history, cfg.Collaborative))
//	engine.RegisterScorer(algorithms.NewContextualScorer(catalog, cfg.Contextual))
//
//	results, err := engine.GetRecommendations(ctx, "u-42", recommend.KindMovie, 1)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Scorer registration takes an
// exclusive lock; requests only read the registry.
package recommend
