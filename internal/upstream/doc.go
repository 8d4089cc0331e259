// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

// Package upstream protects the engine's collaborators (catalog provider,
// history store, feedback store) with a per-call timeout, a token bucket rate
// limiter and a circuit breaker.
//
// Every failure that means "the dependency could not answer" is reported as
// recommend.ErrUpstreamUnavailable, so scorers degrade instead of failing the
// request. recommend.ErrInvalidUser and caller cancellation pass through
// unchanged and do not count against the breaker.
//
// Circuit breaker configuration (defaults):
//   - Opens after 5 consecutive failures, or a 60% failure rate over at least
//     10 requests within the 1 minute measurement window
//   - Stays open for 30 seconds, then lets 3 trial requests through
//
// State changes are logged and exported as kahani_circuit_breaker_* metrics.
//
// Example:
//
//	catalog := upstream.NewCatalog(db, upstream.DefaultConfig())
//	history := upstream.NewHistory(db, upstream.DefaultConfig())
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{History: history}, logger)
package upstream
