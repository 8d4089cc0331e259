// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are registered with the default registry through promauto and exposed at
/metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation Metrics:
  - recommend_requests_total: Requests by strategy and outcome (counter)
    Labels: strategy, outcome (ok, degraded, cached, error)
  - recommend_request_duration_seconds: End-to-end latency (histogram)
  - recommend_scorer_duration_seconds: Per-scorer latency (histogram)
  - recommend_scorer_degraded_total: Degraded scorer runs (counter)
    Labels: strategy, reason (timeout, panic, upstream, canceled, error)
  - recommend_scorer_candidates: Candidates per scorer run (histogram)
  - recommend_feedback_total: Feedback signals (counter)
  - experiment_assignments_total: Assignment lookups by source (counter)

Cache Metrics:
  - cache_hits_total, cache_misses_total: Lookups by backend (counter)
  - cache_errors_total: Backend failures by operation (counter)
  - cache_entries: Entries held by the in-memory backend (gauge)
  - cache_evictions_total: Expired or capacity evictions (counter)

Upstream Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Calls by result (counter)
  - circuit_breaker_state_transitions_total: State changes (counter)
  - upstream_rate_limited_total: Calls refused by the rate limiter (counter)

Database and API Metrics:
  - duckdb_query_duration_seconds, duckdb_query_errors_total
  - api_requests_total, api_request_duration_seconds, api_active_requests,
    api_rate_limit_hits_total

# Engine Integration

Recorder implements recommend.Recorder and is passed to the engine through
recommend.Dependencies:

	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
	    History:  store,
	    Recorder: metrics.NewRecorder("redis"),
	}, logger)

# Thread Safety

All metric operations are safe for concurrent use.
*/
package metrics
