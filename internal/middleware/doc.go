// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: propagates or generates an X-Request-ID (UUID v4) and stores it
    in the request context for logging.Ctx
  - AccessLog: one structured log line per request
  - PrometheusMetrics: request count, duration and in-flight gauge, labelled
    by the chi route pattern so path parameters do not explode cardinality

All middleware use the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
