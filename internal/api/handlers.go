// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package api

import (
	"context"
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// RecommendationService is the engine surface the handlers use.
// *recommend.Engine implements it.
type RecommendationService interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Explain(r recommend.RankedResult) recommend.Explanation
	RecordFeedback(ctx context.Context, userID, itemID string, signal recommend.FeedbackSignal) error
}

var _ RecommendationService = (*recommend.Engine)(nil)

// ReadinessCheck is one dependency probed by /health/ready. A failing
// Critical check makes the service report not ready; other checks are
// informational.
type ReadinessCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// HandlerConfig holds handler settings.
type HandlerConfig struct {
	// Version is reported by the health endpoints.
	Version string

	// RequestTimeout bounds a recommendation request end to end.
	RequestTimeout time.Duration

	// CheckTimeout bounds each readiness check.
	CheckTimeout time.Duration
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response and request helpers
//   - handlers_recommend.go: recommendation, explain and feedback endpoints
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	engine    RecommendationService
	checks    []ReadinessCheck
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a handler for the given engine and readiness checks.
func NewHandler(engine RecommendationService, cfg HandlerConfig, checks ...ReadinessCheck) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = 2 * time.Second
	}
	return &Handler{
		engine:    engine,
		checks:    checks,
		config:    cfg,
		startTime: time.Now(),
	}
}
