// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/metrics"
	"github.com/Srijan272002/Kahani-sub000/internal/models"
)

// Health status values.
const (
	healthStatusHealthy  = "healthy"
	healthStatusDegraded = "degraded"
	healthStatusNotReady = "not_ready"
	checkStatusOK        = "ok"
)

// HealthLive handles liveness probes. It reports 200 while the process is
// serving, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(uptime)
	respondSuccess(w, models.HealthResponse{
		Status:        healthStatusHealthy,
		Version:       h.config.Version,
		UptimeSeconds: uptime,
	}, time.Now(), false)
}

// HealthReady handles readiness probes. It runs every readiness check and
// answers 503 when a critical one fails. Failing non-critical checks (for
// example an open circuit breaker) only downgrade the status to degraded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := healthStatusHealthy
	results := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := h.runCheck(r.Context(), c); err != nil {
			results[c.Name] = err.Error()
			if c.Critical {
				status = healthStatusNotReady
			} else if status == healthStatusHealthy {
				status = healthStatusDegraded
			}
			continue
		}
		results[c.Name] = checkStatusOK
	}

	health := models.HealthResponse{
		Status:        status,
		Version:       h.config.Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Checks:        results,
	}

	if status == healthStatusNotReady {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status: models.StatusError,
			Data:   health,
			Metadata: models.Metadata{
				Timestamp:   time.Now().UTC(),
				QueryTimeMS: time.Since(start).Milliseconds(),
			},
			Error: &models.APIError{
				Code:    models.ErrCodeUnavailable,
				Message: "Service is not ready",
			},
		})
		return
	}

	respondSuccess(w, health, start, false)
}

func (h *Handler) runCheck(ctx context.Context, c ReadinessCheck) error {
	if c.Check == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, h.config.CheckTimeout)
	defer cancel()
	return c.Check(ctx)
}
