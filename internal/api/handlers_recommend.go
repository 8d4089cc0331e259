// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Srijan272002/Kahani-sub000/internal/logging"
	"github.com/Srijan272002/Kahani-sub000/internal/models"
	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// GetRecommendations handles GET /api/v1/recommendations/{userID}.
//
// Query parameters:
//   - kind: movie, tv or book (required)
//   - page: 1-based page number (default 1)
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	page, err := getIntParam(r, "page", 1)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	query := models.RecommendationsQuery{
		UserID: strings.TrimSpace(chi.URLParam(r, "userID")),
		Kind:   strings.ToLower(strings.TrimSpace(r.URL.Query().Get("kind"))),
		Page:   page,
	}
	if apiErr := validateRequest(&query); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()
	ctx = logging.ContextWithUserID(ctx, query.UserID)

	resp, err := h.engine.Recommend(ctx, recommend.Request{
		UserID: query.UserID,
		Kind:   recommend.MediaKind(query.Kind),
		Page:   query.Page,
	})
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	respondSuccess(w, models.RecommendationsResponse{
		UserID:   query.UserID,
		Kind:     recommend.MediaKind(query.Kind),
		Strategy: resp.Strategy,
		Results:  resp.Results,
		Pagination: models.PaginationInfo{
			Page:     resp.Page,
			PageSize: resp.PageSize,
			Total:    resp.Total,
			HasMore:  resp.Page*resp.PageSize < resp.Total,
		},
		Degraded: resp.Degraded,
	}, start, resp.Cached)
}

// Explain handles POST /api/v1/recommendations/explain. The body is a ranked
// result as returned by GetRecommendations.
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var result recommend.RankedResult
	if err := decodeJSONBody(w, r, &result); err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if strings.TrimSpace(result.Item.ID) == "" {
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    models.ErrCodeValidation,
			Message: "item.id is required",
			Details: map[string]interface{}{"field": "item.id"},
		})
		return
	}

	respondSuccess(w, h.engine.Explain(result), start, false)
}

// RecordFeedback handles POST /api/v1/recommendations/{userID}/feedback.
func (h *Handler) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))

	var req models.FeedbackRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	req.Signal = recommend.FeedbackSignal(strings.ToLower(strings.TrimSpace(string(req.Signal))))
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()
	ctx = logging.ContextWithUserID(ctx, userID)

	if err := h.engine.RecordFeedback(ctx, userID, req.ItemID, req.Signal); err != nil {
		respondEngineError(w, r, err)
		return
	}

	respondSuccess(w, models.FeedbackResponse{
		UserID:   userID,
		ItemID:   req.ItemID,
		Signal:   req.Signal,
		Recorded: true,
	}, start, false)
}
