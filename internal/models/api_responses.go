// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package models

import (
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes returned in APIError.Code.
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// APIResponse is the envelope wrapped around every HTTP response.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
//
// QueryTimeMS is the time spent producing the payload. Cached reports
// whether the payload came from the result cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms"`
	Cached      bool      `json:"cached"`
}

// APIError is the structured error body.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo describes a page of ranked results.
type PaginationInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasMore  bool `json:"has_more"`
}

// RecommendationsResponse is the payload of GET /recommendations/{userID}.
type RecommendationsResponse struct {
	UserID     string                        `json:"user_id"`
	Kind       recommend.MediaKind           `json:"kind"`
	Strategy   recommend.Strategy            `json:"strategy"`
	Results    []recommend.RankedResult      `json:"results"`
	Pagination PaginationInfo                `json:"pagination"`
	Degraded   map[recommend.Strategy]string `json:"degraded,omitempty"`
}

// RecommendationsQuery is the validated query of GET /recommendations/{userID}.
type RecommendationsQuery struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	Kind   string `json:"kind" validate:"required,mediakind"`
	Page   int    `json:"page" validate:"min=1,max=1000"`
}

// FeedbackRequest is the body of POST /recommendations/{userID}/feedback.
type FeedbackRequest struct {
	ItemID string                   `json:"item_id" validate:"required,max=128"`
	Signal recommend.FeedbackSignal `json:"signal" validate:"required,oneof=positive negative"`
}

// FeedbackResponse acknowledges a recorded feedback signal.
type FeedbackResponse struct {
	UserID   string                   `json:"user_id"`
	ItemID   string                   `json:"item_id"`
	Signal   recommend.FeedbackSignal `json:"signal"`
	Recorded bool                     `json:"recorded"`
}

// HealthResponse is the payload of the health endpoints.
type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version,omitempty"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks,omitempty"`
}
