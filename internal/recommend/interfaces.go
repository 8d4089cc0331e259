// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package recommend

import (
	"context"
	"time"
)

// CatalogProvider returns candidate items.
//
// Implementations should return ErrUpstreamUnavailable (wrapped) when the
// backing service cannot answer.
type CatalogProvider interface {
	// ListPopular returns the page-th page (1-based) of the most popular items
	// of the given kind, ordered by popularity descending.
	ListPopular(ctx context.Context, kind MediaKind, page int) ([]CatalogItem, error)

	// Search returns items of the given kind matching a free-text query.
	Search(ctx context.Context, kind MediaKind, query string) ([]CatalogItem, error)

	// ByGenre returns up to limit items of the given kind tagged with genre,
	// ordered by popularity descending.
	ByGenre(ctx context.Context, kind MediaKind, genre string, limit int) ([]CatalogItem, error)

	// GetByIDs returns the items with the given ids. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]CatalogItem, error)
}

// HistoryStore is the read side of user history.
type HistoryStore interface {
	// UserExists reports whether the user is known.
	UserExists(ctx context.Context, userID string) (bool, error)

	// GetInteractions returns the user's most recent interactions, newest
	// first. Unknown users yield ErrInvalidUser.
	GetInteractions(ctx context.Context, userID string, limit int) ([]Interaction, error)

	// GetPreferences returns the user's stored preferences. A user without a
	// preference record gets the zero value.
	GetPreferences(ctx context.Context, userID string) (Preferences, error)

	// GetFeedback returns the user's most recent feedback signals.
	GetFeedback(ctx context.Context, userID string, limit int) ([]Feedback, error)

	// GetPeerInteractions returns the interactions of users who share at
	// least one interacted item with userID, excluding userID itself.
	// At most limit interactions are returned.
	GetPeerInteractions(ctx context.Context, userID string, limit int) ([]Interaction, error)
}

// FeedbackStore is the write side of user feedback.
type FeedbackStore interface {
	AppendFeedback(ctx context.Context, fb Feedback) error
}

// ExperimentAssigner resolves the strategy a user is bucketed into.
// ok is false when the user has no assignment.
type ExperimentAssigner interface {
	GetAssignment(ctx context.Context, userID string) (strategy Strategy, ok bool, err error)
}

// ResultCache stores ranked lists with a time-to-live. Implementations must
// treat entries older than their ttl as absent.
type ResultCache interface {
	// Get returns the cached list. found is false on a miss.
	Get(ctx context.Context, key string) (results []RankedResult, found bool, err error)

	// Set stores results under key, replacing any existing entry.
	Set(ctx context.Context, key string, results []RankedResult, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// ScoreInput is everything a scorer gets for one request.
type ScoreInput struct {
	// UserID is the requesting user.
	UserID string

	// Kind is the requested media kind.
	Kind MediaKind

	// Profile is the user's profile. Never nil; may be empty.
	Profile *UserProfile

	// Now is the request time.
	Now time.Time
}

// Scorer produces scored candidates for one strategy.
//
// Score may return partial results together with an error; the engine keeps
// the partial list and marks the outcome degraded. Implementations must be
// safe for concurrent use and must honor ctx cancellation.
type Scorer interface {
	// Strategy returns the strategy this scorer implements.
	Strategy() Strategy

	// Score returns candidates ordered by SortCandidates.
	Score(ctx context.Context, in ScoreInput) ([]ScoredCandidate, error)
}
