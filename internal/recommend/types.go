// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package recommend

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MediaKind is the kind of media an item belongs to.
type MediaKind string

const (
	// KindMovie is a feature film.
	KindMovie MediaKind = "movie"
	// KindTV is a television series.
	KindTV MediaKind = "tv"
	// KindBook is a book.
	KindBook MediaKind = "book"
)

// AllKinds lists every supported media kind.
var AllKinds = []MediaKind{KindMovie, KindTV, KindBook}

// Valid reports whether k is a supported media kind.
func (k MediaKind) Valid() bool {
	switch k {
	case KindMovie, KindTV, KindBook:
		return true
	default:
		return false
	}
}

// ParseMediaKind parses a media kind, accepting a few common aliases.
func ParseMediaKind(s string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies", "film":
		return KindMovie, nil
	case "tv", "show", "series":
		return KindTV, nil
	case "book", "books":
		return KindBook, nil
	default:
		return "", fmt.Errorf("unsupported media kind %q", s)
	}
}

// Noun returns the plural noun used in explanation text.
func (k MediaKind) Noun() string {
	switch k {
	case KindTV:
		return "shows"
	case KindBook:
		return "books"
	default:
		return "movies"
	}
}

// ItemKey identifies a catalog entity. The same ID under two kinds is two
// distinct entities.
type ItemKey struct {
	ID   string    `json:"id"`
	Kind MediaKind `json:"kind"`
}

// String returns "kind:id".
func (k ItemKey) String() string {
	return string(k.Kind) + ":" + k.ID
}

// CatalogItem is a media item as returned by the Catalog Provider.
// Items are treated as immutable for the duration of a request.
type CatalogItem struct {
	// ID is the provider's item identifier.
	ID string `json:"id"`

	// Kind is the media kind (movie, tv, book).
	Kind MediaKind `json:"kind"`

	// Title is the display title.
	Title string `json:"title"`

	// Genres is the set of genre names.
	Genres []string `json:"genres,omitempty"`

	// ReleaseYear is the release (or first air / publication) year.
	// Zero when unknown.
	ReleaseYear int `json:"release_year,omitempty"`

	// Creators lists directors, showrunners or authors.
	Creators []string `json:"creators,omitempty"`

	// AverageRating is the mean audience rating on a 0-10 scale.
	AverageRating float64 `json:"average_rating,omitempty"`

	// RatingCount is the number of ratings behind AverageRating.
	RatingCount int `json:"rating_count,omitempty"`

	// Popularity is the provider's popularity score (unbounded, >= 0).
	Popularity float64 `json:"popularity,omitempty"`

	// Language is the original language (ISO 639-1), if known.
	Language string `json:"language,omitempty"`

	// ContentRating is the certification (PG-13, TV-MA, ...), if known.
	ContentRating string `json:"content_rating,omitempty"`
}

// Key returns the (id, kind) identity of the item.
func (c CatalogItem) Key() ItemKey {
	return ItemKey{ID: c.ID, Kind: c.Kind}
}

// InteractionKind classifies a user-item interaction.
type InteractionKind string

const (
	// InteractionRating is an explicit rating; Value holds the rating (1-5).
	InteractionRating InteractionKind = "rating"
	// InteractionWatch is a completed watch or read.
	InteractionWatch InteractionKind = "watch"
	// InteractionWishlist is a "save for later" signal.
	InteractionWishlist InteractionKind = "wishlist"
)

// MaxUserRating is the top of the explicit user rating scale.
const MaxUserRating = 5.0

// Interaction is a single entry of a user's history.
type Interaction struct {
	// UserID is the user who interacted.
	UserID string `json:"user_id"`

	// ItemID is the catalog item interacted with.
	ItemID string `json:"item_id"`

	// Kind is the interaction kind.
	Kind InteractionKind `json:"kind"`

	// Value is the rating for rating interactions; unused otherwise.
	Value float64 `json:"value,omitempty"`

	// Timestamp is when the interaction happened.
	Timestamp time.Time `json:"timestamp"`

	// MediaKind is the item's media kind when the store knows it.
	MediaKind MediaKind `json:"media_kind,omitempty"`

	// Genres, ReleaseYear and Creators are a snapshot of the item's metadata
	// when the store joins it in. They may be empty.
	Genres      []string `json:"genres,omitempty"`
	ReleaseYear int      `json:"release_year,omitempty"`
	Creators    []string `json:"creators,omitempty"`
}

// HasRating reports whether the interaction carries an explicit rating.
func (i Interaction) HasRating() bool {
	return i.Kind == InteractionRating && i.Value > 0
}

// ImpliedRating returns the rating this interaction stands for on the user
// rating scale. Watches count as implicit; wishlist entries carry none.
func (i Interaction) ImpliedRating(implicit float64) (float64, bool) {
	switch {
	case i.HasRating():
		return clamp(i.Value, 0, MaxUserRating), true
	case i.Kind == InteractionWatch && implicit > 0:
		return clamp(implicit, 0, MaxUserRating), true
	default:
		return 0, false
	}
}

// Preferences is the user's stored preference record. The zero value means
// "no stated preferences".
type Preferences struct {
	// Genres the user explicitly asked for.
	Genres []string `json:"genres,omitempty"`

	// ContentRating is the maximum certification the user accepts.
	ContentRating string `json:"content_rating,omitempty"`

	// Language is the preferred original language.
	Language string `json:"language,omitempty"`
}

// Strategy names a scoring strategy or the hybrid combination of all of them.
type Strategy string

const (
	// StrategyHybrid fuses every scorer. It is the default.
	StrategyHybrid Strategy = "hybrid"
	// StrategyContent is content-based scoring.
	StrategyContent Strategy = "content"
	// StrategyCollaborative is user-user collaborative filtering.
	StrategyCollaborative Strategy = "collaborative"
	// StrategyContextual is time-of-day / day-of-week reweighting.
	StrategyContextual Strategy = "contextual"
)

// AllStrategies lists every strategy including hybrid.
var AllStrategies = []Strategy{StrategyHybrid, StrategyContent, StrategyCollaborative, StrategyContextual}

// ParseStrategy parses an experiment strategy name. Unknown names report false.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyHybrid:
		return StrategyHybrid, true
	case StrategyContent:
		return StrategyContent, true
	case StrategyCollaborative:
		return StrategyCollaborative, true
	case StrategyContextual:
		return StrategyContextual, true
	default:
		return "", false
	}
}

// FactorType names a single contributor to a score.
type FactorType string

const (
	FactorGenreMatch FactorType = "genre_match"
	FactorEra        FactorType = "era_match"
	FactorRecency    FactorType = "recency"
	FactorRating     FactorType = "rating"
	FactorPopularity FactorType = "popularity"
	FactorPeerRating FactorType = "peer_rating"
	FactorHistory    FactorType = "history_affinity"
	FactorTimeOfDay  FactorType = "time_of_day"
)

// Factor is a named contributor to a candidate's score.
type Factor struct {
	// Type identifies the factor.
	Type FactorType `json:"type"`

	// Weight is the factor's strength in [0, 1].
	Weight float64 `json:"weight"`

	// Description is a human-readable sentence for explanations.
	Description string `json:"description"`
}

// ScoredCandidate is one scorer's verdict on one item.
type ScoredCandidate struct {
	// Item is the candidate.
	Item CatalogItem `json:"item"`

	// Source is the strategy that produced the score.
	Source Strategy `json:"source"`

	// RawScore is the scorer's unweighted score.
	RawScore float64 `json:"raw_score"`

	// Factors is the breakdown behind RawScore.
	Factors []Factor `json:"factors,omitempty"`
}

// RankedResult is a recommendation after fusion.
type RankedResult struct {
	// Item is the recommended item.
	Item CatalogItem `json:"item"`

	// Score is the combined score used for ranking.
	Score float64 `json:"score"`

	// Scores holds each contributing strategy's raw score.
	Scores map[Strategy]float64 `json:"scores,omitempty"`

	// Factors is the union of the contributing strategies' factors.
	Factors []Factor `json:"factors,omitempty"`
}

// FeedbackSignal is the polarity of user feedback on a recommendation.
type FeedbackSignal string

const (
	// FeedbackPositive means the user liked the recommendation.
	FeedbackPositive FeedbackSignal = "positive"
	// FeedbackNegative means the user rejected it.
	FeedbackNegative FeedbackSignal = "negative"
)

// Valid reports whether s is a known signal.
func (s FeedbackSignal) Valid() bool {
	return s == FeedbackPositive || s == FeedbackNegative
}

// Feedback is a recorded feedback signal. Item metadata is filled in by
// stores that can join it from the catalog.
type Feedback struct {
	UserID    string         `json:"user_id"`
	ItemID    string         `json:"item_id"`
	Signal    FeedbackSignal `json:"signal"`
	Timestamp time.Time      `json:"timestamp"`

	MediaKind   MediaKind `json:"media_kind,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	ReleaseYear int       `json:"release_year,omitempty"`
	Creators    []string  `json:"creators,omitempty"`
}

// Request is a recommendation request.
type Request struct {
	// UserID is the user to recommend for.
	UserID string `json:"user_id" validate:"required,max=128"`

	// Kind restricts candidates to one media kind.
	Kind MediaKind `json:"kind" validate:"required,oneof=movie tv book"`

	// Page is the 1-based page number. Zero means the first page.
	Page int `json:"page" validate:"min=0,max=1000"`

	// PageSize overrides Config.Limits.PageSize when positive.
	PageSize int `json:"page_size,omitempty" validate:"min=0,max=100"`

	// Now is the request time used by time-dependent scoring.
	// Zero means time.Now().
	Now time.Time `json:"-"`
}

// Response is the result of a recommendation request.
type Response struct {
	// Results is the requested page of ranked results.
	Results []RankedResult `json:"results"`

	// Strategy is the strategy that produced Results.
	Strategy Strategy `json:"strategy"`

	// Page is the 1-based page returned.
	Page int `json:"page"`

	// PageSize is the page size applied.
	PageSize int `json:"page_size"`

	// Total is the number of ranked results across all pages.
	Total int `json:"total"`

	// Cached reports whether the ranking came from the result cache.
	Cached bool `json:"cached"`

	// Degraded lists scorers that failed or timed out, with reasons.
	Degraded map[Strategy]string `json:"degraded,omitempty"`
}

// SortCandidates orders candidates by raw score descending, then rating count
// descending, then item key ascending.
func SortCandidates(candidates []ScoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return lessRanked(candidates[i].RawScore, candidates[j].RawScore, candidates[i].Item, candidates[j].Item)
	})
}

func lessRanked(si, sj float64, a, b CatalogItem) bool {
	if si != sj {
		return si > sj
	}
	if a.RatingCount != b.RatingCount {
		return a.RatingCount > b.RatingCount
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.Kind < b.Kind
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
