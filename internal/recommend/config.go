// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package recommend

import (
	"fmt"
	"math"
	"time"
)

// weightTolerance is the allowed drift when checking that weights sum to 1.
const weightTolerance = 1e-6

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Fusion holds the hybrid merge weights.
	Fusion FusionWeights `json:"fusion"`

	// Profile controls how user profiles are built.
	Profile ProfileConfig `json:"profile"`

	// Content contains parameters for the content-based scorer.
	Content ContentConfig `json:"content"`

	// Collaborative contains parameters for the collaborative scorer.
	Collaborative CollaborativeConfig `json:"collaborative"`

	// Contextual contains parameters for the contextual scorer.
	Contextual ContextualConfig `json:"contextual"`

	// Explain contains explanation parameters.
	Explain ExplainConfig `json:"explain"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// FusionWeights defines each strategy's share of the hybrid score.
// The weights must sum to 1.0.
type FusionWeights struct {
	// Content is the weight of the content-based score.
	// Default: 0.5.
	Content float64 `json:"content"`

	// Collaborative is the weight of the collaborative score.
	// Default: 0.3.
	Collaborative float64 `json:"collaborative"`

	// Contextual is the weight of the contextual score.
	// Default: 0.2.
	Contextual float64 `json:"contextual"`
}

// Sum returns the total of all weights.
func (w FusionWeights) Sum() float64 {
	return w.Content + w.Collaborative + w.Contextual
}

// Weight returns the weight for a strategy. Unknown strategies weigh 0.
func (w FusionWeights) Weight(s Strategy) float64 {
	switch s {
	case StrategyContent:
		return w.Content
	case StrategyCollaborative:
		return w.Collaborative
	case StrategyContextual:
		return w.Contextual
	default:
		return 0
	}
}

// ToMap returns the weights keyed by strategy.
func (w FusionWeights) ToMap() map[Strategy]float64 {
	return map[Strategy]float64{
		StrategyContent:       w.Content,
		StrategyCollaborative: w.Collaborative,
		StrategyContextual:    w.Contextual,
	}
}

// ProfileConfig controls profile construction.
type ProfileConfig struct {
	// HistoryLimit is how many recent interactions are read.
	// Default: 100.
	HistoryLimit int `json:"history_limit"`

	// FeedbackLimit is how many recent feedback signals are read.
	// Default: 50.
	FeedbackLimit int `json:"feedback_limit"`

	// Saturation is the accumulated weight at which a genre or era weight
	// reaches 1.0 (weight = min(accumulated/Saturation, 1)).
	// Default: 10.
	Saturation float64 `json:"saturation"`

	// PreferenceFloor is the minimum weight given to explicitly preferred genres.
	// Default: 0.5.
	PreferenceFloor float64 `json:"preference_floor"`

	// WishlistWeight is the occurrence weight of a wishlist entry.
	// Default: 0.5.
	WishlistWeight float64 `json:"wishlist_weight"`

	// FeedbackWeight is the occurrence weight added (positive) or removed
	// (negative) per feedback signal.
	// Default: 1.0.
	FeedbackWeight float64 `json:"feedback_weight"`

	// ImplicitRating is the rating a completed watch stands for when
	// building rating vectors.
	// Default: 3.5.
	ImplicitRating float64 `json:"implicit_rating"`

	// LikedThreshold is the rating at or above which an item counts as liked.
	// Default: 4.
	LikedThreshold float64 `json:"liked_threshold"`

	// RecentLimit bounds RecentItemIDs and LikedItems.
	// Default: 20.
	RecentLimit int `json:"recent_limit"`
}

// ContentConfig contains content-based scoring weights.
// The five component weights must sum to 1.0.
type ContentConfig struct {
	// GenreWeight weighs the genre overlap fraction.
	// Default: 0.3.
	GenreWeight float64 `json:"genre_weight"`

	// RatingWeight weighs the normalized average rating.
	// Default: 0.2.
	RatingWeight float64 `json:"rating_weight"`

	// PopularityWeight weighs normalized popularity.
	// Default: 0.15.
	PopularityWeight float64 `json:"popularity_weight"`

	// RecencyWeight weighs the linear recency decay.
	// Default: 0.15.
	RecencyWeight float64 `json:"recency_weight"`

	// AffinityWeight weighs similarity to the user's history.
	// Default: 0.2.
	AffinityWeight float64 `json:"affinity_weight"`

	// RecencyHorizonYears is the age at which recency decays to zero.
	// Default: 10.
	RecencyHorizonYears float64 `json:"recency_horizon_years"`

	// RatingScale is the top of the catalog rating scale.
	// Default: 10.
	RatingScale float64 `json:"rating_scale"`

	// CandidatePages is how many popular pages are fetched as candidates.
	// Default: 2.
	CandidatePages int `json:"candidate_pages"`

	// GenreFanout is how many of the user's top genres are queried.
	// Default: 3.
	GenreFanout int `json:"genre_fanout"`

	// GenreLimit is the per-genre candidate limit.
	// Default: 50.
	GenreLimit int `json:"genre_limit"`
}

// Sum returns the total of the component weights.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c ContentConfig) Sum() float64 {
	return c.GenreWeight + c.RatingWeight + c.PopularityWeight + c.RecencyWeight + c.AffinityWeight
}

func (c ContentConfig) weights() map[string]float64 {
	return map[string]float64{
		"genre_weight":      c.GenreWeight,
		"rating_weight":     c.RatingWeight,
		"popularity_weight": c.PopularityWeight,
		"recency_weight":    c.RecencyWeight,
		"affinity_weight":   c.AffinityWeight,
	}
}

// CollaborativeConfig contains user-based collaborative filtering parameters.
type CollaborativeConfig struct {
	// Neighbors is K, the number of most similar users used.
	// Default: 5.
	Neighbors int `json:"neighbors"`

	// Metric is the similarity metric: "cosine" or "pearson".
	// Default: "cosine".
	Metric string `json:"metric"`

	// MinOverlap is the minimum number of co-rated items for a neighbor.
	// Default: 1.
	MinOverlap int `json:"min_overlap"`

	// PeerLimit caps the number of peer interactions read.
	// Default: 5000.
	PeerLimit int `json:"peer_limit"`

	// ImplicitRating is the rating a completed watch stands for.
	// Default: 3.5.
	ImplicitRating float64 `json:"implicit_rating"`

	// RatingScale is the top of the catalog rating scale, used by the
	// popularity fallback.
	// Default: 10.
	RatingScale float64 `json:"rating_scale"`

	// FallbackPages is how many popular pages are used when the user has no
	// rating vector.
	// Default: 1.
	FallbackPages int `json:"fallback_pages"`
}

// ContextualConfig contains time-of-day / day-of-week parameters.
type ContextualConfig struct {
	// MaxMultiplier caps the contextual boost.
	// Default: 1.1.
	MaxMultiplier float64 `json:"max_multiplier"`

	// MinEvents is the minimum number of timestamped interactions before any
	// boost applies.
	// Default: 3.
	MinEvents int `json:"min_events"`

	// RatingWeight, PopularityWeight and AffinityWeight form the base score.
	// Defaults: 0.4, 0.3, 0.3.
	RatingWeight     float64 `json:"rating_weight"`
	PopularityWeight float64 `json:"popularity_weight"`
	AffinityWeight   float64 `json:"affinity_weight"`

	// RatingScale is the top of the catalog rating scale.
	// Default: 10.
	RatingScale float64 `json:"rating_scale"`

	// CandidatePages is how many popular pages are fetched as candidates.
	// Default: 2.
	CandidatePages int `json:"candidate_pages"`

	// Location is the time zone used to bucket timestamps.
	// Default: UTC.
	Location *time.Location `json:"-"`
}

// ExplainConfig contains explanation parameters.
type ExplainConfig struct {
	// RelevanceThreshold is the minimum factor weight for a primary reason.
	// Default: 0.3.
	RelevanceThreshold float64 `json:"relevance_threshold"`

	// Fallback is the primary reason when no factor is relevant.
	// Default: "Based on your interests".
	Fallback string `json:"fallback"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// PageSize is the default number of results per page.
	// Default: 20.
	PageSize int `json:"page_size"`

	// MaxPageSize is the largest allowed page size.
	// Default: 100.
	MaxPageSize int `json:"max_page_size"`

	// MaxResults caps the ranked list stored per cache entry.
	// Default: 200.
	MaxResults int `json:"max_results"`

	// ScorerTimeout bounds a single scorer run.
	// Default: 2s.
	ScorerTimeout time.Duration `json:"scorer_timeout"`

	// UpstreamTimeout bounds each history store call made while building
	// the profile.
	// Default: 1s.
	UpstreamTimeout time.Duration `json:"upstream_timeout"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled controls whether the result cache is consulted.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 10m.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Fusion: FusionWeights{
			Content:       0.5,
			Collaborative: 0.3,
			Contextual:    0.2,
		},
		Profile: ProfileConfig{
			HistoryLimit:    100,
			FeedbackLimit:   50,
			Saturation:      10,
			PreferenceFloor: 0.5,
			WishlistWeight:  0.5,
			FeedbackWeight:  1.0,
			ImplicitRating:  3.5,
			LikedThreshold:  4,
			RecentLimit:     20,
		},
		Content: ContentConfig{
			GenreWeight:         0.3,
			RatingWeight:        0.2,
			PopularityWeight:    0.15,
			RecencyWeight:       0.15,
			AffinityWeight:      0.2,
			RecencyHorizonYears: 10,
			RatingScale:         10,
			CandidatePages:      2,
			GenreFanout:         3,
			GenreLimit:          50,
		},
		Collaborative: CollaborativeConfig{
			Neighbors:      5,
			Metric:         "cosine",
			MinOverlap:     1,
			PeerLimit:      5000,
			ImplicitRating: 3.5,
			RatingScale:    10,
			FallbackPages:  1,
		},
		Contextual: ContextualConfig{
			MaxMultiplier:    1.1,
			MinEvents:        3,
			RatingWeight:     0.4,
			PopularityWeight: 0.3,
			AffinityWeight:   0.3,
			RatingScale:      10,
			CandidatePages:   2,
			Location:         time.UTC,
		},
		Explain: ExplainConfig{
			RelevanceThreshold: 0.3,
			Fallback:           "Based on your interests",
		},
		Limits: LimitsConfig{
			PageSize:        20,
			MaxPageSize:     100,
			MaxResults:      200,
			ScorerTimeout:   2 * time.Second,
			UpstreamTimeout: time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	for s, w := range c.Fusion.ToMap() {
		if w < 0 {
			return fmt.Errorf("fusion.%s must be non-negative, got %f", s, w)
		}
	}
	if math.Abs(c.Fusion.Sum()-1) > weightTolerance {
		return fmt.Errorf("fusion weights must sum to 1.0, got %f", c.Fusion.Sum())
	}
	for name, w := range c.Content.weights() {
		if w < 0 {
			return fmt.Errorf("content.%s must be non-negative, got %f", name, w)
		}
	}
	if math.Abs(c.Content.Sum()-1) > weightTolerance {
		return fmt.Errorf("content weights must sum to 1.0, got %f", c.Content.Sum())
	}
	if c.Content.RecencyHorizonYears <= 0 {
		return fmt.Errorf("content.recency_horizon_years must be positive, got %f", c.Content.RecencyHorizonYears)
	}
	if c.Content.RatingScale <= 0 || c.Contextual.RatingScale <= 0 || c.Collaborative.RatingScale <= 0 {
		return fmt.Errorf("rating_scale must be positive")
	}

	if c.Profile.HistoryLimit < 1 {
		return fmt.Errorf("profile.history_limit must be positive, got %d", c.Profile.HistoryLimit)
	}
	if c.Profile.Saturation <= 0 {
		return fmt.Errorf("profile.saturation must be positive, got %f", c.Profile.Saturation)
	}
	if c.Profile.PreferenceFloor < 0 || c.Profile.PreferenceFloor > 1 {
		return fmt.Errorf("profile.preference_floor must be in [0, 1], got %f", c.Profile.PreferenceFloor)
	}

	if c.Collaborative.Neighbors < 1 {
		return fmt.Errorf("collaborative.neighbors must be positive, got %d", c.Collaborative.Neighbors)
	}
	if c.Collaborative.Metric != "cosine" && c.Collaborative.Metric != "pearson" {
		return fmt.Errorf("collaborative.metric must be cosine or pearson, got %q", c.Collaborative.Metric)
	}

	if c.Contextual.MaxMultiplier < 1 {
		return fmt.Errorf("contextual.max_multiplier must be >= 1, got %f", c.Contextual.MaxMultiplier)
	}

	if c.Explain.RelevanceThreshold < 0 || c.Explain.RelevanceThreshold > 1 {
		return fmt.Errorf("explain.relevance_threshold must be in [0, 1], got %f", c.Explain.RelevanceThreshold)
	}
	if c.Explain.Fallback == "" {
		return fmt.Errorf("explain.fallback must not be empty")
	}

	if c.Limits.PageSize < 1 {
		return fmt.Errorf("limits.page_size must be positive, got %d", c.Limits.PageSize)
	}
	if c.Limits.MaxPageSize < c.Limits.PageSize {
		return fmt.Errorf("limits.max_page_size must be >= limits.page_size, got %d < %d", c.Limits.MaxPageSize, c.Limits.PageSize)
	}
	if c.Limits.ScorerTimeout <= 0 {
		return fmt.Errorf("limits.scorer_timeout must be positive, got %v", c.Limits.ScorerTimeout)
	}
	if c.Limits.UpstreamTimeout <= 0 {
		return fmt.Errorf("limits.upstream_timeout must be positive, got %v", c.Limits.UpstreamTimeout)
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when caching is enabled, got %v", c.Cache.TTL)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
