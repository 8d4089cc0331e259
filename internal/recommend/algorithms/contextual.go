// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package algorithms

import (
	"context"
	"fmt"
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// ContextualScorer boosts a rating/popularity/genre baseline when the request
// falls in a time-of-day bucket and weekday the user habitually engages with
// the requested media kind. Only the user's own history is consulted.
//
//	base       = w_rating*rating + w_pop*popularity + w_aff*genreAffinity
//	multiplier = 1 + (maxMultiplier-1) * (bucketShare+weekdayShare)/2
//	score      = base * multiplier
//
// Shares are relative to the user's busiest bucket and weekday, so the
// multiplier never exceeds maxMultiplier.
type ContextualScorer struct {
	catalog recommend.CatalogProvider
	cfg     recommend.ContextualConfig
}

// NewContextualScorer creates a contextual scorer.
func NewContextualScorer(catalog recommend.CatalogProvider, cfg recommend.ContextualConfig) *ContextualScorer {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ContextualScorer{catalog: catalog, cfg: cfg}
}

// Strategy returns recommend.StrategyContextual.
func (s *ContextualScorer) Strategy() recommend.Strategy {
	return recommend.StrategyContextual
}

// Score implements recommend.Scorer.
//
//nolint:gocritic // hugeParam: in passed by value, shared read-only
func (s *ContextualScorer) Score(ctx context.Context, in recommend.ScoreInput) ([]recommend.ScoredCandidate, error) {
	if in.Profile == nil {
		in.Profile = recommend.NewEmptyProfile(in.UserID)
	}

	items, fetchErr := gatherCandidates(ctx, s.catalog, in, s.cfg.CandidatePages, nil, 0)

	now := in.Now.In(s.cfg.Location)
	multiplier, share := s.Multiplier(in.Profile.EngagementFor(in.Kind), now)
	var timeFactor *recommend.Factor
	if multiplier > 1 {
		timeFactor = &recommend.Factor{
			Type:        recommend.FactorTimeOfDay,
			Weight:      share,
			Description: fmt.Sprintf("You often enjoy %s on %s %ss", in.Kind.Noun(), now.Weekday(), recommend.BucketOf(now.Hour())),
		}
	}

	maxPop := maxPopularity(items)
	out := make([]recommend.ScoredCandidate, 0, len(items))
	for i := range items {
		if ContextCancelled(ctx) {
			recommend.SortCandidates(out)
			return out, ctx.Err()
		}
		item := &items[i]
		rating := normalizedRating(item.AverageRating, s.cfg.RatingScale)
		popularity := popularityShare(item.Popularity, maxPop)
		affinity := genreAffinity(in.Profile, item.Genres)

		base := s.cfg.RatingWeight*rating + s.cfg.PopularityWeight*popularity + s.cfg.AffinityWeight*affinity

		factors := socialFactors(item, rating, popularity)
		if timeFactor != nil {
			factors = append(factors, *timeFactor)
		}

		out = append(out, recommend.ScoredCandidate{
			Item:     *item,
			Source:   recommend.StrategyContextual,
			RawScore: base * multiplier,
			Factors:  factors,
		})
	}

	recommend.SortCandidates(out)
	return out, fetchErr
}

// Multiplier returns the contextual multiplier for t and the engagement share
// behind it. Users with fewer than MinEvents timestamped interactions get 1.
func (s *ContextualScorer) Multiplier(e *recommend.Engagement, t time.Time) (multiplier, share float64) {
	if e == nil || e.Total < s.cfg.MinEvents || s.cfg.MaxMultiplier <= 1 {
		return 1, 0
	}
	bucket, weekday := e.Shares(t)
	share = clamp01((bucket + weekday) / 2)
	multiplier = 1 + (s.cfg.MaxMultiplier-1)*share
	if multiplier > s.cfg.MaxMultiplier {
		multiplier = s.cfg.MaxMultiplier
	}
	return multiplier, share
}
