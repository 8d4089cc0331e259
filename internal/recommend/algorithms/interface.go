// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

// Package algorithms implements the strategy scorers for the hybrid engine.
//
// Each scorer implements recommend.Scorer and is registered with the engine
// at startup:
//
//   - ContentScorer: genre overlap, rating, popularity, recency and
//     similarity to the user's history.
//   - CollaborativeScorer: user-based collaborative filtering over the
//     top-K most similar users.
//   - ContextualScorer: a rating/popularity baseline boosted when the user
//     habitually engages at the current time of day and weekday.
//
// Every scorer handles an empty profile by ranking on popularity and rating,
// and treats missing metadata as a zero contribution.
//
// # Thread Safety
//
// Scorers hold no per-request state and are safe for concurrent use.
package algorithms

import (
	"context"
	"errors"
	"fmt"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// Ensure all scorers implement the interface.
var (
	_ recommend.Scorer = (*ContentScorer)(nil)
	_ recommend.Scorer = (*CollaborativeScorer)(nil)
	_ recommend.Scorer = (*ContextualScorer)(nil)
)

// ContextCancelled checks if the context has been cancelled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// candidateSet accumulates catalog items, dropping duplicates, other kinds and
// anything the profile excludes.
type candidateSet struct {
	kind    recommend.MediaKind
	profile *recommend.UserProfile
	seen    map[recommend.ItemKey]struct{}
	items   []recommend.CatalogItem
}

func newCandidateSet(in recommend.ScoreInput) *candidateSet {
	return &candidateSet{
		kind:    in.Kind,
		profile: in.Profile,
		seen:    make(map[recommend.ItemKey]struct{}),
	}
}

func (c *candidateSet) add(items []recommend.CatalogItem) {
	for i := range items {
		item := items[i]
		if item.ID == "" || item.Kind != c.kind {
			continue
		}
		key := item.Key()
		if _, dup := c.seen[key]; dup {
			continue
		}
		c.seen[key] = struct{}{}
		if c.profile != nil && c.profile.Excludes(item) {
			continue
		}
		c.items = append(c.items, item)
	}
}

// gatherCandidates collects popular pages plus per-genre lists. A failed
// fetch contributes nothing; its error is returned alongside whatever was
// gathered.
//
//nolint:gocritic // hugeParam: in passed by value, shared read-only
func gatherCandidates(ctx context.Context, catalog recommend.CatalogProvider, in recommend.ScoreInput, pages int, genres []string, genreLimit int) ([]recommend.CatalogItem, error) {
	set := newCandidateSet(in)
	var errs []error

	for page := 1; page <= pages; page++ {
		if ContextCancelled(ctx) {
			return set.items, errors.Join(append(errs, ctx.Err())...)
		}
		items, err := catalog.ListPopular(ctx, in.Kind, page)
		if err != nil {
			errs = append(errs, fmt.Errorf("list popular page %d: %w", page, err))
			continue
		}
		set.add(items)
		if len(items) == 0 {
			break
		}
	}

	for _, genre := range genres {
		if ContextCancelled(ctx) {
			return set.items, errors.Join(append(errs, ctx.Err())...)
		}
		items, err := catalog.ByGenre(ctx, in.Kind, genre, genreLimit)
		if err != nil {
			errs = append(errs, fmt.Errorf("list genre %q: %w", genre, err))
			continue
		}
		set.add(items)
	}

	return set.items, errors.Join(errs...)
}

// maxPopularity returns the largest popularity among items.
func maxPopularity(items []recommend.CatalogItem) float64 {
	var m float64
	for i := range items {
		if items[i].Popularity > m {
			m = items[i].Popularity
		}
	}
	return m
}

// popularityShare normalizes popularity against the candidate maximum.
func popularityShare(pop, maxPop float64) float64 {
	if maxPop <= 0 || pop <= 0 {
		return 0
	}
	return clamp01(pop / maxPop)
}

// normalizedRating maps a catalog rating onto [0, 1].
func normalizedRating(avg, scale float64) float64 {
	if scale <= 0 || avg <= 0 {
		return 0
	}
	return clamp01(avg / scale)
}

// genreAffinity is the mean profile weight over the item's genres.
func genreAffinity(p *recommend.UserProfile, genres []string) float64 {
	if p == nil || len(genres) == 0 {
		return 0
	}
	var sum float64
	for _, g := range genres {
		sum += p.GenreWeight(g)
	}
	return clamp01(sum / float64(len(genres)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// socialFactors describes rating and popularity for explanations.
func socialFactors(item *recommend.CatalogItem, rating, popularity float64) []recommend.Factor {
	factors := make([]recommend.Factor, 0, 2)
	if rating > 0 {
		desc := fmt.Sprintf("Rated %.1f/10", item.AverageRating)
		if item.RatingCount > 0 {
			desc = fmt.Sprintf("Rated %.1f/10 by %d people", item.AverageRating, item.RatingCount)
		}
		factors = append(factors, recommend.Factor{
			Type:        recommend.FactorRating,
			Weight:      rating,
			Description: desc,
		})
	}
	if popularity > 0 {
		factors = append(factors, recommend.Factor{
			Type:        recommend.FactorPopularity,
			Weight:      popularity,
			Description: "Popular right now",
		})
	}
	return factors
}
