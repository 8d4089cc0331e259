// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package algorithms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// ContentScorer scores candidates by how well their metadata fits the
// user's profile.
//
// Score formula (weights from ContentConfig):
//
//	score = w_genre * matchingGenres/candidateGenres
//	      + w_rating * averageRating/ratingScale
//	      + w_pop * popularity/maxPopularity
//	      + w_recency * max(0, 1 - ageYears/horizon)
//	      + w_affinity * historyAffinity
//
// historyAffinity averages the profile's weight for the candidate's decade
// and the best Jaccard similarity between the candidate's genres/creators and
// recently liked items, scaled by the user's rating consistency.
type ContentScorer struct {
	catalog recommend.CatalogProvider
	cfg     recommend.ContentConfig
}

// NewContentScorer creates a content-based scorer.
func NewContentScorer(catalog recommend.CatalogProvider, cfg recommend.ContentConfig) *ContentScorer {
	return &ContentScorer{catalog: catalog, cfg: cfg}
}

// Strategy returns recommend.StrategyContent.
func (s *ContentScorer) Strategy() recommend.Strategy {
	return recommend.StrategyContent
}

// Score implements recommend.Scorer.
//
//nolint:gocritic // hugeParam: in passed by value, shared read-only
func (s *ContentScorer) Score(ctx context.Context, in recommend.ScoreInput) ([]recommend.ScoredCandidate, error) {
	profile := in.Profile
	if profile == nil {
		profile = recommend.NewEmptyProfile(in.UserID)
		in.Profile = profile
	}

	items, fetchErr := gatherCandidates(ctx, s.catalog, in, s.cfg.CandidatePages, profile.TopGenres(s.cfg.GenreFanout), s.cfg.GenreLimit)

	liked := make([]map[string]struct{}, 0, len(profile.LikedItems))
	for _, f := range profile.LikedItems {
		if tokens := f.Tokens(); len(tokens) > 0 {
			liked = append(liked, tokens)
		}
	}

	maxPop := maxPopularity(items)
	coldStart := profile.IsEmpty()
	out := make([]recommend.ScoredCandidate, 0, len(items))
	for i := range items {
		if ContextCancelled(ctx) {
			recommend.SortCandidates(out)
			return out, ctx.Err()
		}
		if coldStart {
			out = append(out, s.scorePopular(&items[i], maxPop))
			continue
		}
		out = append(out, s.scoreItem(&items[i], profile, liked, maxPop, in.Now))
	}

	recommend.SortCandidates(out)
	return out, fetchErr
}

func (s *ContentScorer) scoreItem(item *recommend.CatalogItem, profile *recommend.UserProfile, liked []map[string]struct{}, maxPop float64, now time.Time) recommend.ScoredCandidate {
	feat := recommend.ExtractFeatures(*item)

	genre, matched := genreOverlap(item, profile)
	rating := normalizedRating(item.AverageRating, s.cfg.RatingScale)
	popularity := popularityShare(item.Popularity, maxPop)
	recency := RecencyDecay(item.ReleaseYear, now, s.cfg.RecencyHorizonYears)

	era := 0.0
	if feat.Decade > 0 {
		era = profile.EraWeights[feat.Decade]
	}
	similar := 0.0
	if tokens := feat.Tokens(); len(tokens) > 0 {
		for _, l := range liked {
			if j := Jaccard(tokens, l); j > similar {
				similar = j
			}
		}
	}
	affinity := 0.5*era + 0.5*similar
	if profile.RatingCount > 0 {
		affinity *= 0.5 + 0.5*profile.RatingConsistency
	}

	score := s.cfg.GenreWeight*genre +
		s.cfg.RatingWeight*rating +
		s.cfg.PopularityWeight*popularity +
		s.cfg.RecencyWeight*recency +
		s.cfg.AffinityWeight*affinity

	factors := make([]recommend.Factor, 0, 6)
	if genre > 0 {
		factors = append(factors, recommend.Factor{
			Type:        recommend.FactorGenreMatch,
			Weight:      genre,
			Description: "Matches your interest in " + joinNames(matched),
		})
	}
	if era > 0 {
		factors = append(factors, recommend.Factor{
			Type:        recommend.FactorEra,
			Weight:      era,
			Description: fmt.Sprintf("From the %ds, an era you enjoy", feat.Decade),
		})
	}
	if recency > 0 {
		factors = append(factors, recommend.Factor{
			Type:        recommend.FactorRecency,
			Weight:      recency,
			Description: fmt.Sprintf("Recent release (%d)", item.ReleaseYear),
		})
	}
	if similar > 0 {
		factors = append(factors, recommend.Factor{
			Type:        recommend.FactorHistory,
			Weight:      similar,
			Description: fmt.Sprintf("Similar to %s you enjoyed", item.Kind.Noun()),
		})
	}
	factors = append(factors, socialFactors(item, rating, popularity)...)

	return recommend.ScoredCandidate{
		Item:     *item,
		Source:   recommend.StrategyContent,
		RawScore: score,
		Factors:  factors,
	}
}

// scorePopular ranks an item for a user without taste signal. Only the rating
// and popularity terms apply, rescaled so their weights sum to 1.
func (s *ContentScorer) scorePopular(item *recommend.CatalogItem, maxPop float64) recommend.ScoredCandidate {
	rating := normalizedRating(item.AverageRating, s.cfg.RatingScale)
	popularity := popularityShare(item.Popularity, maxPop)

	score := 0.5*rating + 0.5*popularity
	if total := s.cfg.RatingWeight + s.cfg.PopularityWeight; total > 0 {
		score = (s.cfg.RatingWeight*rating + s.cfg.PopularityWeight*popularity) / total
	}

	return recommend.ScoredCandidate{
		Item:     *item,
		Source:   recommend.StrategyContent,
		RawScore: score,
		Factors:  socialFactors(item, rating, popularity),
	}
}

// genreOverlap returns matching genres / candidate genre count, where a genre
// matches when the profile gives it positive weight. It also returns the
// matching genre names as they appear on the item.
func genreOverlap(item *recommend.CatalogItem, profile *recommend.UserProfile) (float64, []string) {
	seen := make(map[string]struct{}, len(item.Genres))
	var matched []string
	total := 0
	for _, g := range item.Genres {
		n := recommend.NormalizeToken(g)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		total++
		if profile.GenreWeight(n) > 0 {
			matched = append(matched, strings.TrimSpace(g))
		}
	}
	if total == 0 {
		return 0, nil
	}
	return float64(len(matched)) / float64(total), matched
}

// RecencyDecay returns max(0, 1 - ageYears/horizon). Unknown years score 0;
// future years clamp to an age of 0.
func RecencyDecay(year int, now time.Time, horizon float64) float64 {
	if year <= 0 || horizon <= 0 {
		return 0
	}
	age := float64(now.Year() - year)
	if age < 0 {
		age = 0
	}
	return clamp01(1 - age/horizon)
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
