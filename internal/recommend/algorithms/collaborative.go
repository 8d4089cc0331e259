// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// CollaborativeScorer implements user-based collaborative filtering.
//
// Algorithm:
//  1. Read the interactions of every user who shares an item with the target.
//  2. Build rating vectors and keep the K most similar users.
//  3. score(item) = Σ similarity(user, neighbor) * neighborRating(item)/5
//     over neighbors who rated the item, excluding the user's own history.
//
// When the user has no rating vector, or no neighbor qualifies, candidates are
// ranked by rating and popularity instead.
type CollaborativeScorer struct {
	catalog recommend.CatalogProvider
	history recommend.HistoryStore
	cfg     recommend.CollaborativeConfig
	sim     SimilarityFunc
}

// NewCollaborativeScorer creates a collaborative scorer.
func NewCollaborativeScorer(catalog recommend.CatalogProvider, history recommend.HistoryStore, cfg recommend.CollaborativeConfig) *CollaborativeScorer {
	return &CollaborativeScorer{
		catalog: catalog,
		history: history,
		cfg:     cfg,
		sim:     SimilarityByName(cfg.Metric),
	}
}

// Strategy returns recommend.StrategyCollaborative.
func (s *CollaborativeScorer) Strategy() recommend.Strategy {
	return recommend.StrategyCollaborative
}

// peerScore accumulates neighbor evidence for one item.
type peerScore struct {
	score  float64
	simSum float64
	raters int
}

// Score implements recommend.Scorer.
//
//nolint:gocritic // hugeParam: in passed by value, shared read-only
func (s *CollaborativeScorer) Score(ctx context.Context, in recommend.ScoreInput) ([]recommend.ScoredCandidate, error) {
	if in.Profile == nil {
		in.Profile = recommend.NewEmptyProfile(in.UserID)
	}
	target := RatingVector(in.Profile.Ratings)
	if len(target) == 0 {
		return s.fallback(ctx, in, nil)
	}

	peers, err := s.history.GetPeerInteractions(ctx, in.UserID, s.cfg.PeerLimit)
	if err != nil {
		return s.fallback(ctx, in, fmt.Errorf("load peer interactions: %w", err))
	}

	vectors := make(map[string]RatingVector)
	for i := range peers {
		p := &peers[i]
		if p.UserID == "" || p.UserID == in.UserID {
			continue
		}
		r, ok := p.ImpliedRating(s.cfg.ImplicitRating)
		if !ok {
			continue
		}
		vec, exists := vectors[p.UserID]
		if !exists {
			vec = make(RatingVector)
			vectors[p.UserID] = vec
		}
		// Peers arrive newest first; keep the latest rating per item.
		if _, seen := vec[p.ItemID]; !seen {
			vec[p.ItemID] = r
		}
	}

	neighbors := TopNeighbors(target, vectors, s.cfg.Neighbors, s.sim, s.cfg.MinOverlap)
	if len(neighbors) == 0 {
		return s.fallback(ctx, in, nil)
	}

	scores := make(map[string]*peerScore)
	for _, nb := range neighbors {
		for itemID, r := range vectors[nb.ID] {
			if _, own := target[itemID]; own {
				continue
			}
			ps, ok := scores[itemID]
			if !ok {
				ps = &peerScore{}
				scores[itemID] = ps
			}
			ps.score += nb.Similarity * (r / recommend.MaxUserRating)
			ps.simSum += nb.Similarity
			ps.raters++
		}
	}
	if len(scores) == 0 {
		return []recommend.ScoredCandidate{}, nil
	}

	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}
	items, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load neighbor items: %w", err)
	}

	set := newCandidateSet(in)
	set.add(items)

	out := make([]recommend.ScoredCandidate, 0, len(set.items))
	for i := range set.items {
		item := set.items[i]
		ps, ok := scores[item.ID]
		if !ok {
			continue
		}
		strength := 0.0
		if ps.simSum > 0 {
			strength = clamp01(ps.score / ps.simSum)
		}
		desc := "Liked by a viewer with similar taste"
		if ps.raters > 1 {
			desc = fmt.Sprintf("Liked by %d viewers with similar taste", ps.raters)
		}
		out = append(out, recommend.ScoredCandidate{
			Item:     item,
			Source:   recommend.StrategyCollaborative,
			RawScore: ps.score,
			Factors: []recommend.Factor{{
				Type:        recommend.FactorPeerRating,
				Weight:      strength,
				Description: desc,
			}},
		})
	}

	recommend.SortCandidates(out)
	return out, nil
}

// fallback ranks popular candidates by rating and popularity. cause, if
// non-nil, is returned with the list so the outcome is marked degraded.
//
//nolint:gocritic // hugeParam: in passed by value, shared read-only
func (s *CollaborativeScorer) fallback(ctx context.Context, in recommend.ScoreInput, cause error) ([]recommend.ScoredCandidate, error) {
	items, err := gatherCandidates(ctx, s.catalog, in, max(s.cfg.FallbackPages, 1), nil, 0)
	maxPop := maxPopularity(items)

	out := make([]recommend.ScoredCandidate, 0, len(items))
	for i := range items {
		item := &items[i]
		rating := normalizedRating(item.AverageRating, s.cfg.RatingScale)
		popularity := popularityShare(item.Popularity, maxPop)
		out = append(out, recommend.ScoredCandidate{
			Item:     *item,
			Source:   recommend.StrategyCollaborative,
			RawScore: 0.5*rating + 0.5*popularity,
			Factors:  socialFactors(item, rating, popularity),
		})
	}

	recommend.SortCandidates(out)
	return out, errors.Join(cause, err)
}
