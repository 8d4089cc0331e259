// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package recommend

import (
	"sort"
	"time"
)

// Outcome is the tagged result of one scorer run: either ok, or degraded
// with whatever partial list the scorer managed to produce and a reason.
type Outcome struct {
	Strategy   Strategy
	Candidates []ScoredCandidate
	Degraded   bool
	Reason     string
	Duration   time.Duration
}

// Ok returns a successful outcome.
func Ok(s Strategy, candidates []ScoredCandidate) Outcome {
	return Outcome{Strategy: s, Candidates: candidates}
}

// Degraded returns a degraded outcome carrying a partial list.
func Degraded(s Strategy, partial []ScoredCandidate, reason string) Outcome {
	return Outcome{Strategy: s, Candidates: partial, Degraded: true, Reason: reason}
}

// Fuse merges scorer outcomes into one ranked list keyed by (item id, kind).
// Each item's score is the weighted sum of its raw scores; a strategy that did
// not score the item contributes 0.
func Fuse(outcomes []Outcome, weights FusionWeights) []RankedResult {
	merged := make(map[ItemKey]*RankedResult)
	order := make([]ItemKey, 0)

	for i := range outcomes {
		o := &outcomes[i]
		w := weights.Weight(o.Strategy)
		for j := range o.Candidates {
			c := &o.Candidates[j]
			key := c.Item.Key()
			r, ok := merged[key]
			if !ok {
				r = &RankedResult{Item: c.Item, Scores: make(map[Strategy]float64)}
				merged[key] = r
				order = append(order, key)
			}
			if prev, dup := r.Scores[o.Strategy]; dup && prev >= c.RawScore {
				continue
			} else if dup {
				r.Score -= w * prev
			}
			r.Scores[o.Strategy] = c.RawScore
			r.Score += w * c.RawScore
			r.Factors = mergeFactors(r.Factors, c.Factors)
		}
	}

	results := make([]RankedResult, 0, len(merged))
	for _, key := range order {
		results = append(results, *merged[key])
	}
	SortResults(results)
	return results
}

// FromCandidates converts a single scorer's output into ranked results
// without reweighting, preserving the scorer's order.
func FromCandidates(candidates []ScoredCandidate) []RankedResult {
	results := make([]RankedResult, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		results = append(results, RankedResult{
			Item:    c.Item,
			Score:   c.RawScore,
			Scores:  map[Strategy]float64{c.Source: c.RawScore},
			Factors: append([]Factor(nil), c.Factors...),
		})
	}
	return results
}

// SortResults orders results by score descending, then rating count
// descending, then item key ascending.
func SortResults(results []RankedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return lessRanked(results[i].Score, results[j].Score, results[i].Item, results[j].Item)
	})
}

// Paginate returns the 1-based page of results. Pages past the end are empty.
func Paginate(results []RankedResult, page, size int) []RankedResult {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return []RankedResult{}
	}
	start := (page - 1) * size
	if start >= len(results) {
		return []RankedResult{}
	}
	end := min(start+size, len(results))
	out := make([]RankedResult, end-start)
	copy(out, results[start:end])
	return out
}

// mergeFactors unions factor lists, keeping the strongest factor per type.
// The result is ordered by weight descending, then type.
func mergeFactors(dst, src []Factor) []Factor {
	byType := make(map[FactorType]Factor, len(dst)+len(src))
	for _, f := range dst {
		byType[f.Type] = f
	}
	for _, f := range src {
		if cur, ok := byType[f.Type]; !ok || f.Weight > cur.Weight {
			byType[f.Type] = f
		}
	}
	out := make([]Factor, 0, len(byType))
	for _, f := range byType {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Type < out[j].Type
	})
	return out
}
