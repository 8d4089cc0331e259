// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package recommend

import (
	"sort"
	"strings"
)

// FactorBucket groups factors for explanations.
type FactorBucket string

const (
	// BucketContent covers what the item is: genres, era, release date.
	BucketContent FactorBucket = "content"
	// BucketSocial covers what others think: rating, popularity, peers.
	BucketSocial FactorBucket = "social"
	// BucketPersonal covers the user's own patterns.
	BucketPersonal FactorBucket = "personal"
)

// bucketPriority breaks ties when choosing the primary reason.
var bucketPriority = []FactorBucket{BucketContent, BucketSocial, BucketPersonal}

// BucketOfFactor maps a factor type to its bucket. Unknown types are personal.
func BucketOfFactor(t FactorType) FactorBucket {
	switch t {
	case FactorGenreMatch, FactorEra, FactorRecency:
		return BucketContent
	case FactorRating, FactorPopularity, FactorPeerRating:
		return BucketSocial
	default:
		return BucketPersonal
	}
}

// FactorGroup is one bucket of an explanation.
type FactorGroup struct {
	// Bucket is the group name.
	Bucket FactorBucket `json:"bucket"`

	// Strength is the strongest factor weight in the group (0..1).
	Strength float64 `json:"strength"`

	// Summary is the description of the strongest factor.
	Summary string `json:"summary"`

	// Factors are the group's factors, strongest first.
	Factors []Factor `json:"factors"`
}

// Explanation is the human-readable account of a recommendation.
type Explanation struct {
	// Primary is the main reason. Never empty.
	Primary string `json:"primary"`

	// PrimaryFactor is the factor behind Primary, nil for the fallback.
	PrimaryFactor *Factor `json:"primary_factor,omitempty"`

	// Details lists the non-empty groups, strongest first.
	Details []FactorGroup `json:"details"`
}

// Explainer turns factor breakdowns into explanations.
type Explainer struct {
	threshold float64
	fallback  string
}

// NewExplainer creates an explainer.
func NewExplainer(cfg ExplainConfig) *Explainer {
	fallback := strings.TrimSpace(cfg.Fallback)
	if fallback == "" {
		fallback = DefaultConfig().Explain.Fallback
	}
	return &Explainer{threshold: cfg.RelevanceThreshold, fallback: fallback}
}

// Explain builds the explanation for a ranked result.
//
//nolint:gocritic // RankedResult is passed by value to keep callers simple
func (e *Explainer) Explain(r RankedResult) Explanation {
	groups := make(map[FactorBucket]*FactorGroup, len(bucketPriority))
	for _, f := range r.Factors {
		f.Weight = clamp(f.Weight, 0, 1)
		b := BucketOfFactor(f.Type)
		g, ok := groups[b]
		if !ok {
			g = &FactorGroup{Bucket: b}
			groups[b] = g
		}
		g.Factors = append(g.Factors, f)
	}

	out := Explanation{Details: make([]FactorGroup, 0, len(groups))}
	var primary *Factor

	for _, b := range bucketPriority {
		g, ok := groups[b]
		if !ok {
			continue
		}
		sort.SliceStable(g.Factors, func(i, j int) bool {
			if g.Factors[i].Weight != g.Factors[j].Weight {
				return g.Factors[i].Weight > g.Factors[j].Weight
			}
			return g.Factors[i].Type < g.Factors[j].Type
		})
		top := g.Factors[0]
		g.Strength = top.Weight
		g.Summary = top.Description

		// Factors are sorted, so the first described one is the strongest.
		// Strictly greater keeps the higher-priority bucket on ties.
		for _, f := range g.Factors {
			if strings.TrimSpace(f.Description) == "" {
				continue
			}
			if primary == nil || f.Weight > primary.Weight {
				primary = &f
			}
			break
		}
		out.Details = append(out.Details, *g)
	}

	sort.SliceStable(out.Details, func(i, j int) bool {
		return out.Details[i].Strength > out.Details[j].Strength
	})

	if primary != nil && primary.Weight > e.threshold {
		out.Primary = primary.Description
		out.PrimaryFactor = primary
	} else {
		out.Primary = e.fallback
	}
	return out
}
