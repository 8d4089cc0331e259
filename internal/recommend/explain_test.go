// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package recommend

import "testing"

func TestExplainer_Explain(t *testing.T) {
	t.Parallel()

	fallback := DefaultConfig().Explain.Fallback
	genre := Factor{Type: FactorGenreMatch, Weight: 0.8, Description: "Matches your interest in Action"}
	rating := Factor{Type: FactorRating, Weight: 0.5, Description: "Rated 7.5/10 by 120 people"}
	peers := Factor{Type: FactorPeerRating, Weight: 0.6, Description: "Liked by 3 viewers with similar taste"}
	timeOfDay := Factor{Type: FactorTimeOfDay, Weight: 0.9, Description: "You often enjoy movies on Friday evenings"}

	tests := []struct {
		name        string
		factors     []Factor
		wantPrimary string
		wantGroups  int
	}{
		{"strong genre match", []Factor{rating, genre}, genre.Description, 2},
		{"personal factor wins when strongest", []Factor{genre, timeOfDay}, timeOfDay.Description, 2},
		{"no factors", nil, fallback, 0},
		{"all weak", []Factor{{Type: FactorPopularity, Weight: 0.2, Description: "Popular right now"}}, fallback, 1},
		{"at threshold is not relevant", []Factor{{Type: FactorGenreMatch, Weight: 0.3, Description: "x"}}, fallback, 1},
		{"just above threshold", []Factor{{Type: FactorEra, Weight: 0.31, Description: "From the 1990s"}}, "From the 1990s", 1},
		{"tie prefers content over social", []Factor{
			{Type: FactorPeerRating, Weight: 0.6, Description: "peers"},
			{Type: FactorRecency, Weight: 0.6, Description: "recent"},
		}, "recent", 2},
		{"blank description skipped", []Factor{{Type: FactorGenreMatch, Weight: 0.9}}, fallback, 1},
		{"social only", []Factor{rating, peers}, peers.Description, 1},
	}

	e := NewExplainer(DefaultConfig().Explain)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := e.Explain(RankedResult{Factors: tt.factors})
			if got.Primary == "" {
				t.Fatal("Primary is empty")
			}
			if got.Primary != tt.wantPrimary {
				t.Errorf("Primary = %q, want %q", got.Primary, tt.wantPrimary)
			}
			if len(got.Details) != tt.wantGroups {
				t.Errorf("len(Details) = %d, want %d", len(got.Details), tt.wantGroups)
			}
			for i := 1; i < len(got.Details); i++ {
				if got.Details[i].Strength > got.Details[i-1].Strength {
					t.Errorf("Details not sorted by strength: %+v", got.Details)
				}
			}
		})
	}
}

func TestExplainer_PrimaryFactor(t *testing.T) {
	t.Parallel()

	e := NewExplainer(DefaultConfig().Explain)
	got := e.Explain(RankedResult{Factors: []Factor{
		{Type: FactorGenreMatch, Weight: 0.8, Description: "Matches your interest in Action"},
	}})
	if got.PrimaryFactor == nil || got.PrimaryFactor.Type != FactorGenreMatch {
		t.Errorf("PrimaryFactor = %+v, want genre_match", got.PrimaryFactor)
	}

	fb := e.Explain(RankedResult{})
	if fb.PrimaryFactor != nil {
		t.Errorf("fallback PrimaryFactor = %+v, want nil", fb.PrimaryFactor)
	}
}

func TestExplainer_SkipsUndescribedFactor(t *testing.T) {
	t.Parallel()

	e := NewExplainer(DefaultConfig().Explain)
	got := e.Explain(RankedResult{Factors: []Factor{
		{Type: FactorGenreMatch, Weight: 0.9},
		{Type: FactorEra, Weight: 0.7, Description: "From the 1990s, an era you enjoy"},
	}})
	if got.Primary != "From the 1990s, an era you enjoy" {
		t.Errorf("Primary = %q, want the era description", got.Primary)
	}
	if got.PrimaryFactor == nil || got.PrimaryFactor.Type != FactorEra {
		t.Errorf("PrimaryFactor = %+v, want era_match", got.PrimaryFactor)
	}
}

func TestExplainer_CustomFallback(t *testing.T) {
	t.Parallel()

	e := NewExplainer(ExplainConfig{RelevanceThreshold: 0.3, Fallback: "  "})
	if got := e.Explain(RankedResult{}).Primary; got != DefaultConfig().Explain.Fallback {
		t.Errorf("Primary = %q, want default fallback", got)
	}

	e = NewExplainer(ExplainConfig{RelevanceThreshold: 0.3, Fallback: "Picked for you"})
	if got := e.Explain(RankedResult{}).Primary; got != "Picked for you" {
		t.Errorf("Primary = %q, want custom fallback", got)
	}
}

func TestBucketOfFactor(t *testing.T) {
	t.Parallel()

	tests := map[FactorType]FactorBucket{
		FactorGenreMatch: BucketContent,
		FactorEra:        BucketContent,
		FactorRecency:    BucketContent,
		FactorRating:     BucketSocial,
		FactorPopularity: BucketSocial,
		FactorPeerRating: BucketSocial,
		FactorHistory:    BucketPersonal,
		FactorTimeOfDay:  BucketPersonal,
		"unknown":        BucketPersonal,
	}
	for ft, want := range tests {
		if got := BucketOfFactor(ft); got != want {
			t.Errorf("BucketOfFactor(%s) = %s, want %s", ft, got, want)
		}
	}
}
