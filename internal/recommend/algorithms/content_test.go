// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

var testNow = time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC) // Friday evening

func TestContentScorer_EmptyProfileFallsBackToPopularity(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{items: []recommend.CatalogItem{
		movie("m-low", 10, 5.0, "Drama"),
		movie("m-high", 90, 9.0, "Comedy"),
		movie("m-mid", 50, 7.0, "Horror"),
	}}
	scorer := NewContentScorer(catalog, recommend.DefaultConfig().Content)

	got, err := scorer.Score(context.Background(), recommend.ScoreInput{
		UserID:  "u1",
		Kind:    recommend.KindMovie,
		Profile: recommend.NewEmptyProfile("u1"),
		Now:     testNow,
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	want := []string{"m-high", "m-mid", "m-low"}
	if strings.Join(ids(got), ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", ids(got), want)
	}
	for _, c := range got {
		if c.Source != recommend.StrategyContent {
			t.Errorf("Source = %s, want content", c.Source)
		}
	}
}

func TestContentScorer_EmptyProfileIgnoresRecency(t *testing.T) {
	t.Parallel()

	classic := movie("classic", 100, 9.0, "Drama")
	classic.ReleaseYear = 1990
	fresh := movie("fresh", 60, 7.0, "Drama")
	fresh.ReleaseYear = testNow.Year()

	cfg := recommend.DefaultConfig().Content
	scorer := NewContentScorer(&fakeCatalog{items: []recommend.CatalogItem{fresh, classic}}, cfg)

	got, err := scorer.Score(context.Background(), recommend.ScoreInput{
		UserID: "u1", Kind: recommend.KindMovie, Profile: recommend.NewEmptyProfile("u1"), Now: testNow,
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if strings.Join(ids(got), ",") != "classic,fresh" {
		t.Fatalf("order = %v, want [classic fresh]", ids(got))
	}

	// rating 0.9, popularity 1 over the rating+popularity weights only
	want := (cfg.RatingWeight*0.9 + cfg.PopularityWeight*1) / (cfg.RatingWeight + cfg.PopularityWeight)
	if math.Abs(got[0].RawScore-want) > epsilon {
		t.Errorf("RawScore = %v, want %v", got[0].RawScore, want)
	}
	for _, f := range got[1].Factors {
		if f.Type == recommend.FactorRecency {
			t.Error("recency factor attached without taste signal")
		}
	}
}

func TestContentScorer_GenreMatchRanksAbove(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{items: []recommend.CatalogItem{
		movie("m1", 50, 7.0, "Action"),
		movie("m2", 50, 7.0, "Action"),
		movie("m3", 50, 7.0, "Comedy"),
		movie("m4", 50, 7.0, "Romance"),
	}}
	scorer := NewContentScorer(catalog, recommend.DefaultConfig().Content)

	profile := buildProfile("u1", recommend.Interaction{
		UserID: "u1", ItemID: "m1", Kind: recommend.InteractionRating, Value: 5,
		MediaKind: recommend.KindMovie, Genres: []string{"Action"},
	})

	got, err := scorer.Score(context.Background(), recommend.ScoreInput{
		UserID: "u1", Kind: recommend.KindMovie, Profile: profile, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d candidates (%v), want 3", len(got), ids(got))
	}
	if got[0].Item.ID != "m2" {
		t.Errorf("first = %s, want m2 (Action)", got[0].Item.ID)
	}
	for _, c := range got {
		if c.Item.ID == "m1" {
			t.Error("already-rated item m1 was recommended")
		}
	}

	var genre *recommend.Factor
	for i := range got[0].Factors {
		if got[0].Factors[i].Type == recommend.FactorGenreMatch {
			genre = &got[0].Factors[i]
		}
	}
	if genre == nil {
		t.Fatal("missing genre_match factor")
	}
	if genre.Weight != 1 {
		t.Errorf("genre weight = %v, want 1", genre.Weight)
	}
	if genre.Description != "Matches your interest in Action" {
		t.Errorf("description = %q", genre.Description)
	}
}

func TestContentScorer_ScoreFormula(t *testing.T) {
	t.Parallel()

	item := movie("m1", 100, 8.0, "Action", "Drama")
	item.ReleaseYear = testNow.Year() - 5

	cfg := recommend.DefaultConfig().Content
	scorer := NewContentScorer(&fakeCatalog{items: []recommend.CatalogItem{item}}, cfg)
	profile := recommend.NewEmptyProfile("u1")
	profile.GenreWeights["action"] = 0.4

	got, err := scorer.Score(context.Background(), recommend.ScoreInput{
		UserID: "u1", Kind: recommend.KindMovie, Profile: profile, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}

	// genre 1/2, rating 0.8, popularity 1, recency 0.5, affinity 0
	want := 0.3*0.5 + 0.2*0.8 + 0.15*1 + 0.15*0.5
	if math.Abs(got[0].RawScore-want) > epsilon {
		t.Errorf("RawScore = %v, want %v", got[0].RawScore, want)
	}
}

func TestContentScorer_MissingMetadata(t *testing.T) {
	t.Parallel()

	bare := recommend.CatalogItem{ID: "bare", Kind: recommend.KindMovie}
	scorer := NewContentScorer(&fakeCatalog{items: []recommend.CatalogItem{bare}}, recommend.DefaultConfig().Content)

	got, err := scorer.Score(context.Background(), recommend.ScoreInput{
		UserID: "u1", Kind: recommend.KindMovie, Profile: buildProfile("u1", rated("u1", "x", 4)), Now: testNow,
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(got) != 1 || got[0].RawScore != 0 {
		t.Errorf("got %+v, want one zero-scored candidate", got)
	}
}

func TestContentScorer_UpstreamFailureKeepsPartial(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		items:      []recommend.CatalogItem{movie("m2", 10, 6, "Action")},
		popularErr: fmt.Errorf("catalog: %w", recommend.ErrUpstreamUnavailable),
	}
	scorer := NewContentScorer(catalog, recommend.DefaultConfig().Content)
	profile := buildProfile("u1", recommend.Interaction{
		UserID: "u1", ItemID: "m1", Kind: recommend.InteractionWatch, Genres: []string{"Action"},
	})

	got, err := scorer.Score(context.Background(), recommend.ScoreInput{
		UserID: "u1", Kind: recommend.KindMovie, Profile: profile, Now: testNow,
	})
	if !errors.Is(err, recommend.ErrUpstreamUnavailable) {
		t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
	}
	if len(got) != 1 || got[0].Item.ID != "m2" {
		t.Errorf("partial = %v, want [m2] from genre lookup", ids(got))
	}
}

func TestContentScorer_FiltersKindAndLanguage(t *testing.T) {
	t.Parallel()

	show := movie("s1", 80, 8, "Action")
	show.Kind = recommend.KindTV
	french := movie("f1", 70, 8, "Action")
	french.Language = "fr"
	english := movie("e1", 60, 8, "Action")
	english.Language = "en"

	scorer := NewContentScorer(&fakeCatalog{items: []recommend.CatalogItem{show, french, english}}, recommend.DefaultConfig().Content)
	profile := recommend.NewProfileBuilder(recommend.DefaultConfig().Profile).
		Build("u1", nil, recommend.Preferences{Language: "EN"}, nil)

	got, err := scorer.Score(context.Background(), recommend.ScoreInput{
		UserID: "u1", Kind: recommend.KindMovie, Profile: profile, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if strings.Join(ids(got), ",") != "e1" {
		t.Errorf("got %v, want [e1]", ids(got))
	}
}

func TestRecencyDecay(t *testing.T) {
	t.Parallel()

	year := testNow.Year()
	tests := []struct {
		name string
		year int
		want float64
	}{
		{"this year", year, 1},
		{"five years old", year - 5, 0.5},
		{"at horizon", year - 10, 0},
		{"past horizon", year - 25, 0},
		{"future release", year + 2, 1},
		{"unknown year", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RecencyDecay(tt.year, testNow, 10); math.Abs(got-tt.want) > epsilon {
				t.Errorf("RecencyDecay(%d) = %v, want %v", tt.year, got, tt.want)
			}
		})
	}
}
