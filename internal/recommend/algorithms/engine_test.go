// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package algorithms

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

func newPipeline(t *testing.T, catalog recommend.CatalogProvider, history recommend.HistoryStore) *recommend.Engine {
	t.Helper()

	cfg := recommend.DefaultConfig()
	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{History: history}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.RegisterScorer(NewContentScorer(catalog, cfg.Content))
	engine.RegisterScorer(NewCollaborativeScorer(catalog, history, cfg.Collaborative))
	engine.RegisterScorer(NewContextualScorer(catalog, cfg.Contextual))
	return engine
}

func TestPipeline_NewUserGetsPopularItems(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{items: []recommend.CatalogItem{
		movie("niche", 5, 4), movie("blockbuster", 100, 9), movie("solid", 60, 7),
	}}
	engine := newPipeline(t, catalog, &fakeHistory{})

	resp, err := engine.Recommend(context.Background(), recommend.Request{
		UserID: "newcomer", Kind: recommend.KindMovie, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Degraded != nil {
		t.Errorf("Degraded = %v", resp.Degraded)
	}

	want := []string{"blockbuster", "solid", "niche"}
	if len(resp.Results) != len(want) {
		t.Fatalf("got %d results, want %d", len(resp.Results), len(want))
	}
	for i, id := range want {
		if resp.Results[i].Item.ID != id {
			t.Errorf("position %d = %s, want %s", i, resp.Results[i].Item.ID, id)
		}
		if len(resp.Results[i].Scores) != 3 {
			t.Errorf("%s scored by %d strategies, want 3", id, len(resp.Results[i].Scores))
		}
	}

	if exp := engine.Explain(resp.Results[0]); exp.Primary == "" {
		t.Error("empty explanation")
	}
}

func TestPipeline_NewUserIgnoresReleaseYear(t *testing.T) {
	t.Parallel()

	classic := movie("classic", 100, 8.0)
	classic.ReleaseYear = 1990
	fresh := movie("fresh", 95, 8.0)
	fresh.ReleaseYear = testNow.Year()
	engine := newPipeline(t, &fakeCatalog{items: []recommend.CatalogItem{fresh, classic}}, &fakeHistory{})

	resp, err := engine.Recommend(context.Background(), recommend.Request{
		UserID: "newcomer", Kind: recommend.KindMovie, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	if resp.Results[0].Item.ID != "classic" {
		t.Errorf("first = %s, want classic (more popular, same rating)", resp.Results[0].Item.ID)
	}
}

func TestPipeline_UpstreamFailureDegrades(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		items:      []recommend.CatalogItem{movie("a", 10, 8)},
		popularErr: recommend.ErrUpstreamUnavailable,
	}
	engine := newPipeline(t, catalog, &fakeHistory{})

	resp, err := engine.Recommend(context.Background(), recommend.Request{
		UserID: "newcomer", Kind: recommend.KindMovie, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Degraded) != 3 {
		t.Errorf("Degraded = %v, want all three scorers", resp.Degraded)
	}
	if len(resp.Results) != 0 {
		t.Errorf("got %d results from a failed catalog", len(resp.Results))
	}
}
