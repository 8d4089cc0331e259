// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package algorithms

import (
	"context"
	"sort"
	"strings"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// fakeCatalog serves a fixed item list.
type fakeCatalog struct {
	items      []recommend.CatalogItem
	pageSize   int
	popularErr error
	genreErr   error
	idsErr     error
}

func (c *fakeCatalog) byKind(kind recommend.MediaKind) []recommend.CatalogItem {
	out := make([]recommend.CatalogItem, 0, len(c.items))
	for _, it := range c.items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (c *fakeCatalog) ListPopular(_ context.Context, kind recommend.MediaKind, page int) ([]recommend.CatalogItem, error) {
	if c.popularErr != nil {
		return nil, c.popularErr
	}
	size := c.pageSize
	if size <= 0 {
		size = 100
	}
	items := c.byKind(kind)
	start := (page - 1) * size
	if start >= len(items) {
		return nil, nil
	}
	return items[start:min(start+size, len(items))], nil
}

func (c *fakeCatalog) Search(_ context.Context, kind recommend.MediaKind, query string) ([]recommend.CatalogItem, error) {
	var out []recommend.CatalogItem
	for _, it := range c.byKind(kind) {
		if strings.Contains(strings.ToLower(it.Title), strings.ToLower(query)) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *fakeCatalog) ByGenre(_ context.Context, kind recommend.MediaKind, genre string, limit int) ([]recommend.CatalogItem, error) {
	if c.genreErr != nil {
		return nil, c.genreErr
	}
	var out []recommend.CatalogItem
	for _, it := range c.byKind(kind) {
		for _, g := range it.Genres {
			if strings.EqualFold(g, genre) {
				out = append(out, it)
				break
			}
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetByIDs(_ context.Context, ids []string) ([]recommend.CatalogItem, error) {
	if c.idsErr != nil {
		return nil, c.idsErr
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []recommend.CatalogItem
	for _, it := range c.items {
		if _, ok := want[it.ID]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

// fakeHistory only serves peer interactions; the other methods are unused by
// scorers.
type fakeHistory struct {
	peers   []recommend.Interaction
	peerErr error
}

func (h *fakeHistory) UserExists(context.Context, string) (bool, error) { return true, nil }

func (h *fakeHistory) GetInteractions(context.Context, string, int) ([]recommend.Interaction, error) {
	return nil, nil
}

func (h *fakeHistory) GetPreferences(context.Context, string) (recommend.Preferences, error) {
	return recommend.Preferences{}, nil
}

func (h *fakeHistory) GetFeedback(context.Context, string, int) ([]recommend.Feedback, error) {
	return nil, nil
}

func (h *fakeHistory) GetPeerInteractions(_ context.Context, userID string, _ int) ([]recommend.Interaction, error) {
	if h.peerErr != nil {
		return nil, h.peerErr
	}
	var out []recommend.Interaction
	for _, p := range h.peers {
		if p.UserID != userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func movie(id string, pop, rating float64, genres ...string) recommend.CatalogItem {
	return recommend.CatalogItem{
		ID:            id,
		Kind:          recommend.KindMovie,
		Title:         "Movie " + id,
		Genres:        genres,
		AverageRating: rating,
		RatingCount:   100,
		Popularity:    pop,
	}
}

func rated(user, item string, value float64) recommend.Interaction {
	return recommend.Interaction{UserID: user, ItemID: item, Kind: recommend.InteractionRating, Value: value}
}

func buildProfile(user string, interactions ...recommend.Interaction) *recommend.UserProfile {
	return recommend.NewProfileBuilder(recommend.DefaultConfig().Profile).Build(user, interactions, recommend.Preferences{}, nil)
}

func ids(candidates []recommend.ScoredCandidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Item.ID
	}
	return out
}
