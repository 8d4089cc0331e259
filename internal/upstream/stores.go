// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package upstream

import (
	"context"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// Catalog guards a recommend.CatalogProvider.
type Catalog struct {
	inner recommend.CatalogProvider
	guard *Guard
}

// NewCatalog wraps inner with a guard named "catalog".
//
//nolint:gocritic // hugeParam: config is read once at startup
func NewCatalog(inner recommend.CatalogProvider, cfg Config) *Catalog {
	return &Catalog{inner: inner, guard: NewGuard("catalog", cfg)}
}

// Guard exposes the underlying guard for health reporting.
func (c *Catalog) Guard() *Guard { return c.guard }

func (c *Catalog) ListPopular(ctx context.Context, kind recommend.MediaKind, page int) ([]recommend.CatalogItem, error) {
	return call(ctx, c.guard, "list_popular", func(ctx context.Context) ([]recommend.CatalogItem, error) {
		return c.inner.ListPopular(ctx, kind, page)
	})
}

func (c *Catalog) Search(ctx context.Context, kind recommend.MediaKind, query string) ([]recommend.CatalogItem, error) {
	return call(ctx, c.guard, "search", func(ctx context.Context) ([]recommend.CatalogItem, error) {
		return c.inner.Search(ctx, kind, query)
	})
}

func (c *Catalog) ByGenre(ctx context.Context, kind recommend.MediaKind, genre string, limit int) ([]recommend.CatalogItem, error) {
	return call(ctx, c.guard, "by_genre", func(ctx context.Context) ([]recommend.CatalogItem, error) {
		return c.inner.ByGenre(ctx, kind, genre, limit)
	})
}

func (c *Catalog) GetByIDs(ctx context.Context, ids []string) ([]recommend.CatalogItem, error) {
	return call(ctx, c.guard, "get_by_ids", func(ctx context.Context) ([]recommend.CatalogItem, error) {
		return c.inner.GetByIDs(ctx, ids)
	})
}

// History guards a recommend.HistoryStore.
type History struct {
	inner recommend.HistoryStore
	guard *Guard
}

// NewHistory wraps inner with a guard named "history".
//
//nolint:gocritic // hugeParam: config is read once at startup
func NewHistory(inner recommend.HistoryStore, cfg Config) *History {
	return &History{inner: inner, guard: NewGuard("history", cfg)}
}

// Guard exposes the underlying guard for health reporting.
func (h *History) Guard() *Guard { return h.guard }

func (h *History) UserExists(ctx context.Context, userID string) (bool, error) {
	return call(ctx, h.guard, "user_exists", func(ctx context.Context) (bool, error) {
		return h.inner.UserExists(ctx, userID)
	})
}

func (h *History) GetInteractions(ctx context.Context, userID string, limit int) ([]recommend.Interaction, error) {
	return call(ctx, h.guard, "get_interactions", func(ctx context.Context) ([]recommend.Interaction, error) {
		return h.inner.GetInteractions(ctx, userID, limit)
	})
}

func (h *History) GetPreferences(ctx context.Context, userID string) (recommend.Preferences, error) {
	return call(ctx, h.guard, "get_preferences", func(ctx context.Context) (recommend.Preferences, error) {
		return h.inner.GetPreferences(ctx, userID)
	})
}

func (h *History) GetFeedback(ctx context.Context, userID string, limit int) ([]recommend.Feedback, error) {
	return call(ctx, h.guard, "get_feedback", func(ctx context.Context) ([]recommend.Feedback, error) {
		return h.inner.GetFeedback(ctx, userID, limit)
	})
}

func (h *History) GetPeerInteractions(ctx context.Context, userID string, limit int) ([]recommend.Interaction, error) {
	return call(ctx, h.guard, "get_peer_interactions", func(ctx context.Context) ([]recommend.Interaction, error) {
		return h.inner.GetPeerInteractions(ctx, userID, limit)
	})
}

// FeedbackWriter guards a recommend.FeedbackStore.
type FeedbackWriter struct {
	inner recommend.FeedbackStore
	guard *Guard
}

// NewFeedbackWriter wraps inner with a guard named "feedback".
//
//nolint:gocritic // hugeParam: config is read once at startup
func NewFeedbackWriter(inner recommend.FeedbackStore, cfg Config) *FeedbackWriter {
	return &FeedbackWriter{inner: inner, guard: NewGuard("feedback", cfg)}
}

// Guard exposes the underlying guard for health reporting.
func (f *FeedbackWriter) Guard() *Guard { return f.guard }

func (f *FeedbackWriter) AppendFeedback(ctx context.Context, fb recommend.Feedback) error {
	_, err := call(ctx, f.guard, "append_feedback", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, f.inner.AppendFeedback(ctx, fb)
	})
	return err
}

var (
	_ recommend.CatalogProvider = (*Catalog)(nil)
	_ recommend.HistoryStore    = (*History)(nil)
	_ recommend.FeedbackStore   = (*FeedbackWriter)(nil)
)
