// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package database

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/Srijan272002/Kahani-sub000/internal/logging"
	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// SeedUser is a user entry in a seed document.
type SeedUser struct {
	ID          string                 `json:"id"`
	Preferences *recommend.Preferences `json:"preferences,omitempty"`
	Strategy    string                 `json:"strategy,omitempty"`
}

// SeedData is the JSON seed document format.
//
//	{
//	  "catalog":      [{"id": "603", "kind": "movie", "title": "The Matrix", ...}],
//	  "users":        [{"id": "alice", "preferences": {"genres": ["Sci-Fi"]}, "strategy": "content"}],
//	  "interactions": [{"user_id": "alice", "item_id": "603", "media_kind": "movie", "kind": "rating", "value": 5, "timestamp": "..."}]
//	}
type SeedData struct {
	Catalog      []recommend.CatalogItem `json:"catalog"`
	Users        []SeedUser              `json:"users"`
	Interactions []recommend.Interaction `json:"interactions"`
}

// SeedFromFile loads a JSON seed document into the database.
func (db *DB) SeedFromFile(ctx context.Context, path string) error {
	//nolint:gosec // G304: path comes from operator configuration
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return db.Seed(ctx, &data)
}

// Seed loads catalog items, users, preferences, assignments and
// interactions. Loading the same document twice duplicates interactions.
func (db *DB) Seed(ctx context.Context, data *SeedData) error {
	if err := db.UpsertItems(ctx, data.Catalog); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	for _, u := range data.Users {
		if err := db.UpsertUser(ctx, u.ID); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		if u.Preferences != nil {
			if err := db.SetPreferences(ctx, u.ID, *u.Preferences); err != nil {
				return fmt.Errorf("seed preferences for %s: %w", u.ID, err)
			}
		}
		if u.Strategy != "" {
			if err := db.SetAssignment(ctx, u.ID, recommend.Strategy(u.Strategy)); err != nil {
				return fmt.Errorf("seed assignment for %s: %w", u.ID, err)
			}
		}
	}

	if err := db.AddInteractions(ctx, data.Interactions); err != nil {
		return fmt.Errorf("seed interactions: %w", err)
	}

	logging.Info().
		Int("catalog", len(data.Catalog)).
		Int("users", len(data.Users)).
		Int("interactions", len(data.Interactions)).
		Msg("Database seeded")
	return nil
}
