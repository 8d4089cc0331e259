// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

/*
Package database provides the DuckDB-backed store behind the recommendation
engine.

A single DB value implements:
  - recommend.CatalogProvider: popular lists, search, genre lookups, id lookups
  - recommend.HistoryStore: interactions, preferences, feedback, co-raters
  - recommend.FeedbackStore: feedback appends
  - experiment.Store: persisted strategy assignments

# Schema

	users                  (user_id PK, created_at)
	catalog_items          (id, kind) PK, genres/creators as JSON text
	interactions           user history, newest first by created_at
	preferences            (user_id PK) stated genres, certification, language
	feedback               positive/negative signals on recommendations
	experiment_assignments (user_id PK, strategy)

Genre and creator lists are stored as JSON arrays encoded with goccy/go-json.

# Seeding

SeedFromFile loads a JSON document with catalog items, users, preferences,
interactions and assignments. cmd/server calls it at startup when
database.seed_path is set.

# Thread Safety

DB is safe for concurrent use; database/sql pools connections to a single
DuckDB instance.

# Metrics

Every query is recorded through metrics.RecordDBQuery with its operation and
table labels.
*/
package database
