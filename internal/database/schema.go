// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates tables and indexes. Every statement is idempotent.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id VARCHAR PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS catalog_items (
			id VARCHAR NOT NULL,
			kind VARCHAR NOT NULL,
			title VARCHAR NOT NULL,
			genres VARCHAR NOT NULL DEFAULT '[]',
			release_year INTEGER NOT NULL DEFAULT 0,
			creators VARCHAR NOT NULL DEFAULT '[]',
			average_rating DOUBLE NOT NULL DEFAULT 0,
			rating_count INTEGER NOT NULL DEFAULT 0,
			popularity DOUBLE NOT NULL DEFAULT 0,
			language VARCHAR NOT NULL DEFAULT '',
			content_rating VARCHAR NOT NULL DEFAULT '',
			PRIMARY KEY (id, kind)
		)`,

		`CREATE SEQUENCE IF NOT EXISTS interactions_seq START 1`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id BIGINT PRIMARY KEY DEFAULT nextval('interactions_seq'),
			user_id VARCHAR NOT NULL,
			item_id VARCHAR NOT NULL,
			media_kind VARCHAR NOT NULL,
			kind VARCHAR NOT NULL,
			value DOUBLE NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS preferences (
			user_id VARCHAR PRIMARY KEY,
			genres VARCHAR NOT NULL DEFAULT '[]',
			content_rating VARCHAR NOT NULL DEFAULT '',
			language VARCHAR NOT NULL DEFAULT ''
		)`,

		`CREATE SEQUENCE IF NOT EXISTS feedback_seq START 1`,
		`CREATE TABLE IF NOT EXISTS feedback (
			id BIGINT PRIMARY KEY DEFAULT nextval('feedback_seq'),
			user_id VARCHAR NOT NULL,
			item_id VARCHAR NOT NULL,
			media_kind VARCHAR NOT NULL DEFAULT '',
			signal VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS experiment_assignments (
			user_id VARCHAR PRIMARY KEY,
			strategy VARCHAR NOT NULL,
			assigned_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_item ON interactions(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_user ON feedback(user_id, created_at)`,
	}
}
