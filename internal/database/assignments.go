// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// GetAssignment returns the user's persisted strategy. ok is false when the
// user has no row. Rows naming an unknown strategy are reported as errors.
func (db *DB) GetAssignment(ctx context.Context, userID string) (strategy recommend.Strategy, ok bool, err error) {
	defer observe("select", "experiment_assignments", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var name string
	err = db.conn.QueryRowContext(ctx,
		`SELECT strategy FROM experiment_assignments WHERE user_id = ?`, userID,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get assignment: %w", err)
	}

	s, valid := recommend.ParseStrategy(name)
	if !valid {
		return "", false, fmt.Errorf("assignment for %s: %w: %q", userID, recommend.ErrUnknownStrategy, name)
	}
	return s, true, nil
}

// SetAssignment pins a user to a strategy.
func (db *DB) SetAssignment(ctx context.Context, userID string, strategy recommend.Strategy) (err error) {
	defer observe("upsert", "experiment_assignments", time.Now(), &err)
	s, valid := recommend.ParseStrategy(string(strategy))
	if !valid {
		return fmt.Errorf("%w: %q", recommend.ErrUnknownStrategy, strategy)
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err = db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO experiment_assignments (user_id, strategy, assigned_at) VALUES (?, ?, ?)`,
		userID, string(s), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("set assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes the user's persisted strategy.
func (db *DB) DeleteAssignment(ctx context.Context, userID string) (err error) {
	defer observe("delete", "experiment_assignments", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err = db.conn.ExecContext(ctx, `DELETE FROM experiment_assignments WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
