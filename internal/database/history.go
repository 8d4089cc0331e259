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

// defaultHistoryLimit applies when callers pass a non-positive limit.
const defaultHistoryLimit = 100

// interactionColumns joins catalog metadata so profile building does not need
// a second round trip.
const interactionColumns = `i.user_id, i.item_id, i.kind, i.value, i.created_at, i.media_kind,
	COALESCE(c.genres, '[]'), COALESCE(c.release_year, 0), COALESCE(c.creators, '[]')`

// UserExists reports whether the user is known.
func (db *DB) UserExists(ctx context.Context, userID string) (exists bool, err error) {
	defer observe("exists", "users", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE user_id = ?)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

// UpsertUser registers a user. Existing users are left untouched.
func (db *DB) UpsertUser(ctx context.Context, userID string) (err error) {
	defer observe("upsert", "users", time.Now(), &err)
	if userID == "" {
		return errors.New("user id is required")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (user_id) VALUES (?) ON CONFLICT (user_id) DO NOTHING`, userID,
	); err != nil {
		return fmt.Errorf("upsert user %s: %w", userID, err)
	}
	return nil
}

// GetInteractions returns the user's most recent interactions, newest first.
// Unknown users yield recommend.ErrInvalidUser.
func (db *DB) GetInteractions(ctx context.Context, userID string, limit int) (out []recommend.Interaction, err error) {
	defer observe("select", "interactions", time.Now(), &err)
	exists, err := db.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", recommend.ErrInvalidUser, userID)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	q := `SELECT ` + interactionColumns + `
		FROM interactions i
		LEFT JOIN catalog_items c ON c.id = i.item_id AND c.kind = i.media_kind
		WHERE i.user_id = ?
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT ?`
	return db.queryInteractions(ctx, q, userID, limit)
}

// GetPeerInteractions returns interactions of users who share at least one
// item with userID, newest first, excluding userID itself.
func (db *DB) GetPeerInteractions(ctx context.Context, userID string, limit int) (out []recommend.Interaction, err error) {
	defer observe("select_peers", "interactions", time.Now(), &err)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	q := `SELECT ` + interactionColumns + `
		FROM interactions i
		LEFT JOIN catalog_items c ON c.id = i.item_id AND c.kind = i.media_kind
		WHERE i.user_id <> ?
		  AND i.user_id IN (
			SELECT DISTINCT p.user_id FROM interactions p
			WHERE p.item_id IN (SELECT item_id FROM interactions WHERE user_id = ?)
		  )
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT ?`
	return db.queryInteractions(ctx, q, userID, userID, limit)
}

// AddInteractions appends interactions and registers their users.
func (db *DB) AddInteractions(ctx context.Context, interactions []recommend.Interaction) (err error) {
	defer observe("insert", "interactions", time.Now(), &err)
	if len(interactions) == 0 {
		return nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i := range interactions {
		in := &interactions[i]
		if in.UserID == "" || in.ItemID == "" {
			return fmt.Errorf("interaction %d: user and item ids are required", i)
		}
		if !in.MediaKind.Valid() {
			return fmt.Errorf("interaction %d: invalid media kind %q", i, in.MediaKind)
		}
		ts := in.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (user_id) VALUES (?) ON CONFLICT (user_id) DO NOTHING`, in.UserID,
		); err != nil {
			return fmt.Errorf("register user %s: %w", in.UserID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO interactions (user_id, item_id, media_kind, kind, value, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			in.UserID, in.ItemID, string(in.MediaKind), string(in.Kind), in.Value, ts.UTC(),
		); err != nil {
			return fmt.Errorf("insert interaction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetPreferences returns the user's stored preferences. Users without a
// record get the zero value.
func (db *DB) GetPreferences(ctx context.Context, userID string) (prefs recommend.Preferences, err error) {
	defer observe("select", "preferences", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var genres string
	err = db.conn.QueryRowContext(ctx,
		`SELECT genres, content_rating, language FROM preferences WHERE user_id = ?`, userID,
	).Scan(&genres, &prefs.ContentRating, &prefs.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.Preferences{}, nil
	}
	if err != nil {
		return recommend.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	if prefs.Genres, err = decodeList(genres); err != nil {
		return recommend.Preferences{}, fmt.Errorf("decode preference genres: %w", err)
	}
	return prefs, nil
}

// SetPreferences stores the user's preferences, replacing any previous record.
func (db *DB) SetPreferences(ctx context.Context, userID string, prefs recommend.Preferences) (err error) {
	defer observe("upsert", "preferences", time.Now(), &err)
	genres, err := encodeList(prefs.Genres)
	if err != nil {
		return err
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err = db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO preferences (user_id, genres, content_rating, language) VALUES (?, ?, ?, ?)`,
		userID, genres, prefs.ContentRating, prefs.Language,
	); err != nil {
		return fmt.Errorf("set preferences: %w", err)
	}
	return nil
}

// GetFeedback returns the user's most recent feedback, newest first, with
// catalog metadata joined in when the item is known.
func (db *DB) GetFeedback(ctx context.Context, userID string, limit int) (out []recommend.Feedback, err error) {
	defer observe("select", "feedback", time.Now(), &err)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	// An item id may exist under several kinds; keep one catalog row per
	// feedback entry, preferring the recorded kind.
	q := `SELECT f.user_id, f.item_id, f.signal, f.created_at,
			COALESCE(c.kind, f.media_kind), COALESCE(c.genres, '[]'),
			COALESCE(c.release_year, 0), COALESCE(c.creators, '[]')
		FROM feedback f
		LEFT JOIN catalog_items c ON c.id = f.item_id
			AND (f.media_kind = '' OR c.kind = f.media_kind)
		WHERE f.user_id = ?
		QUALIFY row_number() OVER (PARTITION BY f.id ORDER BY c.popularity DESC NULLS LAST) = 1
		ORDER BY f.created_at DESC, f.id DESC
		LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer closeRows(rows, "feedback")

	out = make([]recommend.Feedback, 0)
	for rows.Next() {
		var (
			fb               recommend.Feedback
			signal, kind     string
			genres, creators string
		)
		if err := rows.Scan(&fb.UserID, &fb.ItemID, &signal, &fb.Timestamp, &kind, &genres, &fb.ReleaseYear, &creators); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		fb.Signal = recommend.FeedbackSignal(signal)
		fb.MediaKind = recommend.MediaKind(kind)
		if fb.Genres, err = decodeList(genres); err != nil {
			return nil, fmt.Errorf("feedback %s genres: %w", fb.ItemID, err)
		}
		if fb.Creators, err = decodeList(creators); err != nil {
			return nil, fmt.Errorf("feedback %s creators: %w", fb.ItemID, err)
		}
		out = append(out, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return out, nil
}

// AppendFeedback records a feedback signal.
func (db *DB) AppendFeedback(ctx context.Context, fb recommend.Feedback) (err error) {
	defer observe("insert", "feedback", time.Now(), &err)
	if fb.UserID == "" || fb.ItemID == "" {
		return errors.New("feedback requires user and item ids")
	}
	if !fb.Signal.Valid() {
		return fmt.Errorf("invalid feedback signal %q", fb.Signal)
	}
	ts := fb.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err = db.conn.ExecContext(ctx,
		`INSERT INTO feedback (user_id, item_id, media_kind, signal, created_at) VALUES (?, ?, ?, ?, ?)`,
		fb.UserID, fb.ItemID, string(fb.MediaKind), string(fb.Signal), ts.UTC(),
	); err != nil {
		return fmt.Errorf("append feedback: %w", err)
	}
	return nil
}

func (db *DB) queryInteractions(ctx context.Context, query string, args ...any) ([]recommend.Interaction, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer closeRows(rows, "interactions")

	out := make([]recommend.Interaction, 0)
	for rows.Next() {
		var (
			in               recommend.Interaction
			kind, mediaKind  string
			genres, creators string
		)
		if err := rows.Scan(&in.UserID, &in.ItemID, &kind, &in.Value, &in.Timestamp, &mediaKind,
			&genres, &in.ReleaseYear, &creators); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.Kind = recommend.InteractionKind(kind)
		in.MediaKind = recommend.MediaKind(mediaKind)
		if in.Genres, err = decodeList(genres); err != nil {
			return nil, fmt.Errorf("interaction %s genres: %w", in.ItemID, err)
		}
		if in.Creators, err = decodeList(creators); err != nil {
			return nil, fmt.Errorf("interaction %s creators: %w", in.ItemID, err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return out, nil
}
