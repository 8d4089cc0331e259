// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// CatalogPageSize is the number of items per ListPopular page.
const CatalogPageSize = 20

// maxSearchResults caps Search.
const maxSearchResults = 50

const catalogColumns = `id, kind, title, genres, release_year, creators,
	average_rating, rating_count, popularity, language, content_rating`

// ListPopular returns the page-th page (1-based) of the most popular items of
// the given kind. Pages below 1 are treated as 1.
func (db *DB) ListPopular(ctx context.Context, kind recommend.MediaKind, page int) (items []recommend.CatalogItem, err error) {
	defer observe("list_popular", "catalog_items", time.Now(), &err)
	if page < 1 {
		page = 1
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + catalogColumns + ` FROM catalog_items
		WHERE kind = ?
		ORDER BY popularity DESC, id ASC
		LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, string(kind), CatalogPageSize, (page-1)*CatalogPageSize)
}

// Search matches the query against titles and creators, case-insensitively.
// An empty query returns no items.
func (db *DB) Search(ctx context.Context, kind recommend.MediaKind, query string) (items []recommend.CatalogItem, err error) {
	defer observe("search", "catalog_items", time.Now(), &err)
	query = strings.TrimSpace(query)
	if query == "" {
		return []recommend.CatalogItem{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	q := `SELECT ` + catalogColumns + ` FROM catalog_items
		WHERE kind = ?
		  AND (lower(title) LIKE ? ESCAPE '\' OR lower(creators) LIKE ? ESCAPE '\')
		ORDER BY popularity DESC, id ASC
		LIMIT ?`
	return db.queryItems(ctx, q, string(kind), pattern, pattern, maxSearchResults)
}

// ByGenre returns up to limit items tagged with genre, most popular first.
func (db *DB) ByGenre(ctx context.Context, kind recommend.MediaKind, genre string, limit int) (items []recommend.CatalogItem, err error) {
	defer observe("by_genre", "catalog_items", time.Now(), &err)
	genre = strings.ToLower(strings.TrimSpace(genre))
	if genre == "" || limit <= 0 {
		return []recommend.CatalogItem{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	// Genres are stored as a JSON array, so an exact element match is a
	// quoted substring match.
	encoded, err := json.Marshal(genre)
	if err != nil {
		return nil, fmt.Errorf("encode genre: %w", err)
	}
	pattern := "%" + escapeLike(string(encoded)) + "%"
	q := `SELECT ` + catalogColumns + ` FROM catalog_items
		WHERE kind = ? AND lower(genres) LIKE ? ESCAPE '\'
		ORDER BY popularity DESC, id ASC
		LIMIT ?`
	return db.queryItems(ctx, q, string(kind), pattern, limit)
}

// GetByIDs returns the items with the given ids, most popular first.
// Unknown ids are skipped.
func (db *DB) GetByIDs(ctx context.Context, ids []string) (items []recommend.CatalogItem, err error) {
	defer observe("get_by_ids", "catalog_items", time.Now(), &err)
	if len(ids) == 0 {
		return []recommend.CatalogItem{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := `SELECT ` + catalogColumns + ` FROM catalog_items
		WHERE id IN (` + placeholders + `)
		ORDER BY popularity DESC, id ASC, kind ASC`
	return db.queryItems(ctx, q, args...)
}

// UpsertItems inserts or replaces catalog items in one transaction.
func (db *DB) UpsertItems(ctx context.Context, items []recommend.CatalogItem) (err error) {
	defer observe("upsert", "catalog_items", time.Now(), &err)
	if len(items) == 0 {
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

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO catalog_items (`+catalogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range items {
		it := &items[i]
		if it.ID == "" || !it.Kind.Valid() {
			return fmt.Errorf("catalog item %d: id and a valid kind are required", i)
		}
		genres, err := encodeList(it.Genres)
		if err != nil {
			return err
		}
		creators, err := encodeList(it.Creators)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			it.ID, string(it.Kind), it.Title, genres, it.ReleaseYear, creators,
			it.AverageRating, it.RatingCount, it.Popularity, it.Language, it.ContentRating,
		); err != nil {
			return fmt.Errorf("upsert item %s: %w", it.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]recommend.CatalogItem, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer closeRows(rows, "catalog_items")

	items := make([]recommend.CatalogItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	return items, nil
}

func scanItem(rows *sql.Rows) (recommend.CatalogItem, error) {
	var (
		item             recommend.CatalogItem
		kind             string
		genres, creators string
	)
	if err := rows.Scan(
		&item.ID, &kind, &item.Title, &genres, &item.ReleaseYear, &creators,
		&item.AverageRating, &item.RatingCount, &item.Popularity, &item.Language, &item.ContentRating,
	); err != nil {
		return item, fmt.Errorf("scan catalog item: %w", err)
	}
	item.Kind = recommend.MediaKind(kind)

	var err error
	if item.Genres, err = decodeList(genres); err != nil {
		return item, fmt.Errorf("item %s genres: %w", item.ID, err)
	}
	if item.Creators, err = decodeList(creators); err != nil {
		return item, fmt.Errorf("item %s creators: %w", item.ID, err)
	}
	return item, nil
}

// encodeList stores a string list as a JSON array.
func encodeList(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	if raw == "" || raw == "[]" || raw == "null" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// escapeLike escapes LIKE wildcards with a backslash.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
