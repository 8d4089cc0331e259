// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/Srijan272002/Kahani-sub000/internal/metrics"
	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// Results adapts a Store to recommend.ResultCache, encoding ranked lists as
// JSON. Every Get returns a freshly decoded slice, so callers never share
// cached state.
type Results struct {
	store   Store
	backend string
}

var _ recommend.ResultCache = (*Results)(nil)

// cachedResults is the stored envelope.
type cachedResults struct {
	CreatedAt time.Time                `json:"created_at"`
	Results   []recommend.RankedResult `json:"results"`
}

// NewResults wraps store. backend labels error metrics.
func NewResults(store Store, backend Backend) *Results {
	return &Results{store: store, backend: string(backend)}
}

// Get implements recommend.ResultCache. An undecodable entry is deleted and
// reported as an error.
func (r *Results) Get(ctx context.Context, key string) ([]recommend.RankedResult, bool, error) {
	data, ok, err := r.store.Get(ctx, key)
	if err != nil {
		metrics.RecordCacheError(r.backend, "get")
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	var entry cachedResults
	if err := json.Unmarshal(data, &entry); err != nil {
		metrics.RecordCacheError(r.backend, "decode")
		_ = r.store.Delete(ctx, key)
		return nil, false, fmt.Errorf("decode cached results: %w", err)
	}
	if entry.Results == nil {
		entry.Results = []recommend.RankedResult{}
	}
	return entry.Results, true, nil
}

// Set implements recommend.ResultCache.
func (r *Results) Set(ctx context.Context, key string, results []recommend.RankedResult, ttl time.Duration) error {
	data, err := json.Marshal(cachedResults{CreatedAt: time.Now().UTC(), Results: results})
	if err != nil {
		metrics.RecordCacheError(r.backend, "encode")
		return fmt.Errorf("encode results: %w", err)
	}
	if err := r.store.Set(ctx, key, data, ttl); err != nil {
		metrics.RecordCacheError(r.backend, "set")
		return err
	}
	return nil
}

// Delete implements recommend.ResultCache.
func (r *Results) Delete(ctx context.Context, keys ...string) error {
	if err := r.store.Delete(ctx, keys...); err != nil {
		metrics.RecordCacheError(r.backend, "delete")
		return err
	}
	return nil
}
