// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("cache: store closed")

// Store is a byte-oriented key/value store with per-entry TTL. All backends
// implement it; Results layers recommendation encoding on top.
type Store interface {
	// Get returns the value for key. A missing or expired key reports false
	// with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, overwriting any existing entry. A
	// non-positive ttl leaves the key absent.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Close releases backend resources.
	Close() error
}

// Pinger is implemented by backends with a remote dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend names a Store implementation.
type Backend string

const (
	// BackendMemory is the in-process LRU/TTL map (default).
	BackendMemory Backend = "memory"

	// BackendRedis shares the cache across replicas.
	BackendRedis Backend = "redis"

	// BackendBadger persists the cache on local disk across restarts.
	BackendBadger Backend = "badger"

	// BackendNone disables result caching.
	BackendNone Backend = "none"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is the implementation to use.
	Backend Backend

	// Memory configures BackendMemory.
	Memory MemoryConfig

	// Redis configures BackendRedis.
	Redis RedisConfig

	// Badger configures BackendBadger.
	Badger BadgerConfig
}

// New creates the configured store. BackendNone returns a nil Store and a nil
// error; callers treat that as "caching disabled".
//
//nolint:gocritic // hugeParam: config is read once at startup
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory(cfg.Memory), nil
	case BackendRedis:
		r, err := NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return r, nil
	case BackendBadger:
		b, err := OpenBadger(cfg.Badger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
