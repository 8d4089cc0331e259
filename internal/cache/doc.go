// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

/*
Package cache stores ranked recommendation lists behind pluggable backends.

# Overview

The package provides:
  - Store: a byte-oriented key/value interface with per-entry TTL
  - Memory: a thread-safe in-process LRU map with lazy and periodic expiry
  - Redis: a shared cache using native key expiry (go-redis)
  - Badger: an embedded persistent cache using BadgerDB entry TTL
  - Results: the recommend.ResultCache adapter that encodes lists as JSON

A read of an entry older than its TTL is a miss on every backend. Set always
overwrites. Cache failures are returned to the caller, which logs and
bypasses them; they never fail a recommendation request.

# Keys

Keys are built by recommend.CacheKey:

	rec:{userID}:{kind}:{strategy}

Feedback invalidates every kind and strategy for the user.

# Usage Example

	store, err := cache.New(cache.Config{
	    Backend: cache.BackendRedis,
	    Redis:   cache.RedisConfig{Addr: "localhost:6379", KeyPrefix: "kahani:"},
	})
	if err != nil {
	    return err
	}
	defer store.Close()

	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
	    History: history,
	    Cache:   cache.NewResults(store, cache.BackendRedis),
	}, logger)

# Background Work

Memory and Badger implement suture.Service (Serve/String): Memory sweeps
expired entries and Badger runs value log GC. Both are added to the
supervisor tree at startup.

# Thread Safety

All stores are safe for concurrent use.
*/
package cache
