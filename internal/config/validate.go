// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/cache"
	"github.com/Srijan272002/Kahani-sub000/internal/experiment"
	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
	"github.com/Srijan272002/Kahani-sub000/internal/validation"
)

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// Validate checks struct tags first, then the cross-field rules tags cannot
// express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	if _, err := experiment.NewAssigner(c.Experiment, nil); err != nil {
		return fmt.Errorf("experiment: %w", err)
	}

	// Weight sums, timezone and the remaining engine invariants.
	if _, err := c.EngineConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCache() error {
	switch cache.Backend(c.Cache.Backend) {
	case cache.BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	case cache.BackendBadger:
		if c.Cache.Badger.Path == "" {
			return errors.New("BADGER_PATH is required when CACHE_BACKEND=badger")
		}
	}
	return nil
}

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// HasWildcardCORS reports whether any CORS origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// EngineConfig builds the engine configuration from recommend.DefaultConfig
// with the operator-facing tunables applied, and validates it.
func (c *Config) EngineConfig() (*recommend.Config, error) {
	r := c.Recommend
	ec := recommend.DefaultConfig()

	ec.Fusion = recommend.FusionWeights{
		Content:       r.ContentWeight,
		Collaborative: r.CollaborativeWeight,
		Contextual:    r.ContextualWeight,
	}

	ec.Content.GenreWeight = r.GenreWeight
	ec.Content.RatingWeight = r.RatingWeight
	ec.Content.PopularityWeight = r.PopularityWeight
	ec.Content.RecencyWeight = r.RecencyWeight
	ec.Content.AffinityWeight = r.AffinityWeight
	ec.Content.RecencyHorizonYears = r.RecencyHorizonYears

	ec.Collaborative.Neighbors = r.Neighbors
	ec.Collaborative.Metric = r.Similarity

	ec.Contextual.MaxMultiplier = r.MaxMultiplier
	if r.Timezone != "" {
		loc, err := time.LoadLocation(r.Timezone)
		if err != nil {
			return nil, fmt.Errorf("RECOMMEND_TIMEZONE %q: %w", r.Timezone, err)
		}
		ec.Contextual.Location = loc
	}

	ec.Explain.RelevanceThreshold = r.RelevanceThreshold
	ec.Profile.HistoryLimit = r.HistoryLimit

	ec.Limits.PageSize = r.PageSize
	ec.Limits.MaxPageSize = r.MaxPageSize
	ec.Limits.ScorerTimeout = r.ScorerTimeout
	if c.Upstream.Timeout > 0 {
		ec.Limits.UpstreamTimeout = c.Upstream.Timeout
	}

	ec.Cache.Enabled = r.CacheEnabled && cache.Backend(c.Cache.Backend) != cache.BackendNone
	if r.CacheTTL > 0 {
		ec.Cache.TTL = r.CacheTTL
	}

	if err := ec.Validate(); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return ec, nil
}

// CacheConfig converts the cache section into cache.Config.
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{
		Backend: cache.Backend(c.Cache.Backend),
		Memory: cache.MemoryConfig{
			Capacity:        c.Cache.Capacity,
			CleanupInterval: c.Cache.CleanupInterval,
		},
		Redis: cache.RedisConfig{
			Addr:      c.Cache.Redis.Addr,
			Username:  c.Cache.Redis.Username,
			Password:  c.Cache.Redis.Password,
			DB:        c.Cache.Redis.DB,
			KeyPrefix: c.Cache.Redis.KeyPrefix,
			PoolSize:  c.Cache.Redis.PoolSize,
		},
		Badger: cache.BadgerConfig{
			Path:       c.Cache.Badger.Path,
			SyncWrites: c.Cache.Badger.SyncWrites,
			GCInterval: c.Cache.Badger.GCInterval,
		},
	}
}
