// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package config

import (
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/experiment"
	"github.com/Srijan272002/Kahani-sub000/internal/logging"
	"github.com/Srijan272002/Kahani-sub000/internal/upstream"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	engineCfg, err := cfg.EngineConfig()
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server     ServerConfig      `koanf:"server"`
	Logging    logging.Config    `koanf:"logging"`
	Database   DatabaseConfig    `koanf:"database"`
	Cache      CacheConfig       `koanf:"cache"`
	Recommend  RecommendConfig   `koanf:"recommend"`
	Upstream   upstream.Config   `koanf:"upstream"`
	Experiment experiment.Config `koanf:"experiment"`
	Security   SecurityConfig    `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Environment     string        `koanf:"environment"` // development, staging, production (default: development)
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file. ":memory:" or empty opens an in-memory database.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"min=0"` // 0 = runtime.NumCPU()

	// SeedPath is an optional JSON seed file loaded at startup.
	SeedPath string `koanf:"seed_path"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend         string        `koanf:"backend" validate:"oneof=memory redis badger none"`
	Capacity        int           `koanf:"capacity" validate:"min=0"`
	CleanupInterval time.Duration `koanf:"cleanup_interval" validate:"min=0"`
	Redis           RedisConfig   `koanf:"redis"`
	Badger          BadgerConfig  `koanf:"badger"`
}

// RedisConfig configures the shared Redis cache.
type RedisConfig struct {
	Addr      string `koanf:"addr" validate:"omitempty,hostname_port"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db" validate:"min=0,max=15"`
	KeyPrefix string `koanf:"key_prefix"`
	PoolSize  int    `koanf:"pool_size" validate:"min=0"`
}

// BadgerConfig configures the embedded persistent cache.
type BadgerConfig struct {
	Path       string        `koanf:"path"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval" validate:"min=0"`
}

// RecommendConfig exposes the engine tunables operators are expected to
// change. Everything else keeps recommend.DefaultConfig values.
type RecommendConfig struct {
	// Fusion weights (must sum to 1.0)
	ContentWeight       float64 `koanf:"content_weight" validate:"gte=0,lte=1"`
	CollaborativeWeight float64 `koanf:"collaborative_weight" validate:"gte=0,lte=1"`
	ContextualWeight    float64 `koanf:"contextual_weight" validate:"gte=0,lte=1"`

	// Content scorer weights (must sum to 1.0)
	GenreWeight      float64 `koanf:"genre_weight" validate:"gte=0,lte=1"`
	RatingWeight     float64 `koanf:"rating_weight" validate:"gte=0,lte=1"`
	PopularityWeight float64 `koanf:"popularity_weight" validate:"gte=0,lte=1"`
	RecencyWeight    float64 `koanf:"recency_weight" validate:"gte=0,lte=1"`
	AffinityWeight   float64 `koanf:"affinity_weight" validate:"gte=0,lte=1"`

	RecencyHorizonYears float64 `koanf:"recency_horizon_years" validate:"gt=0"`
	Neighbors           int     `koanf:"neighbors" validate:"min=1,max=100"`
	Similarity          string  `koanf:"similarity" validate:"oneof=cosine pearson"`
	MaxMultiplier       float64 `koanf:"max_multiplier" validate:"gte=1,lte=2"`
	RelevanceThreshold  float64 `koanf:"relevance_threshold" validate:"gte=0,lte=1"`
	HistoryLimit        int     `koanf:"history_limit" validate:"min=1,max=10000"`

	PageSize      int           `koanf:"page_size" validate:"min=1"`
	MaxPageSize   int           `koanf:"max_page_size" validate:"gtefield=PageSize"`
	ScorerTimeout time.Duration `koanf:"scorer_timeout" validate:"gt=0"`

	// Timezone is the IANA zone used for time-of-day buckets.
	Timezone string `koanf:"timezone"`

	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheTTL     time.Duration `koanf:"cache_ttl" validate:"min=0"`
}

// SecurityConfig holds HTTP edge settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}
