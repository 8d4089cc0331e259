// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/Srijan272002/Kahani-sub000/internal/experiment"
	"github.com/Srijan272002/Kahani-sub000/internal/logging"
	"github.com/Srijan272002/Kahani-sub000/internal/upstream"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/kahani/config.yaml",
	"/etc/kahani/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Logging: logging.DefaultConfig(),
		Database: DatabaseConfig{
			Path:      "/data/kahani.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Cache: CacheConfig{
			Backend:         "memory",
			Capacity:        10000,
			CleanupInterval: time.Minute,
			Redis: RedisConfig{
				KeyPrefix: "kahani:",
				PoolSize:  10,
			},
			Badger: BadgerConfig{
				Path:       "/data/cache",
				GCInterval: 10 * time.Minute,
			},
		},
		Recommend: RecommendConfig{
			ContentWeight:       0.5,
			CollaborativeWeight: 0.3,
			ContextualWeight:    0.2,
			GenreWeight:         0.3,
			RatingWeight:        0.2,
			PopularityWeight:    0.15,
			RecencyWeight:       0.15,
			AffinityWeight:      0.2,
			RecencyHorizonYears: 10,
			Neighbors:           5,
			Similarity:          "cosine",
			MaxMultiplier:       1.1,
			RelevanceThreshold:  0.3,
			HistoryLimit:        100,
			PageSize:            20,
			MaxPageSize:         100,
			ScorerTimeout:       2 * time.Second,
			Timezone:            "UTC",
			CacheEnabled:        true,
			CacheTTL:            10 * time.Minute,
		},
		Upstream: upstream.DefaultConfig(),
		Experiment: experiment.Config{
			Enabled: false,
			Salt:    "kahani",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port, RECOMMEND_NEIGHBORS -> recommend.neighbors
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging mappings
	"log_level":   "logging.level",
	"log_format":  "logging.format",
	"log_caller":  "logging.caller",
	"log_service": "logging.service",

	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_path":         "database.seed_path",

	// Cache mappings
	"cache_backend":          "cache.backend",
	"cache_capacity":         "cache.capacity",
	"cache_cleanup_interval": "cache.cleanup_interval",
	"redis_addr":             "cache.redis.addr",
	"redis_username":         "cache.redis.username",
	"redis_password":         "cache.redis.password",
	"redis_db":               "cache.redis.db",
	"redis_key_prefix":       "cache.redis.key_prefix",
	"redis_pool_size":        "cache.redis.pool_size",
	"badger_path":            "cache.badger.path",
	"badger_sync_writes":     "cache.badger.sync_writes",
	"badger_gc_interval":     "cache.badger.gc_interval",

	// Recommendation engine mappings
	"recommend_content_weight":        "recommend.content_weight",
	"recommend_collaborative_weight":  "recommend.collaborative_weight",
	"recommend_contextual_weight":     "recommend.contextual_weight",
	"recommend_genre_weight":          "recommend.genre_weight",
	"recommend_rating_weight":         "recommend.rating_weight",
	"recommend_popularity_weight":     "recommend.popularity_weight",
	"recommend_recency_weight":        "recommend.recency_weight",
	"recommend_affinity_weight":       "recommend.affinity_weight",
	"recommend_recency_horizon_years": "recommend.recency_horizon_years",
	"recommend_neighbors":             "recommend.neighbors",
	"recommend_similarity":            "recommend.similarity",
	"recommend_max_multiplier":        "recommend.max_multiplier",
	"recommend_relevance_threshold":   "recommend.relevance_threshold",
	"recommend_history_limit":         "recommend.history_limit",
	"recommend_page_size":             "recommend.page_size",
	"recommend_max_page_size":         "recommend.max_page_size",
	"recommend_scorer_timeout":        "recommend.scorer_timeout",
	"recommend_timezone":              "recommend.timezone",
	"recommend_cache_enabled":         "recommend.cache_enabled",
	"recommend_cache_ttl":             "recommend.cache_ttl",

	// Upstream resilience mappings
	"upstream_timeout":              "upstream.timeout",
	"upstream_rate_limit":           "upstream.rate_limit",
	"upstream_rate_burst":           "upstream.rate_burst",
	"upstream_breaker_max_requests": "upstream.breaker.max_requests",
	"upstream_breaker_interval":     "upstream.breaker.interval",
	"upstream_breaker_timeout":      "upstream.breaker.open_timeout",
	"upstream_breaker_failures":     "upstream.breaker.consecutive_failures",
	"upstream_breaker_min_requests": "upstream.breaker.min_requests",
	"upstream_breaker_ratio":        "upstream.breaker.failure_ratio",

	// Experiment mappings
	"experiment_enabled":               "experiment.enabled",
	"experiment_salt":                  "experiment.salt",
	"experiment_rollout_content":       "experiment.rollout.content",
	"experiment_rollout_collaborative": "experiment.rollout.collaborative",
	"experiment_rollout_contextual":    "experiment.rollout.contextual",
	"experiment_rollout_hybrid":        "experiment.rollout.hybrid",

	// Security mappings
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" so random environment variables do not
// pollute the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - REDIS_ADDR -> cache.redis.addr
//   - EXPERIMENT_ROLLOUT_CONTENT -> experiment.rollout.content
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
