// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

/*
Package config provides centralized configuration management for Kahani.

# Configuration Sources

Configuration is layered with Koanf v2, later layers winning:
  - Built-in defaults (defaultConfig)
  - An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/kahani/config.yaml
  - Environment variables, through an explicit name mapping

Unmapped environment variables are ignored.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 8080)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging or production

Logging:
  - LOG_LEVEL, LOG_FORMAT (json or console), LOG_CALLER

Database:
  - DUCKDB_PATH (default: /data/kahani.duckdb), DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - SEED_PATH: JSON catalog and history seed loaded at startup

Cache:
  - CACHE_BACKEND: memory, redis, badger or none (default: memory)
  - CACHE_CAPACITY, CACHE_CLEANUP_INTERVAL
  - REDIS_ADDR, REDIS_USERNAME, REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX, REDIS_POOL_SIZE
  - BADGER_PATH, BADGER_SYNC_WRITES, BADGER_GC_INTERVAL

Recommendation engine:
  - RECOMMEND_CONTENT_WEIGHT, RECOMMEND_COLLABORATIVE_WEIGHT, RECOMMEND_CONTEXTUAL_WEIGHT
  - RECOMMEND_GENRE_WEIGHT, RECOMMEND_RATING_WEIGHT, RECOMMEND_POPULARITY_WEIGHT,
    RECOMMEND_RECENCY_WEIGHT, RECOMMEND_AFFINITY_WEIGHT
  - RECOMMEND_NEIGHBORS, RECOMMEND_SIMILARITY (cosine or pearson)
  - RECOMMEND_TIMEZONE, RECOMMEND_SCORER_TIMEOUT, RECOMMEND_CACHE_TTL

Upstream resilience:
  - UPSTREAM_TIMEOUT, UPSTREAM_RATE_LIMIT, UPSTREAM_RATE_BURST
  - UPSTREAM_BREAKER_FAILURES, UPSTREAM_BREAKER_TIMEOUT, UPSTREAM_BREAKER_RATIO

Experiments:
  - EXPERIMENT_ENABLED, EXPERIMENT_SALT
  - EXPERIMENT_ROLLOUT_CONTENT, EXPERIMENT_ROLLOUT_COLLABORATIVE, EXPERIMENT_ROLLOUT_CONTEXTUAL
  - Per-user overrides are only available from the YAML file (experiment.overrides)

Security:
  - CORS_ORIGINS: comma-separated list (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

# Validation

Load validates struct tags with go-playground/validator, then checks rules
that span fields: fusion weights and content weights must each sum to 1.0,
the timezone must resolve, the selected cache backend must be addressable and
experiment rollout percentages must name known strategies and not exceed 100.
*/
package config
