// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

/*
Package main is the entry point for the Kahani recommendation server.

Kahani ranks movies and TV shows for a user by fusing a content-based, a
collaborative and a contextual scorer, and serves the ranked pages over a
small JSON API.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("kahani")
	├── DataSupervisor ("data-layer")
	│   └── Result cache maintenance (memory sweeper or Badger value-log GC)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB catalog, history, feedback and experiment tables
 4. Upstream guards: rate limiter and circuit breaker per data source
 5. Result cache: memory, Redis, Badger or none
 6. Engine: content, collaborative and contextual scorers plus hybrid fusion
 7. HTTP Server: Chi router with middleware stack
 8. Supervisor Tree: Suture v4 process supervision

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	HTTP_PORT=8080               # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	DUCKDB_PATH=/data/kahani.duckdb
	SEED_PATH=/data/seed.json    # optional startup seed
	CACHE_BACKEND=memory         # memory, redis, badger or none
	REDIS_ADDR=redis:6379
	EXPERIMENT_ENABLED=false

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM: the HTTP server
drains in-flight requests within HTTP_SHUTDOWN_TIMEOUT, then the cache and the
database are closed.
*/
package main
