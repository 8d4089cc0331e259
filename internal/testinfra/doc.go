// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests,
// so cache backends are exercised against the same servers they talk to in production.
// Every file carries the integration build tag; run with:
//
//	go test -tags integration ./...
//
// # Redis Container
//
// RedisContainer provides a disposable Redis server for the shared result cache:
//
//	func TestRedisStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    rc, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, rc)
//
//	    store, err := cache.NewRedis(cache.RedisConfig{Addr: rc.Addr})
//	    // ...
//	}
//
// # CI Considerations
//
// These tests require Docker and network access. Tests are skipped gracefully
// if Docker is unavailable. The first run may need to download container images.
package testinfra
