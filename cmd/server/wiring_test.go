// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/Srijan272002/Kahani-sub000/internal/cache"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeGuard struct{ name, state string }

func (g fakeGuard) Name() string  { return g.name }
func (g fakeGuard) State() string { return g.state }

func TestReadinessChecks(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("db down")
	guards := []guardState{
		fakeGuard{name: "catalog", state: "closed"},
		fakeGuard{name: "history", state: "open"},
	}

	checks := readinessChecks(fakePinger{err: dbErr}, guards, nil)
	if len(checks) != 3 {
		t.Fatalf("len(checks) = %d, want 3", len(checks))
	}

	ctx := context.Background()
	if !checks[0].Critical || checks[0].Name != "database" {
		t.Errorf("checks[0] = %+v, want critical database check", checks[0])
	}
	if err := checks[0].Check(ctx); !errors.Is(err, dbErr) {
		t.Errorf("database check error = %v, want %v", err, dbErr)
	}

	if checks[1].Critical || checks[1].Name != "breaker_catalog" {
		t.Errorf("checks[1] = %+v, want non-critical breaker_catalog", checks[1])
	}
	if err := checks[1].Check(ctx); err != nil {
		t.Errorf("closed breaker check error = %v", err)
	}
	if err := checks[2].Check(ctx); err == nil {
		t.Error("open breaker check should fail")
	}
}

func TestReadinessChecks_CacheBackends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		store     cache.Store
		wantCheck bool
	}{
		{name: "disabled", store: nil, wantCheck: false},
		{name: "memory", store: cache.NewMemory(cache.MemoryConfig{Capacity: 10}), wantCheck: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			checks := readinessChecks(fakePinger{}, nil, tt.store)
			hasCache := false
			for _, c := range checks {
				if c.Name == "cache" {
					hasCache = true
				}
			}
			if hasCache != tt.wantCheck {
				t.Errorf("cache check present = %v, want %v", hasCache, tt.wantCheck)
			}
		})
	}
}
