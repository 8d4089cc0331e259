// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package cache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

func sampleResults() []recommend.RankedResult {
	return []recommend.RankedResult{
		{
			Item: recommend.CatalogItem{
				ID:            "603",
				Kind:          recommend.KindMovie,
				Title:         "The Matrix",
				Genres:        []string{"Action", "Science Fiction"},
				ReleaseYear:   1999,
				AverageRating: 8.2,
			},
			Score:  0.74,
			Scores: map[recommend.Strategy]float64{recommend.StrategyContent: 0.74},
			Factors: []recommend.Factor{{
				Type:        recommend.FactorGenreMatch,
				Weight:      1,
				Description: "Matches your interest in Action",
			}},
		},
	}
}

func TestResultsRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewResults(NewMemory(MemoryConfig{}), BackendMemory)

	want := sampleResults()
	if err := r.Set(ctx, "rec:u1:movie:hybrid", want, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := r.Get(ctx, "rec:u1:movie:hybrid")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want hit", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}

	// Decoded slices are independent of one another.
	got[0].Score = 0
	again, _, _ := r.Get(ctx, "rec:u1:movie:hybrid")
	if again[0].Score != 0.74 {
		t.Error("cached results mutated through a previous Get")
	}
}

func TestResultsEmptyList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewResults(NewMemory(MemoryConfig{}), BackendMemory)

	_ = r.Set(ctx, "k", nil, time.Minute)
	got, ok, err := r.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want hit", ok, err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Get() = %#v, want empty non-nil slice", got)
	}
}

func TestResultsMiss(t *testing.T) {
	t.Parallel()
	r := NewResults(NewMemory(MemoryConfig{}), BackendMemory)

	got, ok, err := r.Get(context.Background(), "absent")
	if ok || err != nil || got != nil {
		t.Errorf("Get() = %v, %v, %v; want clean miss", got, ok, err)
	}
}

func TestResultsCorruptEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemory(MemoryConfig{})
	r := NewResults(store, BackendMemory)

	_ = store.Set(ctx, "k", []byte("{not json"), time.Minute)

	if _, ok, err := r.Get(ctx, "k"); err == nil || ok {
		t.Fatalf("Get() = %v, %v; want decode error", ok, err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("corrupt entry not deleted")
	}
}

func TestResultsPropagatesStoreErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemory(MemoryConfig{})
	r := NewResults(store, BackendMemory)
	_ = store.Close()

	if _, _, err := r.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() error = %v, want ErrClosed", err)
	}
	if err := r.Set(ctx, "k", sampleResults(), time.Minute); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() error = %v, want ErrClosed", err)
	}
	if err := r.Delete(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Delete() error = %v, want ErrClosed", err)
	}
}
