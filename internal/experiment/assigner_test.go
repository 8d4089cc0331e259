// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package experiment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Srijan272002/Kahani-sub000/internal/metrics"
	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

type fakeStore struct {
	assignments map[string]recommend.Strategy
	err         error
	calls       int
}

func (f *fakeStore) GetAssignment(_ context.Context, userID string) (recommend.Strategy, bool, error) {
	f.calls++
	if f.err != nil {
		return "", false, f.err
	}
	s, ok := f.assignments[userID]
	return s, ok, nil
}

func TestNewAssigner_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "empty", cfg: Config{}},
		{name: "valid rollout", cfg: Config{Rollout: map[string]float64{"content": 50, "collaborative": 50}}},
		{name: "thirds", cfg: Config{Rollout: map[string]float64{"content": 33.33, "collaborative": 33.33, "contextual": 33.34}}},
		{name: "unknown override", cfg: Config{Overrides: map[string]string{"u1": "random"}}, wantErr: recommend.ErrUnknownStrategy},
		{name: "unknown rollout", cfg: Config{Rollout: map[string]float64{"bandit": 10}}, wantErr: recommend.ErrUnknownStrategy},
		{name: "over 100", cfg: Config{Rollout: map[string]float64{"content": 60, "contextual": 50}}, wantErr: errAny},
		{name: "negative", cfg: Config{Rollout: map[string]float64{"content": -1}}, wantErr: errAny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewAssigner(tt.cfg, nil)
			switch {
			case tt.wantErr == nil && err != nil:
				t.Errorf("NewAssigner() error = %v", err)
			case tt.wantErr == errAny && err == nil:
				t.Error("NewAssigner() expected error")
			case tt.wantErr != nil && tt.wantErr != errAny && !errors.Is(err, tt.wantErr):
				t.Errorf("NewAssigner() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

var errAny = errors.New("any error")

func TestGetAssignment_Disabled(t *testing.T) {
	t.Parallel()

	store := &fakeStore{assignments: map[string]recommend.Strategy{"u1": recommend.StrategyContent}}
	a, err := NewAssigner(Config{Enabled: false, Overrides: map[string]string{"u1": "content"}}, store)
	if err != nil {
		t.Fatal(err)
	}
	s, ok, err := a.GetAssignment(context.Background(), "u1")
	if err != nil || ok || s != "" {
		t.Errorf("GetAssignment() = %q, %v, %v; want no assignment", s, ok, err)
	}
	if store.calls != 0 {
		t.Errorf("store consulted %d times while disabled", store.calls)
	}
}

func TestGetAssignment_ResolutionOrder(t *testing.T) {
	t.Parallel()

	store := &fakeStore{assignments: map[string]recommend.Strategy{
		"pinned":  recommend.StrategyContextual,
		"persist": recommend.StrategyCollaborative,
	}}
	a, err := NewAssigner(Config{
		Enabled:   true,
		Salt:      "test",
		Overrides: map[string]string{"pinned": "Content"},
		Rollout:   map[string]float64{"contextual": 100},
	}, store)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		user string
		want recommend.Strategy
	}{
		{"pinned", recommend.StrategyContent},
		{"persist", recommend.StrategyCollaborative},
		{"someone-else", recommend.StrategyContextual},
	}
	for _, tt := range tests {
		s, ok, err := a.GetAssignment(context.Background(), tt.user)
		if err != nil || !ok {
			t.Fatalf("GetAssignment(%q) = %q, %v, %v", tt.user, s, ok, err)
		}
		if s != tt.want {
			t.Errorf("GetAssignment(%q) = %q, want %q", tt.user, s, tt.want)
		}
	}
}

func TestGetAssignment_StoreErrorFallsBackToRollout(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: errors.New("db down")}
	a, err := NewAssigner(Config{Enabled: true, Rollout: map[string]float64{"content": 100}}, store)
	if err != nil {
		t.Fatal(err)
	}
	s, ok, err := a.GetAssignment(context.Background(), "u1")
	if err != nil || !ok || s != recommend.StrategyContent {
		t.Errorf("GetAssignment() = %q, %v, %v; want content from rollout", s, ok, err)
	}
}

func TestGetAssignment_CancelledContext(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: context.Canceled}
	a, err := NewAssigner(Config{Enabled: true}, store)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := a.GetAssignment(ctx, "u1"); !errors.Is(err, context.Canceled) {
		t.Errorf("GetAssignment() error = %v, want context.Canceled", err)
	}
}

func TestGetAssignment_NoAssignment(t *testing.T) {
	t.Parallel()

	a, err := NewAssigner(Config{Enabled: true}, &fakeStore{})
	if err != nil {
		t.Fatal(err)
	}
	before := testutil.ToFloat64(metrics.ExperimentAssignments.WithLabelValues("hybrid", SourceDefault))
	s, ok, err := a.GetAssignment(context.Background(), "u1")
	if err != nil || ok || s != "" {
		t.Errorf("GetAssignment() = %q, %v, %v; want none", s, ok, err)
	}
	if after := testutil.ToFloat64(metrics.ExperimentAssignments.WithLabelValues("hybrid", SourceDefault)); after <= before {
		t.Errorf("default assignment not counted: before=%v after=%v", before, after)
	}
}

func TestRollout_DeterministicAndProportional(t *testing.T) {
	t.Parallel()

	a, err := NewAssigner(Config{
		Enabled: true,
		Salt:    "spring",
		Rollout: map[string]float64{"content": 25, "collaborative": 25},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	const users = 4000
	counts := make(map[recommend.Strategy]int)
	for i := 0; i < users; i++ {
		id := fmt.Sprintf("user-%d", i)
		first, ok1, _ := a.GetAssignment(context.Background(), id)
		second, ok2, _ := a.GetAssignment(context.Background(), id)
		if first != second || ok1 != ok2 {
			t.Fatalf("user %s flipped: %q then %q", id, first, second)
		}
		if !ok1 {
			first = recommend.StrategyHybrid
		}
		counts[first]++
	}

	for _, s := range []recommend.Strategy{recommend.StrategyContent, recommend.StrategyCollaborative} {
		share := float64(counts[s]) / users
		if share < 0.20 || share > 0.30 {
			t.Errorf("%s share = %.3f, want about 0.25", s, share)
		}
	}
	if share := float64(counts[recommend.StrategyHybrid]) / users; share < 0.45 || share > 0.55 {
		t.Errorf("hybrid share = %.3f, want about 0.50", share)
	}
}

func TestBucket_SaltChangesBuckets(t *testing.T) {
	t.Parallel()

	a1, _ := NewAssigner(Config{Salt: "a"}, nil)
	a2, _ := NewAssigner(Config{Salt: "b"}, nil)

	same := 0
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("u%d", i)
		b := a1.Bucket(id)
		if b >= buckets {
			t.Fatalf("Bucket(%q) = %d, out of range", id, b)
		}
		if b == a2.Bucket(id) {
			same++
		}
	}
	if same > 5 {
		t.Errorf("%d of 100 users kept their bucket after a salt change", same)
	}
}
