// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockHistory implements HistoryStore for testing.
type mockHistory struct {
	users           map[string][]Interaction
	prefs           map[string]Preferences
	feedback        *mockFeedback
	interactionsErr error
	prefsErr        error
}

func (m *mockHistory) UserExists(_ context.Context, userID string) (bool, error) {
	_, ok := m.users[userID]
	return ok, nil
}

func (m *mockHistory) GetInteractions(_ context.Context, userID string, _ int) ([]Interaction, error) {
	if m.interactionsErr != nil {
		return nil, m.interactionsErr
	}
	history, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUser, userID)
	}
	return history, nil
}

func (m *mockHistory) GetPreferences(_ context.Context, userID string) (Preferences, error) {
	if m.prefsErr != nil {
		return Preferences{}, m.prefsErr
	}
	return m.prefs[userID], nil
}

func (m *mockHistory) GetFeedback(_ context.Context, userID string, _ int) ([]Feedback, error) {
	if m.feedback == nil {
		return nil, nil
	}
	return m.feedback.forUser(userID), nil
}

func (m *mockHistory) GetPeerInteractions(context.Context, string, int) ([]Interaction, error) {
	return nil, nil
}

// mockFeedback implements FeedbackStore for testing.
type mockFeedback struct {
	mu      sync.Mutex
	entries []Feedback
	err     error
}

func (m *mockFeedback) AppendFeedback(_ context.Context, fb Feedback) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, fb)
	return nil
}

func (m *mockFeedback) forUser(userID string) []Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Feedback
	for _, fb := range m.entries {
		if fb.UserID == userID {
			out = append(out, fb)
		}
	}
	return out
}

// mockAssigner implements ExperimentAssigner for testing.
type mockAssigner struct {
	assignments map[string]Strategy
	err         error
}

func (m *mockAssigner) GetAssignment(_ context.Context, userID string) (Strategy, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	s, ok := m.assignments[userID]
	return s, ok, nil
}

// mockCache implements ResultCache for testing.
type mockCache struct {
	mu      sync.Mutex
	entries map[string][]RankedResult
	sets    int
	deleted []string
	getErr  error
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]RankedResult)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]RankedResult, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.entries[key]
	return r, ok, nil
}

func (m *mockCache) Set(_ context.Context, key string, results []RankedResult, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = results
	m.sets++
	return nil
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.deleted = append(m.deleted, keys...)
	return nil
}

func (m *mockCache) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// mockScorer implements Scorer for testing.
type mockScorer struct {
	strategy   Strategy
	candidates []ScoredCandidate
	err        error
	block      bool
	panics     bool
	calls      atomic.Int32
	lastInput  atomic.Pointer[ScoreInput]
}

func (m *mockScorer) Strategy() Strategy { return m.strategy }

//nolint:gocritic // hugeParam: mirrors Scorer
func (m *mockScorer) Score(ctx context.Context, in ScoreInput) ([]ScoredCandidate, error) {
	m.calls.Add(1)
	m.lastInput.Store(&in)
	if m.panics {
		panic("boom")
	}
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.candidates, m.err
}

// testLogger returns a zerolog logger for testing.
func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

var engineNow = time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)

func scored(source Strategy, raws ...float64) []ScoredCandidate {
	out := make([]ScoredCandidate, len(raws))
	for i, raw := range raws {
		out[i] = ScoredCandidate{
			Item:     CatalogItem{ID: fmt.Sprintf("item-%d", i), Kind: KindMovie, RatingCount: 10},
			Source:   source,
			RawScore: raw,
			Factors:  []Factor{{Type: FactorPopularity, Weight: raw, Description: "Popular right now"}},
		}
	}
	return out
}

type testEngine struct {
	*Engine
	history  *mockHistory
	feedback *mockFeedback
	assigner *mockAssigner
	cache    *mockCache
	scorers  map[Strategy]*mockScorer
}

func newTestEngine(t *testing.T, cfg *Config) *testEngine {
	t.Helper()

	fb := &mockFeedback{}
	te := &testEngine{
		history: &mockHistory{
			users: map[string][]Interaction{
				"u1":  {{UserID: "u1", ItemID: "seen", Kind: InteractionRating, Value: 5, MediaKind: KindMovie, Genres: []string{"Action"}}},
				"new": {},
			},
			feedback: fb,
		},
		feedback: fb,
		assigner: &mockAssigner{assignments: map[string]Strategy{}},
		cache:    newMockCache(),
		scorers: map[Strategy]*mockScorer{
			StrategyContent:       {strategy: StrategyContent, candidates: scored(StrategyContent, 0.9, 0.5)},
			StrategyCollaborative: {strategy: StrategyCollaborative, candidates: scored(StrategyCollaborative, 0.2, 0.8, 0.6)},
			StrategyContextual:    {strategy: StrategyContextual, candidates: scored(StrategyContextual, 0.4)},
		},
	}

	engine, err := NewEngine(cfg, Dependencies{
		History:     te.history,
		Feedback:    te.feedback,
		Experiments: te.assigner,
		Cache:       te.cache,
		Clock:       func() time.Time { return engineNow },
	}, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	for _, st := range []Strategy{StrategyContent, StrategyCollaborative, StrategyContextual} {
		engine.RegisterScorer(te.scorers[st])
	}
	te.Engine = engine
	return te
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	invalid := DefaultConfig()
	invalid.Fusion.Content = 0.9

	tests := []struct {
		name    string
		cfg     *Config
		deps    Dependencies
		wantErr bool
	}{
		{"nil config uses defaults", nil, Dependencies{History: &mockHistory{}}, false},
		{"invalid config", invalid, Dependencies{History: &mockHistory{}}, true},
		{"missing history", DefaultConfig(), Dependencies{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine, err := NewEngine(tt.cfg, tt.deps, testLogger())
			if tt.wantErr {
				if err == nil {
					t.Error("NewEngine() = nil error, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEngine() error = %v", err)
			}
			if engine.GetConfig() == nil {
				t.Error("GetConfig() = nil")
			}
		})
	}
}

func TestEngine_RegisterScorer(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)
	want := []Strategy{StrategyContent, StrategyCollaborative, StrategyContextual}
	if got := te.Strategies(); !reflect.DeepEqual(got, want) {
		t.Errorf("Strategies() = %v, want %v", got, want)
	}

	te.RegisterScorer(&mockScorer{strategy: StrategyContent})
	if got := te.Strategies(); len(got) != 3 {
		t.Errorf("re-registering grew the scorer list: %v", got)
	}
}

func TestEngine_Recommend_Hybrid(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)
	resp, err := te.Recommend(context.Background(), Request{UserID: "u1", Kind: KindMovie})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Strategy != StrategyHybrid {
		t.Errorf("Strategy = %s, want hybrid", resp.Strategy)
	}
	if resp.Cached || resp.Degraded != nil {
		t.Errorf("Cached = %v, Degraded = %v", resp.Cached, resp.Degraded)
	}

	// item-0: 0.5*0.9 + 0.3*0.2 + 0.2*0.4 = 0.59
	// item-1: 0.5*0.5 + 0.3*0.8       = 0.49
	// item-2:           0.3*0.6       = 0.18
	wantScores := map[string]float64{"item-0": 0.59, "item-1": 0.49, "item-2": 0.18}
	if resp.Total != 3 || len(resp.Results) != 3 {
		t.Fatalf("Total = %d, len = %d, want 3", resp.Total, len(resp.Results))
	}
	for i, id := range []string{"item-0", "item-1", "item-2"} {
		r := resp.Results[i]
		if r.Item.ID != id {
			t.Errorf("position %d = %s, want %s", i, r.Item.ID, id)
		}
		if math.Abs(r.Score-wantScores[id]) > epsilon {
			t.Errorf("%s score = %v, want %v", id, r.Score, wantScores[id])
		}
	}

	in := te.scorers[StrategyContent].lastInput.Load()
	if in == nil || in.Profile == nil || in.Profile.GenreWeight("action") == 0 {
		t.Error("scorer did not receive the user's profile")
	}
	if !in.Now.Equal(engineNow) {
		t.Errorf("ScoreInput.Now = %v, want engine clock", in.Now)
	}
}

func TestEngine_Recommend_NewUser(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)
	resp, err := te.Recommend(context.Background(), Request{UserID: "new", Kind: KindMovie})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("user with no interactions got no recommendations")
	}
	in := te.scorers[StrategyContent].lastInput.Load()
	if in == nil || !in.Profile.IsEmpty() {
		t.Error("scorer did not receive an empty profile")
	}
}

func TestEngine_Recommend_CacheHit(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)
	req := Request{UserID: "u1", Kind: KindMovie}

	first, err := te.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("first Recommend() error = %v", err)
	}
	second, err := te.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("second Recommend() error = %v", err)
	}

	if first.Cached || !second.Cached {
		t.Errorf("Cached = %v then %v, want false then true", first.Cached, second.Cached)
	}
	if !reflect.DeepEqual(first.Results, second.Results) {
		t.Error("cached results differ from computed results")
	}
	if calls := te.scorers[StrategyContent].calls.Load(); calls != 1 {
		t.Errorf("scorer calls = %d, want 1", calls)
	}
	if _, ok := te.cache.entries[CacheKey("u1", KindMovie, StrategyHybrid)]; !ok {
		t.Error("result not cached under the hybrid key")
	}

	stats := te.GetStats()
	if stats.Requests != 2 || stats.CacheHits != 1 || stats.CacheMisses != 1 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestEngine_Recommend_CacheReadErrorBypasses(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)
	te.cache.getErr = errors.New("redis: connection refused")

	resp, err := te.Recommend(context.Background(), Request{UserID: "u1", Kind: KindMovie})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Cached || len(resp.Results) != 3 {
		t.Errorf("Cached = %v, len = %d", resp.Cached, len(resp.Results))
	}
}

func TestEngine_Recommend_CacheDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	te := newTestEngine(t, cfg)

	for i := 0; i < 2; i++ {
		if _, err := te.Recommend(context.Background(), Request{UserID: "u1", Kind: KindMovie}); err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
	}
	if te.cache.setCount() != 0 {
		t.Errorf("cache writes = %d, want 0", te.cache.setCount())
	}
	if calls := te.scorers[StrategyContent].calls.Load(); calls != 2 {
		t.Errorf("scorer calls = %d, want 2", calls)
	}
}

func TestEngine_Recommend_ExperimentAssignment(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)
	te.assigner.assignments["u1"] = StrategyCollaborative

	resp, err := te.Recommend(context.Background(), Request{UserID: "u1", Kind: KindMovie})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Strategy != StrategyCollaborative {
		t.Fatalf("Strategy = %s, want collaborative", resp.Strategy)
	}

	raw := te.scorers[StrategyCollaborative].candidates
	if len(resp.Results) != len(raw) {
		t.Fatalf("len = %d, want %d", len(resp.Results), len(raw))
	}
	for i := range raw {
		if resp.Results[i].Item.ID != raw[i].Item.ID || resp.Results[i].Score != raw[i].RawScore {
			t.Errorf("result %d = %s/%v, want raw %s/%v",
				i, resp.Results[i].Item.ID, resp.Results[i].Score, raw[i].Item.ID, raw[i].RawScore)
		}
	}
	if te.scorers[StrategyContent].calls.Load() != 0 {
		t.Error("content scorer ran for a collaborative-only request")
	}
	if _, ok := te.cache.entries[CacheKey("u1", KindMovie, StrategyCollaborative)]; !ok {
		t.Error("result not cached under the strategy key")
	}
}

func TestEngine_Recommend_AssignmentFallsBackToHybrid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		assign func(*mockAssigner)
	}{
		{"lookup error", func(a *mockAssigner) { a.err = errors.New("db down") }},
		{"unregistered strategy", func(a *mockAssigner) { a.assignments["u1"] = Strategy("bandit") }},
		{"no assignment", func(a *mockAssigner) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			te := newTestEngine(t, nil)
			tt.assign(te.assigner)

			resp, err := te.Recommend(context.Background(), Request{UserID: "u1", Kind: KindMovie})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if resp.Strategy != StrategyHybrid {
				t.Errorf("Strategy = %s, want hybrid", resp.Strategy)
			}
		})
	}
}

func TestEngine_Recommend_DegradedScorer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		fail       func(*mockScorer)
		wantReason string
	}{
		{"error", func(s *mockScorer) { s.err = ErrUpstreamUnavailable; s.candidates = nil }, "upstream"},
		{"panic", func(s *mockScorer) { s.panics = true }, "panic"},
		{"timeout", func(s *mockScorer) { s.block = true }, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			cfg.Limits.ScorerTimeout = 50 * time.Millisecond
			te := newTestEngine(t, cfg)
			tt.fail(te.scorers[StrategyCollaborative])

			resp, err := te.Recommend(context.Background(), Request{UserID: "u1", Kind: KindMovie})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			reason, ok := resp.Degraded[StrategyCollaborative]
			if !ok {
				t.Fatalf("Degraded = %v, want collaborative entry", resp.Degraded)
			}
			if !strings.Contains(reason, tt.wantReason) {
				t.Errorf("reason = %q, want it to mention %q", reason, tt.wantReason)
			}
			if len(resp.Degraded) != 1 {
				t.Errorf("healthy scorers marked degraded: %v", resp.Degraded)
			}

			// Only content and contextual contribute: item-0 = 0.5*0.9 + 0.2*0.4.
			if len(resp.Results) != 2 || math.Abs(resp.Results[0].Score-0.53) > epsilon {
				t.Errorf("results = %v", resp.Results)
			}
			if te.cache.setCount() != 0 {
				t.Error("degraded result was cached")
			}
			if te.GetStats().Degraded != 1 {
				t.Errorf("Degraded count = %d, want 1", te.GetStats().Degraded)
			}
		})
	}
}

func TestEngine_Recommend_PartialResultsKept(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)
	s := te.scorers[StrategyContextual]
	s.err = errors.New("catalog page 2 failed")

	resp, err := te.Recommend(context.Background(), Request{UserID: "u1", Kind: KindMovie})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if _, ok := resp.Degraded[StrategyContextual]; !ok {
		t.Fatal("contextual not marked degraded")
	}
	if got := resp.Results[0].Scores[StrategyContextual]; got != 0.4 {
		t.Errorf("partial contextual score = %v, want 0.4", got)
	}
}

func TestEngine_Recommend_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     Request
		setup   func(*testEngine)
		wantErr error
	}{
		{"unknown user", Request{UserID: "ghost", Kind: KindMovie}, nil, ErrInvalidUser},
		{"blank user", Request{UserID: "  ", Kind: KindMovie}, nil, ErrInvalidRequest},
		{"bad kind", Request{UserID: "u1", Kind: "podcast"}, nil, ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			te := newTestEngine(t, nil)
			_, err := te.Recommend(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recommend() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngine_Recommend_HistoryUnavailable(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)
	te.history.interactionsErr = ErrUpstreamUnavailable
	te.history.prefsErr = errors.New("timeout")

	resp, err := te.Recommend(context.Background(), Request{UserID: "u1", Kind: KindMovie})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Results) == 0 {
		t.Error("no results with history unavailable")
	}
	if in := te.scorers[StrategyContent].lastInput.Load(); in == nil || !in.Profile.IsEmpty() {
		t.Error("history failure did not fall back to an empty profile")
	}
}

func TestEngine_Recommend_Pagination(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)
	ctx := context.Background()

	p1, err := te.Recommend(ctx, Request{UserID: "u1", Kind: KindMovie, Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("page 1 error = %v", err)
	}
	p2, err := te.Recommend(ctx, Request{UserID: "u1", Kind: KindMovie, Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("page 2 error = %v", err)
	}
	p3, err := te.Recommend(ctx, Request{UserID: "u1", Kind: KindMovie, Page: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("page 3 error = %v", err)
	}

	if len(p1.Results) != 2 || len(p2.Results) != 1 || len(p3.Results) != 0 {
		t.Errorf("page sizes = %d/%d/%d, want 2/1/0", len(p1.Results), len(p2.Results), len(p3.Results))
	}
	if p2.Results[0].Item.ID != "item-2" || p2.Total != 3 {
		t.Errorf("page 2 = %v (total %d)", p2.Results, p2.Total)
	}

	results, err := te.GetRecommendations(ctx, "u1", KindMovie, 1)
	if err != nil || len(results) != 3 {
		t.Errorf("GetRecommendations() = %d results, %v", len(results), err)
	}
}

func TestEngine_RecordFeedback(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)
	ctx := context.Background()

	if _, err := te.Recommend(ctx, Request{UserID: "u1", Kind: KindMovie}); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if err := te.RecordFeedback(ctx, "u1", "item-0", FeedbackNegative); err != nil {
		t.Fatalf("RecordFeedback() error = %v", err)
	}

	if len(te.feedback.entries) != 1 || !te.feedback.entries[0].Timestamp.Equal(engineNow) {
		t.Errorf("feedback entries = %+v", te.feedback.entries)
	}
	if len(te.cache.deleted) != len(AllKinds)*len(AllStrategies) {
		t.Errorf("invalidated %d keys, want %d", len(te.cache.deleted), len(AllKinds)*len(AllStrategies))
	}
	if _, ok := te.cache.entries[CacheKey("u1", KindMovie, StrategyHybrid)]; ok {
		t.Error("cached ranking survived feedback")
	}

	resp, err := te.Recommend(ctx, Request{UserID: "u1", Kind: KindMovie})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Cached {
		t.Error("request after feedback served from cache")
	}
	in := te.scorers[StrategyContent].lastInput.Load()
	if in == nil || !in.Profile.Rejected("item-0") {
		t.Error("feedback not reflected in the next profile")
	}
}

func TestEngine_RecordFeedback_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		userID  string
		itemID  string
		signal  FeedbackSignal
		wantErr error
	}{
		{"unknown user", "ghost", "item-0", FeedbackPositive, ErrInvalidUser},
		{"unknown signal", "u1", "item-0", FeedbackSignal("meh"), ErrInvalidRequest},
		{"missing item", "u1", "", FeedbackPositive, ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			te := newTestEngine(t, nil)
			err := te.RecordFeedback(context.Background(), tt.userID, tt.itemID, tt.signal)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RecordFeedback() error = %v, want %v", err, tt.wantErr)
			}
			if len(te.feedback.entries) != 0 {
				t.Error("rejected feedback was stored")
			}
		})
	}
}

func TestEngine_Explain(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)
	got := te.Explain(RankedResult{Factors: []Factor{
		{Type: FactorGenreMatch, Weight: 0.8, Description: "Matches your interest in Action"},
	}})
	if got.Primary != "Matches your interest in Action" {
		t.Errorf("Primary = %q", got.Primary)
	}
}

func TestEngine_ConcurrentRecommend(t *testing.T) {
	t.Parallel()

	te := newTestEngine(t, nil)

	const goroutines = 10
	const requestsPerGoroutine = 20
	var wg sync.WaitGroup
	errChan := make(chan error, goroutines*requestsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < requestsPerGoroutine; j++ {
				kind := AllKinds[(id+j)%len(AllKinds)]
				if _, err := te.Recommend(context.Background(), Request{UserID: "u1", Kind: kind}); err != nil {
					errChan <- err
				}
			}
		}(i)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		t.Errorf("concurrent Recommend() error: %v", err)
	}
	if got := te.GetStats().Requests; got != goroutines*requestsPerGoroutine {
		t.Errorf("Requests = %d, want %d", got, goroutines*requestsPerGoroutine)
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	keys := make(map[string]struct{})
	for _, kind := range AllKinds {
		for _, st := range AllStrategies {
			keys[CacheKey("u1", kind, st)] = struct{}{}
		}
	}
	if len(keys) != len(AllKinds)*len(AllStrategies) {
		t.Errorf("cache keys collide: %d unique", len(keys))
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)
	if sorted[0] != "rec:u1:book:collaborative" {
		t.Errorf("unexpected key format %q", sorted[0])
	}
}
