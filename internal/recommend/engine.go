// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages. Storage,
// caching and metrics are reached through the interfaces in interfaces.go and
// the Recorder below.

// Recorder receives engine events for metrics. All methods must be cheap and
// safe for concurrent use.
type Recorder interface {
	RecordRequest(strategy Strategy, outcome string, d time.Duration)
	RecordScorer(o Outcome)
	RecordCache(hit bool)
	RecordFeedback(signal FeedbackSignal)
}

type nopRecorder struct{}

func (nopRecorder) RecordRequest(Strategy, string, time.Duration) {}
func (nopRecorder) RecordScorer(Outcome)                          {}
func (nopRecorder) RecordCache(bool)                              {}
func (nopRecorder) RecordFeedback(FeedbackSignal)                 {}

// Dependencies are the collaborators injected into the engine.
// History is required; everything else is optional.
type Dependencies struct {
	// History reads interactions, preferences and feedback.
	History HistoryStore

	// Feedback persists feedback signals. RecordFeedback fails without it.
	Feedback FeedbackStore

	// Experiments resolves strategy assignments. Nil means always hybrid.
	Experiments ExperimentAssigner

	// Cache stores ranked lists. Nil disables caching.
	Cache ResultCache

	// Recorder receives metrics events. Nil discards them.
	Recorder Recorder

	// Clock returns the current time. Nil means time.Now.
	Clock func() time.Time
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Requests    int64 `json:"requests"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Degraded    int64 `json:"degraded"`
	Errors      int64 `json:"errors"`
}

// Engine coordinates profile building, scorers, fusion and caching.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	history     HistoryStore
	feedback    FeedbackStore
	experiments ExperimentAssigner
	cache       ResultCache
	recorder    Recorder
	now         func() time.Time

	profiles  *ProfileBuilder
	explainer *Explainer

	scorers map[Strategy]Scorer
	order   []Strategy
	mu      sync.RWMutex

	requestCount  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	degradedCount atomic.Int64
	errorCount    atomic.Int64
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.History == nil {
		return nil, errors.New("history store is required")
	}

	e := &Engine{
		config:      cfg,
		logger:      logger.With().Str("component", "recommend").Logger(),
		history:     deps.History,
		feedback:    deps.Feedback,
		experiments: deps.Experiments,
		cache:       deps.Cache,
		recorder:    deps.Recorder,
		now:         deps.Clock,
		profiles:    NewProfileBuilder(cfg.Profile),
		explainer:   NewExplainer(cfg.Explain),
		scorers:     make(map[Strategy]Scorer),
	}
	if e.recorder == nil {
		e.recorder = nopRecorder{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// RegisterScorer adds a scorer. A later registration for the same strategy
// replaces the earlier one.
func (e *Engine) RegisterScorer(s Scorer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := s.Strategy()
	if _, exists := e.scorers[st]; !exists {
		e.order = append(e.order, st)
	}
	e.scorers[st] = s
	e.logger.Info().
		Str("strategy", string(st)).
		Msg("registered scorer")
}

// Strategies returns the registered strategies in registration order.
func (e *Engine) Strategies() []Strategy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Strategy(nil), e.order...)
}

// GetRecommendations returns the page-th page of recommendations for a user.
func (e *Engine) GetRecommendations(ctx context.Context, userID string, kind MediaKind, page int) ([]RankedResult, error) {
	resp, err := e.Recommend(ctx, Request{UserID: userID, Kind: kind, Page: page})
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Recommend runs a full recommendation request.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req, err := e.prepareRequest(req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	strategy := e.resolveStrategy(ctx, req.UserID)
	logger := e.logger.With().
		Str("user_id", req.UserID).
		Str("kind", string(req.Kind)).
		Str("strategy", string(strategy)).
		Logger()
	logger.Debug().Msg("processing recommendation request")

	key := CacheKey(req.UserID, req.Kind, strategy)
	if cached, ok := e.tryGetCached(ctx, key, logger); ok {
		e.recorder.RecordRequest(strategy, "cached", time.Since(start))
		return e.buildResponse(req, strategy, cached, true, nil), nil
	}

	profile, err := e.buildProfile(ctx, req.UserID, logger)
	if err != nil {
		e.errorCount.Add(1)
		e.recorder.RecordRequest(strategy, "error", time.Since(start))
		return nil, err
	}

	in := ScoreInput{UserID: req.UserID, Kind: req.Kind, Profile: profile, Now: req.Now}
	outcomes := e.runScorers(ctx, e.scorersFor(strategy), in)

	var ranked []RankedResult
	degraded := make(map[Strategy]string)
	for i := range outcomes {
		if outcomes[i].Degraded {
			degraded[outcomes[i].Strategy] = outcomes[i].Reason
		}
	}

	if strategy == StrategyHybrid {
		ranked = Fuse(outcomes, e.config.Fusion)
	} else if len(outcomes) > 0 {
		ranked = FromCandidates(outcomes[0].Candidates)
	}
	if e.config.Limits.MaxResults > 0 && len(ranked) > e.config.Limits.MaxResults {
		ranked = ranked[:e.config.Limits.MaxResults]
	}
	if ranked == nil {
		ranked = []RankedResult{}
	}

	if len(degraded) == 0 {
		e.storeCached(ctx, key, ranked, logger)
	} else {
		e.degradedCount.Add(1)
	}

	outcome := "ok"
	if len(degraded) > 0 {
		outcome = "degraded"
	}
	e.recorder.RecordRequest(strategy, outcome, time.Since(start))

	logger.Debug().
		Int("ranked", len(ranked)).
		Int("degraded", len(degraded)).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")

	return e.buildResponse(req, strategy, ranked, false, degraded), nil
}

// Explain returns the explanation for a ranked result.
//
//nolint:gocritic // RankedResult passed by value to mirror Explainer.Explain
func (e *Engine) Explain(r RankedResult) Explanation {
	return e.explainer.Explain(r)
}

// RecordFeedback stores a feedback signal and invalidates the user's cached
// rankings. The signal only affects later profile builds.
func (e *Engine) RecordFeedback(ctx context.Context, userID, itemID string, signal FeedbackSignal) error {
	userID = strings.TrimSpace(userID)
	itemID = strings.TrimSpace(itemID)
	if userID == "" || itemID == "" {
		return fmt.Errorf("%w: user id and item id are required", ErrInvalidRequest)
	}
	if !signal.Valid() {
		return fmt.Errorf("%w: unknown feedback signal %q", ErrInvalidRequest, signal)
	}
	if e.feedback == nil {
		return errors.New("feedback store not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, e.config.Limits.UpstreamTimeout)
	exists, err := e.history.UserExists(callCtx, userID)
	cancel()
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrInvalidUser, userID)
	}

	fb := Feedback{UserID: userID, ItemID: itemID, Signal: signal, Timestamp: e.now()}
	if err := e.feedback.AppendFeedback(ctx, fb); err != nil {
		return fmt.Errorf("append feedback: %w", err)
	}
	e.recorder.RecordFeedback(signal)
	e.invalidateUser(ctx, userID)

	e.logger.Debug().
		Str("user_id", userID).
		Str("item_id", itemID).
		Str("signal", string(signal)).
		Msg("feedback recorded")
	return nil
}

// GetStats returns a snapshot of the engine counters.
func (e *Engine) GetStats() Stats {
	return Stats{
		Requests:    e.requestCount.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
		Degraded:    e.degradedCount.Load(),
		Errors:      e.errorCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// CacheKey builds the result cache key for a user, kind and strategy.
func CacheKey(userID string, kind MediaKind, strategy Strategy) string {
	return fmt.Sprintf("rec:%s:%s:%s", userID, kind, strategy)
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) (Request, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return req, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if !req.Kind.Valid() {
		return req, fmt.Errorf("%w: unsupported media kind %q", ErrInvalidRequest, req.Kind)
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = e.config.Limits.PageSize
	}
	if req.PageSize > e.config.Limits.MaxPageSize {
		req.PageSize = e.config.Limits.MaxPageSize
	}
	if req.Now.IsZero() {
		req.Now = e.now()
	}
	return req, nil
}

// resolveStrategy looks up the user's experiment bucket. Lookup failures and
// strategies without a registered scorer fall back to hybrid.
func (e *Engine) resolveStrategy(ctx context.Context, userID string) Strategy {
	if e.experiments == nil {
		return StrategyHybrid
	}

	callCtx, cancel := context.WithTimeout(ctx, e.config.Limits.UpstreamTimeout)
	defer cancel()

	strategy, ok, err := e.experiments.GetAssignment(callCtx, userID)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("experiment assignment failed, using hybrid")
		return StrategyHybrid
	}
	if !ok || strategy == "" || strategy == StrategyHybrid {
		return StrategyHybrid
	}

	e.mu.RLock()
	_, registered := e.scorers[strategy]
	e.mu.RUnlock()
	if !registered {
		e.logger.Warn().
			Str("user_id", userID).
			Str("strategy", string(strategy)).
			Msg("assigned strategy has no scorer, using hybrid")
		return StrategyHybrid
	}
	return strategy
}

func (e *Engine) scorersFor(strategy Strategy) []Scorer {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if strategy != StrategyHybrid {
		if s, ok := e.scorers[strategy]; ok {
			return []Scorer{s}
		}
		return nil
	}

	out := make([]Scorer, 0, len(e.order))
	for _, st := range e.order {
		out = append(out, e.scorers[st])
	}
	return out
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) tryGetCached(ctx context.Context, key string, logger zerolog.Logger) ([]RankedResult, bool) {
	if e.cache == nil || !e.config.Cache.Enabled {
		return nil, false
	}

	results, found, err := e.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Msg("result cache read failed, computing live")
		e.cacheMisses.Add(1)
		e.recorder.RecordCache(false)
		return nil, false
	}
	if !found {
		e.cacheMisses.Add(1)
		e.recorder.RecordCache(false)
		return nil, false
	}

	e.cacheHits.Add(1)
	e.recorder.RecordCache(true)
	logger.Debug().Msg("cache hit")
	return results, true
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) storeCached(ctx context.Context, key string, results []RankedResult, logger zerolog.Logger) {
	if e.cache == nil || !e.config.Cache.Enabled {
		return
	}
	if err := e.cache.Set(ctx, key, results, e.config.Cache.TTL); err != nil {
		logger.Warn().Err(err).Msg("result cache write failed")
	}
}

func (e *Engine) invalidateUser(ctx context.Context, userID string) {
	if e.cache == nil {
		return
	}
	keys := make([]string, 0, len(AllKinds)*len(AllStrategies))
	for _, kind := range AllKinds {
		for _, st := range AllStrategies {
			keys = append(keys, CacheKey(userID, kind, st))
		}
	}
	if err := e.cache.Delete(ctx, keys...); err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("result cache invalidation failed")
	}
}

// buildProfile reads the user's history, preferences and feedback, each call
// bounded by the upstream timeout. Only ErrInvalidUser is fatal; any other
// failure substitutes an empty input.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) buildProfile(ctx context.Context, userID string, logger zerolog.Logger) (*UserProfile, error) {
	timeout := e.config.Limits.UpstreamTimeout

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	interactions, err := e.history.GetInteractions(callCtx, userID, e.config.Profile.HistoryLimit)
	cancel()
	if err != nil {
		if errors.Is(err, ErrInvalidUser) {
			return nil, fmt.Errorf("load history: %w", err)
		}
		logger.Warn().Err(err).Msg("history unavailable, using empty history")
		interactions = nil
	}

	callCtx, cancel = context.WithTimeout(ctx, timeout)
	prefs, err := e.history.GetPreferences(callCtx, userID)
	cancel()
	if err != nil {
		logger.Warn().Err(err).Msg("preferences unavailable, using defaults")
		prefs = Preferences{}
	}

	var feedback []Feedback
	if e.config.Profile.FeedbackLimit > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		feedback, err = e.history.GetFeedback(callCtx, userID, e.config.Profile.FeedbackLimit)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Msg("feedback unavailable, ignoring")
			feedback = nil
		}
	}

	return e.profiles.Build(userID, interactions, prefs, feedback), nil
}

// runScorers runs all scorers in parallel and waits for every one of them.
func (e *Engine) runScorers(ctx context.Context, scorers []Scorer, in ScoreInput) []Outcome {
	outcomes := make([]Outcome, len(scorers))
	var wg sync.WaitGroup

	for i, s := range scorers {
		wg.Add(1)
		go func(idx int, sc Scorer) {
			defer wg.Done()
			outcomes[idx] = e.runSingleScorer(ctx, sc, in)
		}(i, s)
	}

	wg.Wait()

	for i := range outcomes {
		e.recorder.RecordScorer(outcomes[i])
		if outcomes[i].Degraded {
			e.logger.Warn().
				Str("strategy", string(outcomes[i].Strategy)).
				Str("reason", outcomes[i].Reason).
				Int("partial", len(outcomes[i].Candidates)).
				Msg("scorer degraded")
		}
	}
	return outcomes
}

type scoreResult struct {
	candidates []ScoredCandidate
	err        error
}

// runSingleScorer bounds one scorer by the scorer timeout. A scorer that
// panics, errors or overruns yields a degraded outcome.
//
//nolint:gocritic // hugeParam: in passed by value, shared read-only
func (e *Engine) runSingleScorer(ctx context.Context, s Scorer, in ScoreInput) Outcome {
	start := time.Now()
	strategy := s.Strategy()

	scoreCtx, cancel := context.WithTimeout(ctx, e.config.Limits.ScorerTimeout)
	defer cancel()

	ch := make(chan scoreResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- scoreResult{err: fmt.Errorf("scorer panic: %v", r)}
			}
		}()
		candidates, err := s.Score(scoreCtx, in)
		ch <- scoreResult{candidates: candidates, err: err}
	}()

	var out Outcome
	select {
	case r := <-ch:
		if errors.Is(r.err, context.DeadlineExceeded) && scoreCtx.Err() != nil {
			out = Degraded(strategy, r.candidates, "timeout: "+r.err.Error())
		} else if r.err != nil {
			out = Degraded(strategy, r.candidates, r.err.Error())
		} else {
			out = Ok(strategy, r.candidates)
		}
	case <-scoreCtx.Done():
		out = Degraded(strategy, nil, "timeout: "+scoreCtx.Err().Error())
	}
	out.Duration = time.Since(start)
	return out
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponse(req Request, strategy Strategy, ranked []RankedResult, cached bool, degraded map[Strategy]string) *Response {
	if len(degraded) == 0 {
		degraded = nil
	}
	return &Response{
		Results:  Paginate(ranked, req.Page, req.PageSize),
		Strategy: strategy,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    len(ranked),
		Cached:   cached,
		Degraded: degraded,
	}
}
