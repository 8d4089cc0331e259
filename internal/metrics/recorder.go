// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package metrics

import (
	"time"

	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// Recorder forwards recommendation engine events to Prometheus.
type Recorder struct {
	cacheType string
}

var _ recommend.Recorder = (*Recorder)(nil)

// NewRecorder creates a recorder. cacheType labels cache hit/miss counters
// with the configured backend ("memory", "redis", "badger").
func NewRecorder(cacheType string) *Recorder {
	if cacheType == "" {
		cacheType = "none"
	}
	return &Recorder{cacheType: cacheType}
}

// RecordRequest records a completed recommendation request.
func (r *Recorder) RecordRequest(strategy recommend.Strategy, outcome string, d time.Duration) {
	RecommendRequests.WithLabelValues(string(strategy), outcome).Inc()
	RecommendDuration.WithLabelValues(string(strategy)).Observe(d.Seconds())
}

// RecordScorer records one scorer run.
//
//nolint:gocritic // hugeParam: mirrors recommend.Recorder
func (r *Recorder) RecordScorer(o recommend.Outcome) {
	strategy := string(o.Strategy)
	ScorerDuration.WithLabelValues(strategy).Observe(o.Duration.Seconds())
	ScorerCandidates.WithLabelValues(strategy).Observe(float64(len(o.Candidates)))
	if o.Degraded {
		ScorerDegraded.WithLabelValues(strategy, ClassifyDegradedReason(o.Reason)).Inc()
	}
}

// RecordCache records a result cache lookup.
func (r *Recorder) RecordCache(hit bool) {
	if hit {
		CacheHits.WithLabelValues(r.cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(r.cacheType).Inc()
}

// RecordFeedback records a stored feedback signal.
func (r *Recorder) RecordFeedback(signal recommend.FeedbackSignal) {
	FeedbackTotal.WithLabelValues(string(signal)).Inc()
}
