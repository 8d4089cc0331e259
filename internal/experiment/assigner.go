// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/Srijan272002/Kahani-sub000/internal/logging"
	"github.com/Srijan272002/Kahani-sub000/internal/metrics"
	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// Assignment sources, used as the "source" metrics label.
const (
	SourceOverride = "override"
	SourceStore    = "store"
	SourceRollout  = "rollout"
	SourceDefault  = "default"
)

// buckets is the rollout resolution: 10000 buckets give 0.01% granularity.
const buckets = 10000

// Config configures strategy assignment.
type Config struct {
	// Enabled turns assignment on. Disabled means everyone gets hybrid.
	Enabled bool `koanf:"enabled"`

	// Salt is mixed into the bucketing hash.
	Salt string `koanf:"salt"`

	// Overrides pins users to a strategy: user id -> strategy name.
	Overrides map[string]string `koanf:"overrides"`

	// Rollout maps strategy name -> percentage of users (0-100).
	// Percentages must not sum above 100; the remainder gets hybrid.
	Rollout map[string]float64 `koanf:"rollout"`
}

// Store is the persisted assignment table.
type Store interface {
	GetAssignment(ctx context.Context, userID string) (recommend.Strategy, bool, error)
}

type slice struct {
	strategy recommend.Strategy
	upper    uint64
}

// Assigner implements recommend.ExperimentAssigner.
type Assigner struct {
	enabled   bool
	salt      string
	overrides map[string]recommend.Strategy
	rollout   []slice
	store     Store
}

// NewAssigner validates cfg and builds an assigner. store may be nil.
func NewAssigner(cfg Config, store Store) (*Assigner, error) {
	a := &Assigner{
		enabled:   cfg.Enabled,
		salt:      cfg.Salt,
		overrides: make(map[string]recommend.Strategy, len(cfg.Overrides)),
		store:     store,
	}

	for user, name := range cfg.Overrides {
		s, ok := recommend.ParseStrategy(name)
		if !ok {
			return nil, fmt.Errorf("override for user %q: %w: %q", user, recommend.ErrUnknownStrategy, name)
		}
		a.overrides[user] = s
	}

	names := make([]string, 0, len(cfg.Rollout))
	for name := range cfg.Rollout {
		names = append(names, name)
	}
	sort.Strings(names)

	var total float64
	for _, name := range names {
		pct := cfg.Rollout[name]
		s, ok := recommend.ParseStrategy(name)
		if !ok {
			return nil, fmt.Errorf("rollout: %w: %q", recommend.ErrUnknownStrategy, name)
		}
		if pct < 0 || pct > 100 {
			return nil, fmt.Errorf("rollout %q: percentage %v outside [0, 100]", name, pct)
		}
		if pct == 0 {
			continue
		}
		total += pct
		if total > 100+1e-9 {
			return nil, errors.New("rollout percentages sum to more than 100")
		}
		a.rollout = append(a.rollout, slice{
			strategy: s,
			upper:    uint64(math.Round(math.Min(total, 100) * buckets / 100)),
		})
	}

	return a, nil
}

// Bucket returns the user's rollout bucket in [0, 10000).
func (a *Assigner) Bucket(userID string) uint64 {
	return xxhash.Sum64String(a.salt+":"+userID) % buckets
}

// GetAssignment implements recommend.ExperimentAssigner. A store failure is
// logged and resolution continues with the rollout table.
func (a *Assigner) GetAssignment(ctx context.Context, userID string) (recommend.Strategy, bool, error) {
	if !a.enabled || userID == "" {
		return "", false, nil
	}

	if s, ok := a.overrides[userID]; ok {
		metrics.RecordExperimentAssignment(string(s), SourceOverride)
		return s, true, nil
	}

	if a.store != nil {
		s, ok, err := a.store.GetAssignment(ctx, userID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return "", false, ctx.Err()
			}
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("Assignment lookup failed, falling back to rollout")
		case ok:
			metrics.RecordExperimentAssignment(string(s), SourceStore)
			return s, true, nil
		}
	}

	if len(a.rollout) > 0 {
		b := a.Bucket(userID)
		for _, sl := range a.rollout {
			if b < sl.upper {
				metrics.RecordExperimentAssignment(string(sl.strategy), SourceRollout)
				return sl.strategy, true, nil
			}
		}
	}

	metrics.RecordExperimentAssignment(string(recommend.StrategyHybrid), SourceDefault)
	return "", false, nil
}

var _ recommend.ExperimentAssigner = (*Assigner)(nil)
