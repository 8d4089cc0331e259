// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package recommend

import (
	"math"
	"sort"
	"time"
)

// TimeBucket is a coarse time-of-day bucket.
type TimeBucket int

const (
	// BucketNight covers 00:00-05:59.
	BucketNight TimeBucket = iota
	// BucketMorning covers 06:00-11:59.
	BucketMorning
	// BucketAfternoon covers 12:00-17:59.
	BucketAfternoon
	// BucketEvening covers 18:00-23:59.
	BucketEvening

	numTimeBuckets = 4
)

// BucketOf returns the time bucket for an hour of the day.
func BucketOf(hour int) TimeBucket {
	switch {
	case hour < 6:
		return BucketNight
	case hour < 12:
		return BucketMorning
	case hour < 18:
		return BucketAfternoon
	default:
		return BucketEvening
	}
}

// String returns the bucket label.
func (b TimeBucket) String() string {
	switch b {
	case BucketNight:
		return "night"
	case BucketMorning:
		return "morning"
	case BucketAfternoon:
		return "afternoon"
	case BucketEvening:
		return "evening"
	default:
		return "unknown"
	}
}

// Engagement is a histogram of when a user interacts.
type Engagement struct {
	Buckets  [numTimeBuckets]int `json:"buckets"`
	Weekdays [7]int              `json:"weekdays"`
	Total    int                 `json:"total"`
}

func (e *Engagement) add(t time.Time) {
	e.Buckets[BucketOf(t.Hour())]++
	e.Weekdays[t.Weekday()]++
	e.Total++
}

// Shares returns how strongly the user engages at t's bucket and weekday,
// each relative to the user's busiest bucket/weekday (0..1).
func (e *Engagement) Shares(t time.Time) (bucket, weekday float64) {
	if e == nil || e.Total == 0 {
		return 0, 0
	}
	maxBucket, maxDay := 0, 0
	for _, n := range e.Buckets {
		maxBucket = max(maxBucket, n)
	}
	for _, n := range e.Weekdays {
		maxDay = max(maxDay, n)
	}
	if maxBucket > 0 {
		bucket = float64(e.Buckets[BucketOf(t.Hour())]) / float64(maxBucket)
	}
	if maxDay > 0 {
		weekday = float64(e.Weekdays[t.Weekday()]) / float64(maxDay)
	}
	return bucket, weekday
}

// UserProfile is the per-request view of a user's taste. It is built fresh
// for each request and never shared across requests.
type UserProfile struct {
	// UserID is the profile owner.
	UserID string

	// GenreWeights maps normalized genre to weight in (0, 1].
	GenreWeights map[string]float64

	// EraWeights maps decade (1990, 2000, ...) to weight in (0, 1].
	EraWeights map[int]float64

	// RatingAverage is the mean explicit rating, 0 without ratings.
	RatingAverage float64

	// RatingConsistency is 1/(1+stddev) over explicit ratings, 0 without ratings.
	RatingConsistency float64

	// RatingCount is the number of explicit ratings.
	RatingCount int

	// Ratings maps item id to its implied rating (explicit or implicit).
	Ratings map[string]float64

	// RecentItemIDs lists recently interacted items, newest first.
	RecentItemIDs []string

	// LikedItems holds the features of recently liked items.
	LikedItems []FeatureSet

	// Engagement is the overall time-of-day histogram.
	Engagement Engagement

	// EngagementByKind splits Engagement by media kind where known.
	EngagementByKind map[MediaKind]*Engagement

	// Preferences is the stored preference record.
	Preferences Preferences

	seen     map[string]struct{}
	rejected map[string]struct{}
}

// NewEmptyProfile returns a valid profile with all weights zero.
func NewEmptyProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:           userID,
		GenreWeights:     make(map[string]float64),
		EraWeights:       make(map[int]float64),
		Ratings:          make(map[string]float64),
		EngagementByKind: make(map[MediaKind]*Engagement),
		seen:             make(map[string]struct{}),
		rejected:         make(map[string]struct{}),
	}
}

// IsEmpty reports whether the profile carries no taste signal.
func (p *UserProfile) IsEmpty() bool {
	return len(p.GenreWeights) == 0 && len(p.EraWeights) == 0 && len(p.Ratings) == 0
}

// GenreWeight returns the weight of a genre (case-insensitive).
func (p *UserProfile) GenreWeight(genre string) float64 {
	return p.GenreWeights[NormalizeToken(genre)]
}

// TopGenres returns up to n genres by weight descending, ties by name.
func (p *UserProfile) TopGenres(n int) []string {
	genres := make([]string, 0, len(p.GenreWeights))
	for g := range p.GenreWeights {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		wi, wj := p.GenreWeights[genres[i]], p.GenreWeights[genres[j]]
		if wi != wj {
			return wi > wj
		}
		return genres[i] < genres[j]
	})
	if n >= 0 && len(genres) > n {
		genres = genres[:n]
	}
	return genres
}

// HasInteracted reports whether the item is already in the user's history.
// Interactions without a known media kind match any kind.
//
//nolint:gocritic // CatalogItem is passed by value throughout the package
func (p *UserProfile) HasInteracted(item CatalogItem) bool {
	if _, ok := p.seen[item.Key().String()]; ok {
		return true
	}
	_, ok := p.seen[anyKindKey(item.ID)]
	return ok
}

// Rejected reports whether the user gave negative feedback on the item.
func (p *UserProfile) Rejected(itemID string) bool {
	_, ok := p.rejected[itemID]
	return ok
}

// Excludes reports whether the item must not be recommended: already in the
// history, rejected, or in a language the user does not want.
//
//nolint:gocritic // CatalogItem is passed by value throughout the package
func (p *UserProfile) Excludes(item CatalogItem) bool {
	if p.HasInteracted(item) || p.Rejected(item.ID) {
		return true
	}
	lang := NormalizeToken(p.Preferences.Language)
	return lang != "" && item.Language != "" && NormalizeToken(item.Language) != lang
}

// EngagementFor returns the kind-specific engagement histogram, falling back
// to the overall one when the kind has no events.
func (p *UserProfile) EngagementFor(kind MediaKind) *Engagement {
	if e, ok := p.EngagementByKind[kind]; ok && e.Total > 0 {
		return e
	}
	return &p.Engagement
}

func anyKindKey(id string) string {
	return "*:" + id
}

// ProfileBuilder folds history, preferences and feedback into a UserProfile.
type ProfileBuilder struct {
	cfg ProfileConfig
}

// NewProfileBuilder creates a builder.
func NewProfileBuilder(cfg ProfileConfig) *ProfileBuilder {
	return &ProfileBuilder{cfg: cfg}
}

// Build constructs the profile. Any input may be empty; the result is always
// a valid profile.
//
//nolint:gocritic // Preferences is small and read-only
func (b *ProfileBuilder) Build(userID string, interactions []Interaction, prefs Preferences, feedback []Feedback) *UserProfile {
	p := NewEmptyProfile(userID)
	p.Preferences = prefs

	history := make([]Interaction, len(interactions))
	copy(history, interactions)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.After(history[j].Timestamp)
	})
	if b.cfg.HistoryLimit > 0 && len(history) > b.cfg.HistoryLimit {
		history = history[:b.cfg.HistoryLimit]
	}

	genreAcc := make(map[string]float64)
	eraAcc := make(map[int]float64)
	var ratings []float64
	recent := make(map[string]struct{})

	for i := range history {
		in := &history[i]
		if in.ItemID == "" {
			continue
		}

		w := b.occurrenceWeight(in)
		feat := InteractionFeatures(*in)
		for g := range feat.Genres {
			genreAcc[g] += w
		}
		if feat.Decade > 0 {
			eraAcc[feat.Decade] += w
		}

		if in.HasRating() {
			ratings = append(ratings, clamp(in.Value, 0, MaxUserRating))
		}
		if r, ok := in.ImpliedRating(b.cfg.ImplicitRating); ok {
			if _, exists := p.Ratings[in.ItemID]; !exists {
				p.Ratings[in.ItemID] = r
			}
		}

		if in.MediaKind != "" {
			p.seen[ItemKey{ID: in.ItemID, Kind: in.MediaKind}.String()] = struct{}{}
		} else {
			p.seen[anyKindKey(in.ItemID)] = struct{}{}
		}

		if _, dup := recent[in.ItemID]; !dup && len(p.RecentItemIDs) < b.recentLimit() {
			recent[in.ItemID] = struct{}{}
			p.RecentItemIDs = append(p.RecentItemIDs, in.ItemID)
		}

		if b.liked(in) && !feat.Empty() && len(p.LikedItems) < b.recentLimit() {
			p.LikedItems = append(p.LikedItems, feat)
		}

		if !in.Timestamp.IsZero() && in.Kind != InteractionWishlist {
			p.Engagement.add(in.Timestamp)
			if in.MediaKind != "" {
				e, ok := p.EngagementByKind[in.MediaKind]
				if !ok {
					e = &Engagement{}
					p.EngagementByKind[in.MediaKind] = e
				}
				e.add(in.Timestamp)
			}
		}
	}

	for i := range feedback {
		fb := &feedback[i]
		feat := newFeatureSet(fb.ItemID, fb.Genres, fb.ReleaseYear, fb.Creators)
		delta := b.cfg.FeedbackWeight
		if fb.Signal == FeedbackNegative {
			delta = -delta
			p.rejected[fb.ItemID] = struct{}{}
		} else if !feat.Empty() && len(p.LikedItems) < b.recentLimit() {
			p.LikedItems = append(p.LikedItems, feat)
		}
		for g := range feat.Genres {
			genreAcc[g] += delta
		}
		if feat.Decade > 0 {
			eraAcc[feat.Decade] += delta
		}
	}

	for g, acc := range genreAcc {
		if w := b.saturate(acc); w > 0 {
			p.GenreWeights[g] = w
		}
	}
	for d, acc := range eraAcc {
		if w := b.saturate(acc); w > 0 {
			p.EraWeights[d] = w
		}
	}
	for _, g := range prefs.Genres {
		n := NormalizeToken(g)
		if n == "" || b.cfg.PreferenceFloor <= 0 {
			continue
		}
		p.GenreWeights[n] = math.Max(p.GenreWeights[n], b.cfg.PreferenceFloor)
	}

	p.RatingCount = len(ratings)
	p.RatingAverage, p.RatingConsistency = ratingStats(ratings)

	return p
}

// occurrenceWeight is the weight one interaction adds to its genres and era.
// Explicit ratings scale by value; everything else counts 1 (wishlist less).
func (b *ProfileBuilder) occurrenceWeight(in *Interaction) float64 {
	switch {
	case in.HasRating():
		return clamp(in.Value, 0, MaxUserRating) / MaxUserRating
	case in.Kind == InteractionWishlist:
		return b.cfg.WishlistWeight
	default:
		return 1
	}
}

func (b *ProfileBuilder) liked(in *Interaction) bool {
	if in.HasRating() {
		return in.Value >= b.cfg.LikedThreshold
	}
	return in.Kind == InteractionWatch
}

func (b *ProfileBuilder) saturate(acc float64) float64 {
	if acc <= 0 {
		return 0
	}
	return math.Min(acc/b.cfg.Saturation, 1)
}

func (b *ProfileBuilder) recentLimit() int {
	if b.cfg.RecentLimit <= 0 {
		return 20
	}
	return b.cfg.RecentLimit
}

// ratingStats returns the mean and 1/(1+stddev) of ratings.
func ratingStats(ratings []float64) (mean, consistency float64) {
	if len(ratings) == 0 {
		return 0, 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	mean = sum / float64(len(ratings))

	var variance float64
	for _, r := range ratings {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(ratings))

	return mean, 1 / (1 + math.Sqrt(variance))
}
