// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package recommend

import "strings"

// FeatureSet is the comparable form of an item: normalized genres, decade and
// creators. Missing metadata yields empty sets and a zero decade.
type FeatureSet struct {
	ItemID   string
	Genres   map[string]struct{}
	Decade   int
	Creators map[string]struct{}
}

// ExtractFeatures builds the feature set of a catalog item.
//
//nolint:gocritic // CatalogItem is passed by value throughout the package
func ExtractFeatures(item CatalogItem) FeatureSet {
	return newFeatureSet(item.ID, item.Genres, item.ReleaseYear, item.Creators)
}

// InteractionFeatures builds the feature set from an interaction's metadata
// snapshot.
//
//nolint:gocritic // Interaction is passed by value throughout the package
func InteractionFeatures(in Interaction) FeatureSet {
	return newFeatureSet(in.ItemID, in.Genres, in.ReleaseYear, in.Creators)
}

func newFeatureSet(id string, genres []string, year int, creators []string) FeatureSet {
	return FeatureSet{
		ItemID:   id,
		Genres:   toSet(genres),
		Decade:   Decade(year),
		Creators: toSet(creators),
	}
}

// Tokens returns the union of genres and creators as prefixed tokens, for
// set-based similarity.
func (f FeatureSet) Tokens() map[string]struct{} {
	out := make(map[string]struct{}, len(f.Genres)+len(f.Creators))
	for g := range f.Genres {
		out["genre:"+g] = struct{}{}
	}
	for c := range f.Creators {
		out["creator:"+c] = struct{}{}
	}
	return out
}

// Empty reports whether the set carries no comparable features.
func (f FeatureSet) Empty() bool {
	return len(f.Genres) == 0 && len(f.Creators) == 0 && f.Decade == 0
}

// Decade buckets a year into its decade (1994 -> 1990). Unknown years map to 0.
func Decade(year int) int {
	if year <= 0 {
		return 0
	}
	return year - year%10
}

// NormalizeToken lowercases and trims a genre or creator name.
func NormalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := NormalizeToken(v); n != "" {
			out[n] = struct{}{}
		}
	}
	return out
}
