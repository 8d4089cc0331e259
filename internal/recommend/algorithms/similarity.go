// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package algorithms

import (
	"math"
	"sort"
)

// RatingVector is a sparse item id -> rating vector.
type RatingVector map[string]float64

// SimilarityFunc compares two rating vectors.
type SimilarityFunc func(a, b RatingVector) float64

// SimilarityByName returns the similarity function for a metric name.
// Unknown names fall back to cosine.
func SimilarityByName(name string) SimilarityFunc {
	if name == "pearson" {
		return Pearson
	}
	return Cosine
}

// commonKeys returns the sorted intersection of the vectors' items. Sorting
// keeps floating-point sums identical regardless of argument order.
func commonKeys(a, b RatingVector) []string {
	if len(b) < len(a) {
		a, b = b, a
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		if _, ok := b[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Overlap returns the number of items rated in both vectors.
func Overlap(a, b RatingVector) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

// Cosine computes cosine similarity restricted to co-rated items.
// Vectors without common items have similarity 0.
func Cosine(a, b RatingVector) float64 {
	keys := commonKeys(a, b)
	if len(keys) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for _, k := range keys {
		dot += a[k] * b[k]
		normA += a[k] * a[k]
		normB += b[k] * b[k]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return clampUnit(dot / math.Sqrt(normA*normB))
}

// Pearson computes the Pearson correlation over co-rated items.
// Fewer than two common items, or zero variance, yields 0.
func Pearson(a, b RatingVector) float64 {
	keys := commonKeys(a, b)
	if len(keys) < 2 {
		return 0
	}

	var sumA, sumB float64
	for _, k := range keys {
		sumA += a[k]
		sumB += b[k]
	}
	n := float64(len(keys))
	meanA, meanB := sumA/n, sumB/n

	var num, denA, denB float64
	for _, k := range keys {
		da, db := a[k]-meanA, b[k]-meanB
		num += da * db
		denA += da * da
		denB += db * db
	}
	if denA == 0 || denB == 0 {
		return 0
	}

	return clampUnit(num / math.Sqrt(denA*denB))
}

// Jaccard computes |a ∩ b| / |a ∪ b| over two sets. Two empty sets have
// similarity 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	intersection := 0
	for s := range a {
		if _, ok := b[s]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Neighbor is a similar user with their similarity score.
type Neighbor struct {
	ID         string
	Similarity float64
	Overlap    int
	Support    int
}

// TopNeighbors returns the k users most similar to target. Only positive
// similarities with at least minOverlap co-rated items qualify. Ties prefer
// the user with more ratings, then the smaller id.
func TopNeighbors(target RatingVector, others map[string]RatingVector, k int, sim SimilarityFunc, minOverlap int) []Neighbor {
	if k <= 0 || len(target) == 0 {
		return nil
	}
	if sim == nil {
		sim = Cosine
	}

	neighbors := make([]Neighbor, 0, len(others))
	for id, vec := range others {
		overlap := Overlap(target, vec)
		if overlap == 0 || overlap < minOverlap {
			continue
		}
		s := sim(target, vec)
		if s <= 0 {
			continue
		}
		neighbors = append(neighbors, Neighbor{ID: id, Similarity: s, Overlap: overlap, Support: len(vec)})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		if neighbors[i].Support != neighbors[j].Support {
			return neighbors[i].Support > neighbors[j].Support
		}
		return neighbors[i].ID < neighbors[j].ID
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
