// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

// Package scoring turns an interest vector and a game's labels into a
// similarity score and a user-facing match percentage.
package scoring

import (
	"math"
	"math/rand"
	"sort"
)

// WeightSource looks up a label weight. *interest.Vector satisfies it.
type WeightSource interface {
	Weight(label string) float64
}

// Score sums the weights of the distinct labels across all label sets.
// Absent labels contribute 0. The result does not depend on label order.
func Score(v WeightSource, labelSets ...[]string) float64 {
	seen := make(map[string]struct{})
	var score float64
	for _, labels := range labelSets {
		for _, l := range labels {
			if _, dup := seen[l]; dup {
				continue
			}
			seen[l] = struct{}{}
			score += v.Weight(l)
		}
	}
	return score
}

// MatchScale converts raw scores to a bounded percentage.
type MatchScale struct {
	// Divisor is the score treated as the strong-confidence ceiling.
	Divisor float64

	// Cap is the highest percentage ever shown.
	Cap float64
}

// DefaultMatchScale is round(min(score/3*100, 95)).
var DefaultMatchScale = MatchScale{Divisor: 3, Cap: 95}

// Percentage returns round(min(score/Divisor*100, Cap)), never below 0.
func (m MatchScale) Percentage(score float64) int {
	if m.Divisor <= 0 || math.IsNaN(score) || score <= 0 {
		return 0
	}
	pct := math.Min(score/m.Divisor*100, m.Cap)
	return int(math.Round(pct))
}

// JitterSort orders items by match percentage descending, adding a random
// offset in [0, maxJitter) to each item's key. Keys are drawn once per item, so
// two items whose percentages differ by at least maxJitter never swap.
func JitterSort[T any](items []T, match func(T) int, maxJitter float64, rng *rand.Rand) {
	keys := make([]float64, len(items))
	for i, it := range items {
		keys[i] = float64(match(it))
		if maxJitter > 0 {
			keys[i] += rng.Float64() * maxJitter
		}
	}

	sort.Sort(&keyed[T]{items: items, keys: keys})
}

type keyed[T any] struct {
	items []T
	keys  []float64
}

func (k *keyed[T]) Len() int           { return len(k.items) }
func (k *keyed[T]) Less(i, j int) bool { return k.keys[i] > k.keys[j] }
func (k *keyed[T]) Swap(i, j int) {
	k.items[i], k.items[j] = k.items[j], k.items[i]
	k.keys[i], k.keys[j] = k.keys[j], k.keys[i]
}
