// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

// Package sampling picks a small, varied subset from a scored pool.
//
// Selection is roulette-wheel without replacement: each draw picks a candidate
// with probability proportional to its weight, then removes it from the pool.
// Weights come from scores via max(score, ε)^α, so zero-score candidates stay
// reachable while higher scores dominate.
//
// All randomness comes from the *rand.Rand the caller passes in; seeding it
// makes every function here deterministic.
package sampling

import (
	"math"
	"math/rand"
	"sort"
)

// Candidate is a scored value with its sampling weight.
type Candidate[T any] struct {
	// ID identifies the underlying value. Two candidates with the same ID are
	// never both selected.
	ID string

	// Score is the raw similarity score.
	Score float64

	// Weight is the sampling weight derived from Score.
	Weight float64

	// Value is the payload carried through selection.
	Value T
}

// Weighting maps a score to a sampling weight.
type Weighting struct {
	// Alpha sharpens the distribution toward high scores.
	Alpha float64

	// Epsilon is the floor applied to scores before exponentiation.
	Epsilon float64
}

// DefaultWeighting is max(score, 0.1)^2.
var DefaultWeighting = Weighting{Alpha: 2, Epsilon: 0.1}

// Weight returns max(score, Epsilon)^Alpha.
func (w Weighting) Weight(score float64) float64 {
	if math.IsNaN(score) {
		score = 0
	}
	return math.Pow(math.Max(score, w.Epsilon), w.Alpha)
}

// Build scores each item and attaches its weight.
func Build[T any](items []T, id func(T) string, score func(T) float64, w Weighting) []Candidate[T] {
	out := make([]Candidate[T], len(items))
	for i, it := range items {
		s := score(it)
		out[i] = Candidate[T]{ID: id(it), Score: s, Weight: w.Weight(s), Value: it}
	}
	return out
}

// TopByScore returns up to n candidates with the highest scores. Equal scores
// keep their input order. The input is not modified.
func TopByScore[T any](candidates []Candidate[T], n int) []Candidate[T] {
	sorted := make([]Candidate[T], len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SampleWithoutReplacement makes up to k weighted draws from candidates.
//
// Each draw takes r uniformly from [0, remaining weight) and walks the pool
// until the running sum reaches r. If rounding leaves the walk short, the last
// remaining candidate is taken. The drawn candidate leaves the pool either way;
// one whose ID was already picked uses up its draw without being returned.
//
// For candidates with unique IDs the result has exactly min(k, len(candidates))
// entries, in draw order.
func SampleWithoutReplacement[T any](candidates []Candidate[T], k int, rng *rand.Rand) []Candidate[T] {
	if k <= 0 || len(candidates) == 0 {
		return []Candidate[T]{}
	}

	pool := make([]Candidate[T], len(candidates))
	copy(pool, candidates)

	picked := make([]Candidate[T], 0, min(k, len(pool)))
	seen := make(map[string]struct{}, cap(picked))

	for draw := 0; draw < k && len(pool) > 0; draw++ {
		idx := spin(pool, rng)
		c := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		picked = append(picked, c)
	}

	return picked
}

// spin performs one roulette-wheel draw and returns the chosen index.
func spin[T any](pool []Candidate[T], rng *rand.Rand) int {
	var total float64
	for _, c := range pool {
		total += usable(c.Weight)
	}

	r := rng.Float64() * total
	var cumulative float64
	for i, c := range pool {
		cumulative += usable(c.Weight)
		if cumulative >= r {
			return i
		}
	}
	return len(pool) - 1
}

// usable treats negative and NaN weights as zero.
func usable(w float64) float64 {
	if math.IsNaN(w) || w < 0 {
		return 0
	}
	return w
}

// TopUp appends the highest-scoring candidates from pool that are not already
// picked (by ID) until picked has k entries or the pool runs out.
func TopUp[T any](picked, pool []Candidate[T], k int) []Candidate[T] {
	if len(picked) >= k {
		return picked
	}

	seen := make(map[string]struct{}, len(picked))
	for _, c := range picked {
		seen[c.ID] = struct{}{}
	}

	for _, c := range TopByScore(pool, -1) {
		if len(picked) >= k {
			break
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		picked = append(picked, c)
	}
	return picked
}
