// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package scoring

import (
	"math"
	"math/rand"
	"testing"
)

type weights map[string]float64

func (w weights) Weight(label string) float64 { return w[label] }

func TestScore(t *testing.T) {
	v := weights{"RPG": 3, "First-Person": 1, "Shooter": 0.5}

	tests := []struct {
		name         string
		genres       []string
		perspectives []string
		want         float64
	}{
		{"no labels", nil, nil, 0},
		{"unknown labels", []string{"Puzzle"}, []string{"Text"}, 0},
		{"genre only", []string{"RPG"}, nil, 3},
		{"genre and perspective", []string{"RPG", "Shooter"}, []string{"First-Person"}, 4.5},
		{"duplicate label counted once", []string{"RPG", "RPG"}, nil, 3},
		{"label in both lists counted once", []string{"RPG"}, []string{"RPG"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(v, tt.genres, tt.perspectives); got != tt.want {
				t.Errorf("Score() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScore_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // test determinism
	v := weights{"A": 0.1, "B": 0.7, "C": 1.3, "D": 2.9, "E": 0.01}
	labels := []string{"A", "B", "C", "D", "E", "F"}

	want := Score(v, labels)
	for i := 0; i < 100; i++ {
		shuffled := append([]string(nil), labels...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		split := rng.Intn(len(shuffled) + 1)

		got := Score(v, shuffled[:split], shuffled[split:])
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("Score(%v) = %f, want %f", shuffled, got, want)
		}
	}
}

func TestMatchScale_Percentage(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0, 0},
		{-1, 0},
		{math.NaN(), 0},
		{1, 33},
		{1.5, 50},
		{2, 67},
		{2.85, 95},
		{3, 95},
		{100, 95},
		{math.Inf(1), 95},
	}

	for _, tt := range tests {
		if got := DefaultMatchScale.Percentage(tt.score); got != tt.want {
			t.Errorf("Percentage(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestMatchScale_Bounded(t *testing.T) {
	rng := rand.New(rand.NewSource(11)) //nolint:gosec // test determinism
	for i := 0; i < 1000; i++ {
		s := rng.ExpFloat64() * 5
		got := DefaultMatchScale.Percentage(s)
		if got < 0 || got > 95 {
			t.Fatalf("Percentage(%f) = %d, out of [0,95]", s, got)
		}
	}
}

func TestMatchScale_ZeroDivisor(t *testing.T) {
	m := MatchScale{Divisor: 0, Cap: 95}
	if got := m.Percentage(10); got != 0 {
		t.Errorf("Percentage with zero divisor = %d, want 0", got)
	}
}

func TestJitterSort(t *testing.T) {
	type rec struct {
		id    string
		match int
	}
	matchOf := func(r rec) int { return r.match }

	t.Run("large gaps never invert", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3)) //nolint:gosec // test determinism
		for trial := 0; trial < 500; trial++ {
			items := []rec{{"low", 10}, {"high", 90}, {"mid", 50}, {"mid2", 56}}
			JitterSort(items, matchOf, 5, rng)

			want := []string{"high", "mid2", "mid", "low"}
			for i, id := range want {
				if items[i].id != id {
					t.Fatalf("trial %d: order = %v, want %v", trial, items, want)
				}
			}
		}
	})

	t.Run("near ties vary", func(t *testing.T) {
		rng := rand.New(rand.NewSource(5)) //nolint:gosec // test determinism
		firsts := map[string]int{}
		for trial := 0; trial < 500; trial++ {
			items := []rec{{"a", 70}, {"b", 71}}
			JitterSort(items, matchOf, 5, rng)
			firsts[items[0].id]++
		}
		if firsts["a"] == 0 || firsts["b"] == 0 {
			t.Errorf("expected both orders over 500 trials, got %v", firsts)
		}
	})

	t.Run("zero jitter is a plain sort", func(t *testing.T) {
		items := []rec{{"a", 1}, {"b", 3}, {"c", 2}}
		JitterSort(items, matchOf, 0, nil)
		if items[0].id != "b" || items[1].id != "c" || items[2].id != "a" {
			t.Errorf("order = %v", items)
		}
	})
}
