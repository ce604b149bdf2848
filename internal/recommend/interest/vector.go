// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

// Package interest holds the per-user interest vector: category label weights
// learned from saved games, with time-based decay.
//
// A Vector keeps its labels in insertion order. That order is the tie-breaker
// for TopCategories, so two labels with equal weight always come back in the
// order the user first showed interest in them.
//
// Weights only grow through Increment. Increment is additive and deliberately
// not idempotent: saving two games that both carry "RPG" adds 2 to "RPG".
// The only ways a weight goes down are Decay and ReplaceAll.
package interest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

// Entry is a single label weight.
type Entry struct {
	// Label is the normalized category label (e.g. "RPG", "First-Person").
	Label string `json:"label" validate:"required,max=64"`

	// Weight is the accumulated interest. Never negative.
	Weight float64 `json:"weight" validate:"gte=0"`
}

// Vector maps category labels to weights. The zero value is not usable;
// construct with NewVector or FromEntries. Vector is not safe for concurrent
// mutation.
type Vector struct {
	entries       []Entry
	index         map[string]int
	lastDecayedAt time.Time
}

// NewVector returns an empty vector.
func NewVector() *Vector {
	return &Vector{index: make(map[string]int)}
}

// FromEntries builds a vector from entries in order. Repeated labels are summed,
// empty labels are skipped and negative or non-finite weights are clamped to 0.
func FromEntries(entries []Entry, lastDecayedAt time.Time) *Vector {
	v := NewVector()
	for _, e := range entries {
		if e.Label == "" {
			continue
		}
		v.add(e.Label, sanitize(e.Weight))
	}
	v.lastDecayedAt = lastDecayedAt
	return v
}

// Len returns the number of labels.
func (v *Vector) Len() int {
	return len(v.entries)
}

// Weight returns the weight for label, or 0 when absent.
func (v *Vector) Weight(label string) float64 {
	if i, ok := v.index[label]; ok {
		return v.entries[i].Weight
	}
	return 0
}

// Entries returns a copy of the entries in insertion order.
func (v *Vector) Entries() []Entry {
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// LastDecayedAt returns when decay was last applied. Zero means never.
func (v *Vector) LastDecayedAt() time.Time {
	return v.lastDecayedAt
}

// Clone returns a deep copy.
func (v *Vector) Clone() *Vector {
	return FromEntries(v.entries, v.lastDecayedAt)
}

// Increment adds 1 to each label. Labels may repeat and each occurrence counts.
func (v *Vector) Increment(labels ...string) {
	for _, label := range labels {
		if label == "" {
			continue
		}
		v.add(label, 1)
	}
}

// ReplaceAll discards all weights and installs entries in their place.
// The decay timestamp is reset to now so the new values start fresh.
func (v *Vector) ReplaceAll(entries []Entry, now time.Time) {
	fresh := FromEntries(entries, now)
	*v = *fresh
}

// TopCategories returns up to n labels with weight >= threshold, heaviest first.
// Equal weights keep insertion order.
func (v *Vector) TopCategories(n int, threshold float64) []string {
	if n <= 0 {
		return nil
	}

	significant := make([]Entry, 0, len(v.entries))
	for _, e := range v.entries {
		if e.Weight >= threshold {
			significant = append(significant, e)
		}
	}

	sort.SliceStable(significant, func(i, j int) bool {
		return significant[i].Weight > significant[j].Weight
	})

	if len(significant) > n {
		significant = significant[:n]
	}

	labels := make([]string, len(significant))
	for i, e := range significant {
		labels[i] = e.Label
	}
	return labels
}

// Trim drops the lightest labels until at most max remain. Among equal weights
// the most recently inserted label goes first. A max <= 0 disables trimming.
func (v *Vector) Trim(max int) int {
	if max <= 0 || len(v.entries) <= max {
		return 0
	}

	order := make([]int, len(v.entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		wa, wb := v.entries[order[a]].Weight, v.entries[order[b]].Weight
		if wa != wb {
			return wa > wb
		}
		return order[a] < order[b]
	})

	keep := make(map[int]struct{}, max)
	for _, i := range order[:max] {
		keep[i] = struct{}{}
	}

	kept := make([]Entry, 0, max)
	for i, e := range v.entries {
		if _, ok := keep[i]; ok {
			kept = append(kept, e)
		}
	}

	dropped := len(v.entries) - len(kept)
	v.entries = kept
	v.reindex()
	return dropped
}

// add must only be called with a non-empty label.
func (v *Vector) add(label string, delta float64) {
	if i, ok := v.index[label]; ok {
		v.entries[i].Weight += delta
		return
	}
	v.index[label] = len(v.entries)
	v.entries = append(v.entries, Entry{Label: label, Weight: delta})
}

func (v *Vector) reindex() {
	v.index = make(map[string]int, len(v.entries))
	for i, e := range v.entries {
		v.index[e.Label] = i
	}
}

func sanitize(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// wireVector is the persisted form. Entries stay a list so insertion order survives.
type wireVector struct {
	Entries       []Entry   `json:"entries"`
	LastDecayedAt time.Time `json:"last_decayed_at"`
}

// MarshalJSON implements json.Marshaler.
func (v *Vector) MarshalJSON() ([]byte, error) {
	entries := v.entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(wireVector{Entries: entries, LastDecayedAt: v.lastDecayedAt})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var w wireVector
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode interest vector: %w", err)
	}
	*v = *FromEntries(w.Entries, w.LastDecayedAt)
	return nil
}
