// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package interest

import (
	"fmt"
	"math"
	"time"
)

// Policy reduces a single weight over an elapsed duration.
//
// Implementations must be monotonic non-increasing in elapsed, never return a
// negative value, return w unchanged for elapsed <= 0, and compose:
// Apply(Apply(w, a), b) == Apply(w, a+b). Composition is what lets a periodic
// sweep and read-time decay coexist without double-counting.
type Policy interface {
	Apply(w float64, elapsed time.Duration) float64
	Name() string
}

// Exponential halves every weight once per HalfLife.
type Exponential struct {
	HalfLife time.Duration
}

// Apply implements Policy.
func (p Exponential) Apply(w float64, elapsed time.Duration) float64 {
	if elapsed <= 0 || p.HalfLife <= 0 || w <= 0 {
		return math.Max(w, 0)
	}
	return w * math.Exp(-math.Ln2*float64(elapsed)/float64(p.HalfLife))
}

// Name implements Policy.
func (p Exponential) Name() string { return "exponential" }

// Linear subtracts PerDay units per 24h, floored at zero.
type Linear struct {
	PerDay float64
}

// Apply implements Policy.
func (p Linear) Apply(w float64, elapsed time.Duration) float64 {
	if elapsed <= 0 || p.PerDay <= 0 {
		return math.Max(w, 0)
	}
	return math.Max(w-p.PerDay*elapsed.Hours()/24, 0)
}

// Name implements Policy.
func (p Linear) Name() string { return "linear" }

// NewPolicy builds a policy by name.
func NewPolicy(name string, halfLife time.Duration, perDay float64) (Policy, error) {
	switch name {
	case "", "exponential":
		if halfLife <= 0 {
			return nil, fmt.Errorf("exponential decay requires a positive half-life, got %v", halfLife)
		}
		return Exponential{HalfLife: halfLife}, nil
	case "linear":
		if perDay <= 0 {
			return nil, fmt.Errorf("linear decay requires a positive rate, got %f", perDay)
		}
		return Linear{PerDay: perDay}, nil
	default:
		return nil, fmt.Errorf("unknown decay policy %q", name)
	}
}

// Decay returns a copy of v with every weight decayed by elapsed. The decay
// timestamp is carried over unchanged. Decay(v, 0) equals v.
func Decay(v *Vector, elapsed time.Duration, p Policy) *Vector {
	out := v.Clone()
	if elapsed <= 0 {
		return out
	}
	for i := range out.entries {
		out.entries[i].Weight = p.Apply(out.entries[i].Weight, elapsed)
	}
	return out
}

// Decayer applies a policy lazily relative to a vector's last-decay timestamp.
type Decayer struct {
	Policy Policy

	// MinInterval skips decay (and leaves the timestamp alone) until at least
	// this much time has passed.
	MinInterval time.Duration
}

// DecayTo brings v up to now and reports whether v changed and should be
// persisted. A vector that was never decayed is only stamped.
func (d Decayer) DecayTo(v *Vector, now time.Time) bool {
	if v.lastDecayedAt.IsZero() {
		v.lastDecayedAt = now
		return true
	}

	elapsed := now.Sub(v.lastDecayedAt)
	if elapsed <= 0 || elapsed < d.MinInterval {
		return false
	}

	for i := range v.entries {
		v.entries[i].Weight = d.Policy.Apply(v.entries[i].Weight, elapsed)
	}
	v.lastDecayedAt = now
	return true
}
