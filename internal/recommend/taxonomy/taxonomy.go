// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

// Package taxonomy normalizes category labels at the edge of the system.
//
// Labels reach us from catalog responses, saved-item payloads and direct
// interest edits, each with its own spelling ("First person", "first-person",
// "FIRST PERSON"). Weight only accumulates usefully if all of those land on one
// key, so every label is folded to a canonical form before it touches an
// interest vector.
package taxonomy

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind separates the two label families the catalog filters on.
type Kind int

const (
	// KindGenre labels are routed to the catalog's genre filter.
	KindGenre Kind = iota

	// KindPerspective labels are routed to the catalog's perspective filter.
	KindPerspective
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindPerspective {
		return "perspective"
	}
	return "genre"
}

// Category describes one canonical label.
type Category struct {
	// Label is the canonical spelling stored in interest vectors.
	Label string `yaml:"label"`

	// Kind is genre or perspective.
	Kind Kind `yaml:"kind"`

	// Upstream is the name the catalog API uses. Defaults to Label.
	Upstream string `yaml:"upstream"`

	// Aliases are alternative spellings that fold to Label.
	Aliases []string `yaml:"aliases"`
}

// Taxonomy maps arbitrary spellings to canonical labels.
// It is immutable after construction and safe for concurrent use.
type Taxonomy struct {
	categories []Category
	byKey      map[string]int
	byLabel    map[string]int
	strict     bool
}

// New builds a taxonomy. In strict mode Normalize rejects labels that are not
// known; otherwise unknown labels pass through with whitespace tidied.
func New(categories []Category, strict bool) (*Taxonomy, error) {
	t := &Taxonomy{
		categories: make([]Category, 0, len(categories)),
		byKey:      make(map[string]int, len(categories)*3),
		byLabel:    make(map[string]int, len(categories)),
		strict:     strict,
	}

	for _, c := range categories {
		if c.Label == "" {
			return nil, fmt.Errorf("category with empty label")
		}
		if c.Upstream == "" {
			c.Upstream = c.Label
		}

		idx := len(t.categories)
		t.categories = append(t.categories, c)
		t.byLabel[c.Label] = idx

		names := append([]string{c.Label, c.Upstream}, c.Aliases...)
		for _, name := range names {
			k := key(name)
			if k == "" {
				continue
			}
			if prev, ok := t.byKey[k]; ok && prev != idx {
				return nil, fmt.Errorf("label %q of %q collides with %q", name, c.Label, t.categories[prev].Label)
			}
			t.byKey[k] = idx
		}
	}

	return t, nil
}

// Strict reports whether unknown labels are rejected.
func (t *Taxonomy) Strict() bool {
	return t.strict
}

// Categories returns a copy of the known categories.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Normalize returns the canonical label and whether it was accepted.
func (t *Taxonomy) Normalize(label string) (string, bool) {
	if idx, ok := t.byKey[key(label)]; ok {
		return t.categories[idx].Label, true
	}
	if t.strict {
		return "", false
	}
	cleaned := strings.Join(strings.Fields(label), " ")
	return cleaned, cleaned != ""
}

// NormalizeAll normalizes labels in order, dropping rejected ones. Duplicates
// are preserved since repeated labels carry weight.
func (t *Taxonomy) NormalizeAll(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if n, ok := t.Normalize(l); ok {
			out = append(out, n)
		}
	}
	return out
}

// IsPerspective reports whether a canonical label is a perspective.
func (t *Taxonomy) IsPerspective(label string) bool {
	if idx, ok := t.byLabel[label]; ok {
		return t.categories[idx].Kind == KindPerspective
	}
	return false
}

// Upstream returns the catalog's name for a canonical label. Unknown labels
// are returned as-is.
func (t *Taxonomy) Upstream(label string) string {
	if idx, ok := t.byLabel[label]; ok {
		return t.categories[idx].Upstream
	}
	return label
}

// key folds a label to lowercase letters and digits so punctuation and
// spacing variants collide.
func key(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
