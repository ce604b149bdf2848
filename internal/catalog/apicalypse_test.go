// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package catalog

import (
	"strings"
	"testing"
)

func TestCategoriesQuery(t *testing.T) {
	tests := []struct {
		name         string
		genres       []string
		perspectives []string
		limit        int
		contains     []string
		excludes     []string
	}{
		{
			name:     "genres only",
			genres:   []string{"Shooter"},
			limit:    10,
			contains: []string{`where genres.name = ("Shooter");`, "limit 10;"},
			excludes: []string{"player_perspectives.name ="},
		},
		{
			name:         "perspectives only",
			perspectives: []string{"First person", "Side view"},
			limit:        10,
			contains:     []string{`where player_perspectives.name = ("First person","Side view");`},
			excludes:     []string{"genres.name ="},
		},
		{
			name:     "no filter",
			limit:    10,
			excludes: []string{"where"},
		},
		{
			name:     "limit clamped high",
			genres:   []string{"Puzzle"},
			limit:    10000,
			contains: []string{"limit 500;"},
		},
		{
			name:     "limit clamped low",
			genres:   []string{"Puzzle"},
			limit:    0,
			contains: []string{"limit 1;"},
		},
		{
			name:     "quotes escaped",
			genres:   []string{`Say "hi"`, `back\slash`},
			limit:    5,
			contains: []string{`("Say \"hi\"","back\\slash")`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := categoriesQuery(tt.genres, tt.perspectives, tt.limit)
			if !strings.HasPrefix(q, "fields ") {
				t.Errorf("query %q must start with fields", q)
			}
			for _, want := range tt.contains {
				if !strings.Contains(q, want) {
					t.Errorf("query %q missing %q", q, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(q, bad) {
					t.Errorf("query %q must not contain %q", q, bad)
				}
			}
		})
	}
}

func TestTrendingQuery(t *testing.T) {
	q := trendingQuery(72.5, 20)
	if !strings.Contains(q, "where total_rating >= 72.5 & total_rating_count > 0;") {
		t.Errorf("query %q missing rating clause", q)
	}
	if !strings.Contains(q, "sort total_rating_count desc;") {
		t.Errorf("query %q missing sort", q)
	}
}

func TestCoverURL(t *testing.T) {
	tests := []struct {
		name  string
		cover *igdbCover
		want  string
	}{
		{name: "nil", cover: nil, want: ""},
		{name: "image id", cover: &igdbCover{ImageID: "abc"}, want: "https://images.igdb.com/igdb/image/upload/t_cover_big/abc.jpg"},
		{name: "protocol relative", cover: &igdbCover{URL: "//cdn/x.jpg"}, want: "https://cdn/x.jpg"},
		{name: "absolute", cover: &igdbCover{URL: "https://cdn/x.jpg"}, want: "https://cdn/x.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cover.coverURL(); got != tt.want {
				t.Errorf("coverURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
