// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/gamematch/internal/recommend"
	"github.com/tomtom215/gamematch/internal/recommend/taxonomy"
)

// coverURLTemplate expands an image ID into a cover-sized image URL.
const coverURLTemplate = "https://images.igdb.com/igdb/image/upload/t_cover_big/%s.jpg"

// igdbGame is one element of the /games response array.
type igdbGame struct {
	ID                 int64       `json:"id"`
	Name               string      `json:"name"`
	Cover              *igdbCover  `json:"cover,omitempty"`
	Summary            string      `json:"summary,omitempty"`
	Genres             []igdbNamed `json:"genres,omitempty"`
	PlayerPerspectives []igdbNamed `json:"player_perspectives,omitempty"`
	TotalRating        float64     `json:"total_rating,omitempty"`
	TotalRatingCount   int         `json:"total_rating_count,omitempty"`
}

type igdbCover struct {
	ImageID string `json:"image_id,omitempty"`
	URL     string `json:"url,omitempty"`
}

type igdbNamed struct {
	Name string `json:"name"`
}

// coverURL prefers the image ID, falling back to the protocol-relative URL.
func (c *igdbCover) coverURL() string {
	if c == nil {
		return ""
	}
	if c.ImageID != "" {
		return fmt.Sprintf(coverURLTemplate, c.ImageID)
	}
	if strings.HasPrefix(c.URL, "//") {
		return "https:" + c.URL
	}
	return c.URL
}

// toItems converts wire games to catalog items, dropping entries without an
// ID or a name.
func toItems(games []igdbGame, tax *taxonomy.Taxonomy) []recommend.CatalogItem {
	items := make([]recommend.CatalogItem, 0, len(games))
	for i := range games {
		g := &games[i]
		if g.ID == 0 || strings.TrimSpace(g.Name) == "" {
			continue
		}
		items = append(items, recommend.CatalogItem{
			ID:           strconv.FormatInt(g.ID, 10),
			Name:         g.Name,
			Cover:        g.Cover.coverURL(),
			Summary:      g.Summary,
			Genres:       tax.NormalizeAll(names(g.Genres)),
			Perspectives: tax.NormalizeAll(names(g.PlayerPerspectives)),
			Rating:       g.TotalRating,
			RatingCount:  g.TotalRatingCount,
		})
	}
	return items
}

func names(named []igdbNamed) []string {
	out := make([]string, 0, len(named))
	for _, n := range named {
		out = append(out, n.Name)
	}
	return out
}
