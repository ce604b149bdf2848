// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package catalog

import (
	"strconv"
	"strings"
)

// maxQueryLimit is the upstream page size ceiling.
const maxQueryLimit = 500

// gameFields is the projection shared by every query.
const gameFields = "fields name,cover.image_id,cover.url,summary,genres.name," +
	"player_perspectives.name,total_rating,total_rating_count;"

// categoriesQuery builds a query matching any of the genre OR perspective names,
// most-rated first.
func categoriesQuery(genres, perspectives []string, limit int) string {
	var clauses []string
	if len(genres) > 0 {
		clauses = append(clauses, "genres.name = "+quoteList(genres))
	}
	if len(perspectives) > 0 {
		clauses = append(clauses, "player_perspectives.name = "+quoteList(perspectives))
	}

	var b strings.Builder
	b.WriteString(gameFields)
	if len(clauses) > 0 {
		b.WriteString(" where ")
		b.WriteString(strings.Join(clauses, " | "))
		b.WriteString(";")
	}
	b.WriteString(" sort total_rating_count desc;")
	b.WriteString(" limit ")
	b.WriteString(strconv.Itoa(clampLimit(limit)))
	b.WriteString(";")
	return b.String()
}

// trendingQuery builds a query for well-rated popular games.
func trendingQuery(minRating float64, limit int) string {
	var b strings.Builder
	b.WriteString(gameFields)
	b.WriteString(" where total_rating >= ")
	b.WriteString(strconv.FormatFloat(minRating, 'f', -1, 64))
	b.WriteString(" & total_rating_count > 0;")
	b.WriteString(" sort total_rating_count desc;")
	b.WriteString(" limit ")
	b.WriteString(strconv.Itoa(clampLimit(limit)))
	b.WriteString(";")
	return b.String()
}

// quoteList renders ("a","b") with embedded quotes and backslashes escaped.
func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		quoted[i] = `"` + v + `"`
	}
	return "(" + strings.Join(quoted, ",") + ")"
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxQueryLimit {
		return maxQueryLimit
	}
	return limit
}
