// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/gamematch/internal/recommend/interest"
)

// CatalogItem is a game as returned by the catalog. It is read-only and never
// persisted by the engine.
type CatalogItem struct {
	// ID is the catalog's opaque identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the display title.
	Name string `json:"name" yaml:"name"`

	// Cover is a reference to the cover image.
	Cover string `json:"cover,omitempty" yaml:"cover"`

	// Summary is free-text description.
	Summary string `json:"summary,omitempty" yaml:"summary"`

	// Genres holds canonical genre labels.
	Genres []string `json:"genres" yaml:"genres"`

	// Perspectives holds canonical player perspective labels.
	Perspectives []string `json:"perspectives" yaml:"perspectives"`

	// Rating is the aggregated rating (0-100), when the catalog reports one.
	Rating float64 `json:"rating,omitempty" yaml:"rating"`

	// RatingCount is the number of ratings behind Rating.
	RatingCount int `json:"rating_count" yaml:"rating_count"`
}

// CategoryFilter selects items matching any listed genre OR any listed
// perspective.
type CategoryFilter struct {
	Genres       []string `json:"genres"`
	Perspectives []string `json:"perspectives"`
}

// Empty reports whether the filter names no categories.
func (f CategoryFilter) Empty() bool {
	return len(f.Genres) == 0 && len(f.Perspectives) == 0
}

// CatalogSource is the remote game catalog. Failures must wrap
// ErrCatalogUnavailable; rate limiting must wrap ErrRateLimited.
type CatalogSource interface {
	// QueryByCategories returns up to limit items matching the filter.
	QueryByCategories(ctx context.Context, filter CategoryFilter, limit int) ([]CatalogItem, error)

	// QueryTrending returns up to limit popular items rated at least minRating.
	QueryTrending(ctx context.Context, minRating float64, limit int) ([]CatalogItem, error)
}

// SavedItem is a game a user saved, with the labels it carried at save time.
type SavedItem struct {
	ItemID       string    `json:"item_id"`
	Name         string    `json:"name,omitempty"`
	Genres       []string  `json:"genres"`
	Perspectives []string  `json:"perspectives"`
	SavedAt      time.Time `json:"saved_at"`
}

// UserRecord is what the store keeps per user.
type UserRecord struct {
	ID         string           `json:"id"`
	Interests  *interest.Vector `json:"interests"`
	SavedItems []SavedItem      `json:"saved_items"`
}

// UserStore persists user records. Implementations live in internal/store.
type UserStore interface {
	// GetUser returns the record or an error wrapping ErrUserNotFound.
	GetUser(ctx context.Context, userID string) (*UserRecord, error)

	// SaveInterests replaces the stored interest vector.
	SaveInterests(ctx context.Context, userID string, v *interest.Vector) error

	// AddSavedItem records a save and reports whether it was new.
	AddSavedItem(ctx context.Context, userID string, item SavedItem) (bool, error)

	// RemoveSavedItem deletes a save. Removing an absent item is not an error.
	RemoveSavedItem(ctx context.Context, userID, itemID string) error

	// CreateUser creates an empty record. Existing users are left untouched.
	CreateUser(ctx context.Context, userID string) error

	// ListUserIDs returns every known user.
	ListUserIDs(ctx context.Context) ([]string, error)
}

// Recommendation is the caller-facing result. It carries display fields and a
// match percentage only.
type Recommendation struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Cover           string   `json:"cover"`
	Summary         string   `json:"summary"`
	Genres          []string `json:"genres"`
	Perspectives    []string `json:"perspectives"`
	MatchPercentage int      `json:"matchPercentage"`
	RatingCount     int      `json:"ratingCount"`
}

// Source tells where a response's items came from.
type Source string

const (
	// SourceCatalog means the primary catalog query succeeded.
	SourceCatalog Source = "catalog"

	// SourceFallback means the local fallback catalog was used.
	SourceFallback Source = "fallback"

	// SourceEmpty means the user has no interest signal yet.
	SourceEmpty Source = "empty"
)

// Response contains recommendations and request metadata.
type Response struct {
	// Items are the recommendations in display order.
	Items []Recommendation `json:"items"`

	// Metadata describes how the response was produced.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains response context.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// UserID is the requesting user.
	UserID string `json:"user_id"`

	// Source is where the items came from.
	Source Source `json:"source"`

	// Categories are the interest labels the catalog was queried with.
	Categories []string `json:"categories,omitempty"`

	// TrendingCount is how many trending items were mixed in.
	TrendingCount int `json:"trending_count"`

	// Backfilled is true when interests were rebuilt from saved items.
	Backfilled bool `json:"backfilled,omitempty"`

	// LatencyMS is the processing time in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Requests      int64 `json:"requests"`
	Fallbacks     int64 `json:"fallbacks"`
	RateLimited   int64 `json:"rate_limited"`
	Empty         int64 `json:"empty"`
	Backfills     int64 `json:"backfills"`
	TrendingMixed int64 `json:"trending_mixed"`
	Errors        int64 `json:"errors"`
}
