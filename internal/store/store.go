// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gamematch/internal/config"
	"github.com/tomtom215/gamematch/internal/metrics"
	"github.com/tomtom215/gamematch/internal/recommend"
	"github.com/tomtom215/gamematch/internal/recommend/interest"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store is a closable user store.
type Store interface {
	recommend.UserStore
	Close() error
}

// GarbageCollector is implemented by backends that need periodic compaction.
type GarbageCollector interface {
	RunGC() error
}

// AsGarbageCollector returns the backend behind s when it needs periodic GC.
func AsGarbageCollector(s Store) (GarbageCollector, bool) {
	for {
		if gc, ok := s.(GarbageCollector); ok {
			return gc, true
		}
		u, ok := s.(interface{ Unwrap() Store })
		if !ok {
			return nil, false
		}
		s = u.Unwrap()
	}
}

// Open creates the backend named by cfg.Backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg *config.StoreConfig, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "store").Str("backend", cfg.Backend).Logger()

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case config.StoreMemory:
		s = NewMemoryStore()
	case config.StoreBadger:
		s, err = OpenBadger(cfg.Path)
	case config.StoreDuckDB:
		s, err = OpenSQL(ctx, DialectDuckDB, cfg.Path)
	case config.StoreSQLite:
		s, err = OpenSQL(ctx, DialectSQLite, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().Str("path", cfg.Path).Msg("user store opened")
	return Instrument(s, cfg.Backend), nil
}

// Instrument wraps s so every operation is recorded in Prometheus.
// Missing users are an expected outcome and are not counted as errors.
func Instrument(s Store, backend string) Store {
	return &instrumented{next: s, backend: backend}
}

type instrumented struct {
	next    Store
	backend string
}

func (i *instrumented) record(op string, start time.Time, err error) {
	if errors.Is(err, recommend.ErrUserNotFound) {
		err = nil
	}
	metrics.RecordStoreOperation(i.backend, op, time.Since(start), err)
}

func (i *instrumented) GetUser(ctx context.Context, userID string) (*recommend.UserRecord, error) {
	start := time.Now()
	rec, err := i.next.GetUser(ctx, userID)
	i.record("get_user", start, err)
	return rec, err
}

func (i *instrumented) SaveInterests(ctx context.Context, userID string, v *interest.Vector) error {
	start := time.Now()
	err := i.next.SaveInterests(ctx, userID, v)
	i.record("save_interests", start, err)
	return err
}

func (i *instrumented) AddSavedItem(ctx context.Context, userID string, item recommend.SavedItem) (bool, error) {
	start := time.Now()
	added, err := i.next.AddSavedItem(ctx, userID, item)
	i.record("add_saved_item", start, err)
	return added, err
}

func (i *instrumented) RemoveSavedItem(ctx context.Context, userID, itemID string) error {
	start := time.Now()
	err := i.next.RemoveSavedItem(ctx, userID, itemID)
	i.record("remove_saved_item", start, err)
	return err
}

func (i *instrumented) CreateUser(ctx context.Context, userID string) error {
	start := time.Now()
	err := i.next.CreateUser(ctx, userID)
	i.record("create_user", start, err)
	return err
}

func (i *instrumented) ListUserIDs(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := i.next.ListUserIDs(ctx)
	i.record("list_users", start, err)
	return ids, err
}

// Unwrap returns the instrumented backend.
func (i *instrumented) Unwrap() Store {
	return i.next
}

func (i *instrumented) Close() error {
	return i.next.Close()
}

// notFound wraps ErrUserNotFound with the user ID.
func notFound(userID string) error {
	return fmt.Errorf("%w: %s", recommend.ErrUserNotFound, userID)
}

// cloneRecord deep-copies a record.
func cloneRecord(rec *recommend.UserRecord) *recommend.UserRecord {
	out := &recommend.UserRecord{ID: rec.ID}
	if rec.Interests != nil {
		out.Interests = rec.Interests.Clone()
	}
	if len(rec.SavedItems) > 0 {
		out.SavedItems = make([]recommend.SavedItem, len(rec.SavedItems))
		for i, item := range rec.SavedItems {
			out.SavedItems[i] = cloneItem(item)
		}
	}
	return out
}

func cloneItem(item recommend.SavedItem) recommend.SavedItem {
	item.Genres = append([]string(nil), item.Genres...)
	item.Perspectives = append([]string(nil), item.Perspectives...)
	return item
}

// validateUserID rejects empty IDs before they reach a backend.
func validateUserID(userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	return nil
}
