// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/gamematch/internal/recommend"
	"github.com/tomtom215/gamematch/internal/recommend/interest"
)

// MemoryStore keeps user records in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]*recommend.UserRecord
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*recommend.UserRecord)}
}

// GetUser returns a copy of the user's record.
func (s *MemoryStore) GetUser(ctx context.Context, userID string) (*recommend.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	rec, ok := s.users[userID]
	if !ok {
		return nil, notFound(userID)
	}
	return cloneRecord(rec), nil
}

// SaveInterests replaces the user's interest vector.
func (s *MemoryStore) SaveInterests(ctx context.Context, userID string, v *interest.Vector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	rec, ok := s.users[userID]
	if !ok {
		return notFound(userID)
	}
	rec.Interests = v.Clone()
	return nil
}

// AddSavedItem appends item unless its ID is already saved.
func (s *MemoryStore) AddSavedItem(ctx context.Context, userID string, item recommend.SavedItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	rec, ok := s.users[userID]
	if !ok {
		return false, notFound(userID)
	}
	for i := range rec.SavedItems {
		if rec.SavedItems[i].ItemID == item.ItemID {
			return false, nil
		}
	}
	rec.SavedItems = append(rec.SavedItems, cloneItem(item))
	return true, nil
}

// RemoveSavedItem drops the item with itemID if present.
func (s *MemoryStore) RemoveSavedItem(ctx context.Context, userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	rec, ok := s.users[userID]
	if !ok {
		return notFound(userID)
	}
	for i := range rec.SavedItems {
		if rec.SavedItems[i].ItemID == itemID {
			rec.SavedItems = append(rec.SavedItems[:i:i], rec.SavedItems[i+1:]...)
			return nil
		}
	}
	return nil
}

// CreateUser adds an empty record if none exists.
func (s *MemoryStore) CreateUser(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.users[userID]; !ok {
		s.users[userID] = &recommend.UserRecord{ID: userID, Interests: interest.NewVector()}
	}
	return nil
}

// ListUserIDs returns all user IDs in sorted order.
func (s *MemoryStore) ListUserIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
