// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/gamematch/internal/recommend"
	"github.com/tomtom215/gamematch/internal/recommend/interest"
)

// userPrefix namespaces user documents.
const userPrefix = "user:"

// maxTxnRetries bounds retries on optimistic transaction conflicts.
const maxTxnRetries = 16

// userDocument is the persisted form of a user record.
type userDocument struct {
	Interests  *interest.Vector      `json:"interests,omitempty"`
	SavedItems []recommend.SavedItem `json:"saved_items,omitempty"`
}

// BadgerStore persists user records in BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
}

// OpenBadger opens (or creates) a BadgerDB database in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	// Reduce logging verbosity
	opts.Logger = nil
	return openBadger(opts)
}

// OpenBadgerInMemory opens a BadgerDB instance that never touches disk.
func OpenBadgerInMemory() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func userKey(userID string) []byte {
	return []byte(userPrefix + userID)
}

// GetUser loads the user's document.
func (s *BadgerStore) GetUser(ctx context.Context, userID string) (*recommend.UserRecord, error) {
	if err := s.checkNotClosed(); err != nil {
		return nil, err
	}

	var doc *userDocument
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		doc, err = readDocument(txn, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &recommend.UserRecord{ID: userID, Interests: doc.Interests, SavedItems: doc.SavedItems}, nil
}

// SaveInterests replaces the stored vector.
func (s *BadgerStore) SaveInterests(ctx context.Context, userID string, v *interest.Vector) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		doc, err := readDocument(txn, userID)
		if err != nil {
			return err
		}
		doc.Interests = v
		return writeDocument(txn, userID, doc)
	})
}

// AddSavedItem appends item unless its ID is already saved.
func (s *BadgerStore) AddSavedItem(ctx context.Context, userID string, item recommend.SavedItem) (bool, error) {
	var added bool
	err := s.update(ctx, func(txn *badger.Txn) error {
		added = false
		doc, err := readDocument(txn, userID)
		if err != nil {
			return err
		}
		for i := range doc.SavedItems {
			if doc.SavedItems[i].ItemID == item.ItemID {
				return nil
			}
		}
		doc.SavedItems = append(doc.SavedItems, item)
		added = true
		return writeDocument(txn, userID, doc)
	})
	return added, err
}

// RemoveSavedItem drops the item with itemID if present.
func (s *BadgerStore) RemoveSavedItem(ctx context.Context, userID, itemID string) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		doc, err := readDocument(txn, userID)
		if err != nil {
			return err
		}
		for i := range doc.SavedItems {
			if doc.SavedItems[i].ItemID == itemID {
				doc.SavedItems = append(doc.SavedItems[:i:i], doc.SavedItems[i+1:]...)
				return writeDocument(txn, userID, doc)
			}
		}
		return nil
	})
}

// CreateUser writes an empty document if the key is absent.
func (s *BadgerStore) CreateUser(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	return s.update(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(userKey(userID))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get user: %w", err)
		}
		return writeDocument(txn, userID, &userDocument{Interests: interest.NewVector()})
	})
}

// ListUserIDs scans the user key prefix.
func (s *BadgerStore) ListUserIDs(ctx context.Context) ([]string, error) {
	if err := s.checkNotClosed(); err != nil {
		return nil, err
	}

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(userPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), userPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

// RunGC triggers BadgerDB value log garbage collection.
func (s *BadgerStore) RunGC() error {
	if err := s.checkNotClosed(); err != nil {
		return err
	}
	for {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// update runs fn in a read-write transaction, retrying on conflicts.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := s.checkNotClosed(); err != nil {
		return err
	}
	var err error
	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("transaction conflict after %d attempts: %w", maxTxnRetries, err)
}

func (s *BadgerStore) checkNotClosed() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// readDocument reads and decodes a user document.
func readDocument(txn *badger.Txn, userID string) (*userDocument, error) {
	item, err := txn.Get(userKey(userID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, notFound(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var doc userDocument
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &doc, nil
}

// writeDocument encodes and stores a user document.
func writeDocument(txn *badger.Txn, userID string, doc *userDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return txn.Set(userKey(userID), data)
}
