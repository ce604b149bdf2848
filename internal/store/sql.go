// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	"github.com/goccy/go-json"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/tomtom215/gamematch/internal/recommend"
	"github.com/tomtom215/gamematch/internal/recommend/interest"
)

// Dialect names a database/sql driver the SQL store can run on.
type Dialect string

const (
	// DialectDuckDB uses the CGO DuckDB driver.
	DialectDuckDB Dialect = "duckdb"

	// DialectSQLite uses the pure Go SQLite driver.
	DialectSQLite Dialect = "sqlite"
)

// schema is portable across both dialects.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		interests TEXT,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS saved_items (
		user_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		name TEXT,
		genres TEXT,
		perspectives TEXT,
		saved_at BIGINT NOT NULL,
		PRIMARY KEY (user_id, item_id)
	)`,
}

// SQLStore persists user records in a SQL database.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect

	// writeMu serializes read-modify-write sequences; neither engine
	// tolerates concurrent writers well without it.
	writeMu sync.Mutex
}

// OpenSQL opens the database at path and applies the schema. An empty path
// or ":memory:" opens a private in-memory database.
func OpenSQL(ctx context.Context, dialect Dialect, path string) (*SQLStore, error) {
	dsn, err := dataSourceName(dialect, path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// A second connection to :memory: would see a different database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	s := &SQLStore{db: db, dialect: dialect}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func dataSourceName(dialect Dialect, path string) (string, error) {
	inMemory := path == "" || path == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return "", fmt.Errorf("create database directory: %w", err)
		}
	}

	switch dialect {
	case DialectDuckDB:
		if inMemory {
			return "", nil
		}
		return path, nil
	case DialectSQLite:
		if inMemory {
			return ":memory:", nil
		}
		return path, nil
	default:
		return "", fmt.Errorf("unsupported SQL dialect %q", dialect)
	}
}

func (s *SQLStore) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// GetUser loads the user row and its saved items.
func (s *SQLStore) GetUser(ctx context.Context, userID string) (*recommend.UserRecord, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT interests FROM users WHERE id = ?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	rec := &recommend.UserRecord{ID: userID}
	if raw.Valid && raw.String != "" {
		v := interest.NewVector()
		if err := json.Unmarshal([]byte(raw.String), v); err != nil {
			return nil, fmt.Errorf("decode interests: %w", err)
		}
		rec.Interests = v
	}

	items, err := s.savedItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec.SavedItems = items
	return rec, nil
}

func (s *SQLStore) savedItems(ctx context.Context, userID string) ([]recommend.SavedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, name, genres, perspectives, saved_at
		 FROM saved_items WHERE user_id = ? ORDER BY saved_at, item_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query saved items: %w", err)
	}
	defer rows.Close()

	var items []recommend.SavedItem
	for rows.Next() {
		var (
			item                 recommend.SavedItem
			name                 sql.NullString
			genres, perspectives sql.NullString
			savedAt              int64
		)
		if err := rows.Scan(&item.ItemID, &name, &genres, &perspectives, &savedAt); err != nil {
			return nil, fmt.Errorf("scan saved item: %w", err)
		}
		item.Name = name.String
		if item.Genres, err = decodeLabels(genres); err != nil {
			return nil, err
		}
		if item.Perspectives, err = decodeLabels(perspectives); err != nil {
			return nil, err
		}
		item.SavedAt = time.Unix(0, savedAt).UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved items: %w", err)
	}
	return items, nil
}

// SaveInterests replaces the stored vector.
func (s *SQLStore) SaveInterests(ctx context.Context, userID string, v *interest.Vector) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode interests: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE users SET interests = ? WHERE id = ?`, string(data), userID)
	if err != nil {
		return fmt.Errorf("update interests: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update interests: %w", err)
	}
	if n == 0 {
		return notFound(userID)
	}
	return nil
}

// AddSavedItem inserts item unless its ID is already saved.
func (s *SQLStore) AddSavedItem(ctx context.Context, userID string, item recommend.SavedItem) (bool, error) {
	genres, err := json.Marshal(nonNil(item.Genres))
	if err != nil {
		return false, fmt.Errorf("encode genres: %w", err)
	}
	perspectives, err := json.Marshal(nonNil(item.Perspectives))
	if err != nil {
		return false, fmt.Errorf("encode perspectives: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	exists, err := s.exists(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, userID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, notFound(userID)
	}

	saved, err := s.exists(ctx, `SELECT COUNT(*) FROM saved_items WHERE user_id = ? AND item_id = ?`, userID, item.ItemID)
	if err != nil {
		return false, err
	}
	if saved {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saved_items (user_id, item_id, name, genres, perspectives, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, item.ItemID, item.Name, string(genres), string(perspectives), item.SavedAt.UnixNano())
	if err != nil {
		return false, fmt.Errorf("insert saved item: %w", err)
	}
	return true, nil
}

// RemoveSavedItem deletes the item row if present.
func (s *SQLStore) RemoveSavedItem(ctx context.Context, userID, itemID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	exists, err := s.exists(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	if !exists {
		return notFound(userID)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_items WHERE user_id = ? AND item_id = ?`, userID, itemID); err != nil {
		return fmt.Errorf("delete saved item: %w", err)
	}
	return nil
}

// CreateUser inserts an empty row if none exists.
func (s *SQLStore) CreateUser(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	data, err := json.Marshal(interest.NewVector())
	if err != nil {
		return fmt.Errorf("encode interests: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, interests, created_at) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING`,
		userID, string(data), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// ListUserIDs returns all user IDs in sorted order.
func (s *SQLStore) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return ids, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.dialect, err)
	}
	return nil
}

func (s *SQLStore) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count rows: %w", err)
	}
	return n > 0, nil
}

func decodeLabels(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var labels []string
	if err := json.Unmarshal([]byte(raw.String), &labels); err != nil {
		return nil, fmt.Errorf("decode labels: %w", err)
	}
	return labels, nil
}

func nonNil(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}
