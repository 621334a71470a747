// Package localstore is the local record backend: one serialized JSON
// array of records per user key, the same layout the browser's local
// storage would hold. A SQLite file carries the key/value pairs so the
// history survives restarts.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	domain "github.com/swasthya-ai/swasthya/internal/domain/analysis"
)

const keyPrefix = "healthRecords:"

// storedRecord is the serialized form; timestamps travel as ISO-8601 text.
type storedRecord struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Type      string          `json:"analysisType"`
	Timestamp string          `json:"timestamp"`
	MediaURL  string          `json:"mediaUrl,omitempty"`
	Result    json.RawMessage `json:"result"`
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the backing database in dataDir. Pass
// ":memory:" for an in-memory store (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "records.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Single connection: the read-modify-write in Save must not interleave
	// with another writer for the same key.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS user_records (
		user_key     TEXT PRIMARY KEY,
		records_json TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating user_records table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func userKey(userID string) string { return keyPrefix + userID }

// Save appends one record to the user's serialized array. The full
// read-modify-write happens inside one transaction, so a concurrent
// sibling save cannot be lost.
func (s *Store) Save(ctx context.Context, rec *domain.Record) error {
	if strings.TrimSpace(rec.UserID) == "" {
		return domain.ErrEmptyUserID
	}
	createdAt := rec.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	entry := storedRecord{
		ID:        string(rec.ID),
		UserID:    rec.UserID,
		Type:      string(rec.Type),
		Timestamp: createdAt.UTC().Format(time.RFC3339Nano),
		MediaURL:  rec.MediaURL,
		Result:    rec.Result,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx,
		"SELECT records_json FROM user_records WHERE user_key = ?", userKey(rec.UserID),
	).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reading record array: %w", err)
	}

	var arr []storedRecord
	if existing != "" {
		if err := json.Unmarshal([]byte(existing), &arr); err != nil {
			return fmt.Errorf("decoding record array: %w", err)
		}
	}
	arr = append(arr, entry)

	updated, err := json.Marshal(arr)
	if err != nil {
		return fmt.Errorf("encoding record array: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO user_records (user_key, records_json) VALUES (?, ?)
ON CONFLICT(user_key) DO UPDATE SET records_json = excluded.records_json`,
		userKey(rec.UserID), string(updated),
	); err != nil {
		return fmt.Errorf("writing record array: %w", err)
	}
	return tx.Commit()
}

// List returns the user's records newest-first. Ties keep the
// last-appended record first; unknown users get an empty slice.
func (s *Store) List(ctx context.Context, userID string) ([]*domain.Record, error) {
	out := []*domain.Record{}
	if strings.TrimSpace(userID) == "" {
		return out, nil
	}

	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT records_json FROM user_records WHERE user_key = ?", userKey(userID),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading record array: %w", err)
	}

	var arr []storedRecord
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		return nil, fmt.Errorf("decoding record array: %w", err)
	}

	for i := len(arr) - 1; i >= 0; i-- {
		entry := arr[i]
		ts, err := time.Parse(time.RFC3339Nano, entry.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", entry.Timestamp, err)
		}
		out = append(out, &domain.Record{
			ID:        domain.RecordID(entry.ID),
			UserID:    entry.UserID,
			Type:      domain.Type(entry.Type),
			Timestamp: ts.UTC(),
			MediaURL:  entry.MediaURL,
			Result:    entry.Result,
		})
	}
	// Append order correlates with timestamps; the stable sort keeps the
	// reversed (last-appended-first) order for equal instants.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Ping reports whether the backing database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
