// Package store persists the local quiz history in a SQLite database.
//
// Each user's history lives under one durable key as a JSON-serialized
// list: it is read once when the user first needs it and rewritten in full
// on every append. The database is an opaque blob holder, not a query
// surface.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmoura/simulado/internal/model"

	_ "modernc.org/sqlite"
)

const historyKeyPrefix = "history:"

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// LoadHistory reads a user's full history list. A missing key means no
// history yet and returns an empty list.
func (s *Store) LoadHistory(email string) ([]model.HistoryItem, error) {
	value, err := s.getState(historyKeyPrefix + email)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if value == "" {
		return nil, nil
	}

	var items []model.HistoryItem
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return nil, fmt.Errorf("parse stored history: %w", err)
	}
	return items, nil
}

// SaveHistory rewrites a user's full history list under their key.
func (s *Store) SaveHistory(email string, items []model.HistoryItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := s.setState(historyKeyPrefix+email, string(data)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// ExportHistories returns every stored history list keyed by user e-mail.
func (s *Store) ExportHistories() (map[string][]model.HistoryItem, error) {
	rows, err := s.db.Query(
		`SELECT key, value FROM app_state WHERE key LIKE ?`,
		historyKeyPrefix+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query histories: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.HistoryItem)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		var items []model.HistoryItem
		if err := json.Unmarshal([]byte(value), &items); err != nil {
			return nil, fmt.Errorf("parse stored history for %q: %w", key, err)
		}
		out[strings.TrimPrefix(key, historyKeyPrefix)] = items
	}
	return out, rows.Err()
}

// setState upserts a key-value pair in the app_state table.
func (s *Store) setState(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// getState returns the value for a state key. Returns empty string and nil
// error if the key is missing.
func (s *Store) getState(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
