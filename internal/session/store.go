// Package session persists conversation state per user: recent turns plus
// the currently selected project and sprint. State lives in a SQLite
// database so context survives restarts.
package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
)

// Turn is one recorded exchange.
type Turn struct {
	UserMessage string
	Action      string
}

// Store is the SQLite-backed conversation store. Safe for concurrent use.
type Store struct {
	db           *sql.DB
	mu           sync.RWMutex
	historyLimit int
}

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	user_message TEXT NOT NULL,
	action TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_turns_user ON turns(user_id, id);

CREATE TABLE IF NOT EXISTS current_context (
	user_id INTEGER NOT NULL,
	kind TEXT NOT NULL,
	entity_json TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, kind)
);
`

// Open initializes the store at the given path, creating the parent
// directory and schema as needed.
func Open(path string, historyLimit int) (*Store, error) {
	timer := logging.StartTimer(logging.CategorySession, "session.Open")
	defer timer.Stop()

	if historyLimit <= 0 {
		historyLimit = 20
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.SessionDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.SessionDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Session("Session store opened at %s (history limit %d)", path, historyLimit)
	return &Store{db: db, historyLimit: historyLimit}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// RecordTurn appends one exchange to the user's history and prunes rows
// beyond the history limit.
func (s *Store) RecordTurn(userID int64, userMessage, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(
		"INSERT INTO turns (user_id, user_message, action) VALUES (?, ?, ?)",
		userID, userMessage, action,
	); err != nil {
		logging.SessionError("Failed to record turn for user %d: %v", userID, err)
		return fmt.Errorf("failed to record turn: %w", err)
	}

	if _, err := s.db.Exec(
		`DELETE FROM turns WHERE user_id = ? AND id NOT IN (
			SELECT id FROM turns WHERE user_id = ? ORDER BY id DESC LIMIT ?
		)`,
		userID, userID, s.historyLimit,
	); err != nil {
		logging.SessionDebug("Failed to prune history for user %d: %v", userID, err)
	}

	return nil
}

// RecentTurns returns up to limit most recent turns in chronological order.
// limit <= 0 uses the store's history limit.
func (s *Store) RecentTurns(userID int64, limit int) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = s.historyLimit
	}

	rows, err := s.db.Query(
		"SELECT user_message, action FROM turns WHERE user_id = ? ORDER BY id DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.UserMessage, &t.Action); err != nil {
			continue
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	// Newest-first from the query, flip to chronological
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// SetCurrent stores the user's currently selected entity of the given
// kind ("project" or "sprint"). A nil entity clears the selection.
func (s *Store) SetCurrent(userID int64, kind string, entity map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entity == nil {
		if _, err := s.db.Exec(
			"DELETE FROM current_context WHERE user_id = ? AND kind = ?",
			userID, kind,
		); err != nil {
			return fmt.Errorf("failed to clear current %s: %w", kind, err)
		}
		return nil
	}

	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}

	if _, err := s.db.Exec(
		`INSERT INTO current_context (user_id, kind, entity_json, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(user_id, kind) DO UPDATE SET
			entity_json = excluded.entity_json,
			updated_at = CURRENT_TIMESTAMP`,
		userID, kind, string(raw),
	); err != nil {
		logging.SessionError("Failed to store current %s for user %d: %v", kind, userID, err)
		return fmt.Errorf("failed to store current %s: %w", kind, err)
	}

	logging.SessionDebug("Current %s updated for user %d", kind, userID)
	return nil
}

// Current returns the user's selected entity of the given kind, or nil
// when none is set.
func (s *Store) Current(userID int64, kind string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRow(
		"SELECT entity_json FROM current_context WHERE user_id = ? AND kind = ?",
		userID, kind,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load current %s: %w", kind, err)
	}

	var entity map[string]any
	if err := json.Unmarshal([]byte(raw), &entity); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return entity, nil
}
