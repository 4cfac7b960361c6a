// Package storage provides SQLite-based persistence for high scores and
// finished runs. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-runner/internal/runner"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry is one finished run.
type RunEntry struct {
	ID        int64
	SessionID string
	Level     string
	Character string
	Score     int
	CreatedAt time.Time
}

// HighScoreEntry is one persisted high score.
type HighScoreEntry struct {
	Key       string
	Value     int
	UpdatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS high_scores (
			key TEXT PRIMARY KEY,
			value INTEGER NOT NULL CHECK (value >= 0),
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			level TEXT NOT NULL,
			character TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(level, character, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the high score stored under key and whether one exists.
func (s *Store) Get(key string) (int, bool, error) {
	var value int
	err := s.db.QueryRow("SELECT value FROM high_scores WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	return value, true, nil
}

// Set stores value under key. An existing higher value is kept, so a
// high score can never be lowered by a stale write.
func (s *Store) Set(key string, value int) error {
	if value < 0 {
		return fmt.Errorf("storage: negative high score %d", value)
	}
	_, err := s.db.Exec(
		`INSERT INTO high_scores (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET
		   value = MAX(value, excluded.value),
		   updated_at = CASE WHEN excluded.value > value THEN excluded.updated_at ELSE updated_at END`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save high score: %w", err)
	}
	return nil
}

// HighScores lists every stored high score, best first.
func (s *Store) HighScores() ([]HighScoreEntry, error) {
	rows, err := s.db.Query(
		`SELECT key, value, updated_at
		 FROM high_scores
		 ORDER BY value DESC, key`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query high scores: %w", err)
	}
	defer rows.Close()

	var entries []HighScoreEntry
	for rows.Next() {
		var e HighScoreEntry
		var updatedAt any
		if err := rows.Scan(&e.Key, &e.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(run RunEntry) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (session_id, level, character, score) VALUES (?, ?, ?, ?)",
		run.SessionID, run.Level, run.Character, run.Score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecordRun implements runner.RunRecorder.
func (s *Store) RecordRun(sessionID, level, character string, score int) error {
	_, err := s.SaveRun(RunEntry{
		SessionID: sessionID,
		Level:     level,
		Character: character,
		Score:     score,
	})
	return err
}

// TopRuns retrieves the best N runs for a level and character.
// An empty character matches every character.
func (s *Store) TopRuns(level, character string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, level, character, score, created_at
		 FROM runs
		 WHERE level = ? AND (? = '' OR character = ?)
		 ORDER BY score DESC, id
		 LIMIT ?`,
		level, character, character, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Level, &e.Character, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ClearScores deletes the runs and the high score of a level and character.
func (s *Store) ClearScores(level, character string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM runs WHERE level = ? AND character = ?", level, character); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM high_scores WHERE key = ?", runner.HighScoreKey(level, character)); err != nil {
		return fmt.Errorf("storage: cannot clear high score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// CharacterStats contains aggregated statistics for one character.
type CharacterStats struct {
	Level      string
	Character  string
	RunsCount  int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// GetCharacterStats retrieves aggregated statistics for a level and character.
// The high score comes from high_scores, which may exceed the best recorded run.
func (s *Store) GetCharacterStats(level, character string) (*CharacterStats, error) {
	stats := &CharacterStats{Level: level, Character: character}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(AVG(score), 0), MAX(created_at)
		 FROM runs WHERE level = ? AND character = ?`,
		level, character,
	).Scan(&stats.RunsCount, &stats.AvgScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get character stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	high, _, err := s.Get(runner.HighScoreKey(level, character))
	if err != nil {
		return nil, err
	}
	stats.HighScore = high

	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var (
	_ runner.HighScoreStore = (*Store)(nil)
	_ runner.RunRecorder    = (*Store)(nil)
)
