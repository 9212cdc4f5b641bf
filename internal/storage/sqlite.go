// Package storage provides an opt-in SQLite log of training runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// Only run metadata and per-episode summaries are stored; the learned
// Q-table lives in memory for the lifetime of the process.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrRunNotFound is returned when a run ID has no matching row.
var ErrRunNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for the run log.
type Store struct {
	db *sql.DB
}

// Run is one training invocation.
type Run struct {
	ID         string
	Seed       int64
	Episodes   int
	States     int
	BestReward float64
	CreatedAt  time.Time
}

// EpisodeRecord is the summary of one training episode within a run.
type EpisodeRecord struct {
	RunID       string
	Episode     int
	TotalReward float64
	Steps       int
	Epsilon     float64
	Survival    float64
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

	// SQLite leaves foreign keys off per connection unless asked.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
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
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			episodes INTEGER NOT NULL,
			states INTEGER NOT NULL DEFAULT 0,
			best_reward REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS episodes (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			episode INTEGER NOT NULL,
			total_reward REAL NOT NULL,
			steps INTEGER NOT NULL,
			epsilon REAL NOT NULL,
			survival REAL NOT NULL,
			PRIMARY KEY (run_id, episode)
		);
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

// SaveRun inserts a run and returns its ID. A fresh UUID is assigned when
// run.ID is empty.
func (s *Store) SaveRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		"INSERT INTO runs (id, seed, episodes, states, best_reward) VALUES (?, ?, ?, ?, ?)",
		run.ID, run.Seed, run.Episodes, run.States, run.BestReward,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return run.ID, nil
}

// FinishRun records the final table size and best episode reward of a run.
func (s *Store) FinishRun(runID string, states int, bestReward float64) error {
	res, err := s.db.Exec(
		"UPDATE runs SET states = ?, best_reward = ? WHERE id = ?",
		states, bestReward, runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

// SaveEpisode appends an episode summary to its run.
func (s *Store) SaveEpisode(rec EpisodeRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO episodes (run_id, episode, total_reward, steps, epsilon, survival)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Episode, rec.TotalReward, rec.Steps, rec.Epsilon, rec.Survival,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save episode %d: %w", rec.Episode, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, episodes, states, best_reward, created_at
		 FROM runs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Seed, &r.Episodes, &r.States, &r.BestReward, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID returns a single run.
func (s *Store) RunByID(runID string) (*Run, error) {
	var r Run
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, seed, episodes, states, best_reward, created_at FROM runs WHERE id = ?`,
		runID,
	).Scan(&r.ID, &r.Seed, &r.Episodes, &r.States, &r.BestReward, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// RunEpisodes returns the episodes of a run in episode order.
func (s *Store) RunEpisodes(runID string) ([]EpisodeRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, episode, total_reward, steps, epsilon, survival
		 FROM episodes
		 WHERE run_id = ?
		 ORDER BY episode`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var out []EpisodeRecord
	for rows.Next() {
		var e EpisodeRecord
		if err := rows.Scan(&e.RunID, &e.Episode, &e.TotalReward, &e.Steps, &e.Epsilon, &e.Survival); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// parseTime handles both time.Time and string datetime values.
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
