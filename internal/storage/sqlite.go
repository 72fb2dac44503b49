// Package storage keeps the ledger of finished runs in an in-memory SQLite
// database. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies. Nothing is written to disk: the ledger lives exactly as long
// as the process.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/gridsnake/internal/snake"
)

// memoryDSN opens a private in-memory database.
const memoryDSN = ":memory:"

// Store manages the SQLite connection for the run ledger.
type Store struct {
	db      *sql.DB
	session string
}

// RunEntry represents a single finished run.
type RunEntry struct {
	ID        int64
	Session   string
	Variant   string
	Score     int
	Length    int
	Ticks     int64
	Reason    snake.EndReason
	StartedAt time.Time
	EndedAt   time.Time
}

// VariantStats contains aggregated statistics for a variant.
type VariantStats struct {
	Variant   string
	Runs      int
	BestScore int
	AvgScore  float64
	Wins      int
	LastEnded time.Time
}

// Open creates the in-memory ledger and runs migrations.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Every new connection to :memory: is a separate, empty database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
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
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL DEFAULT '',
			variant TEXT NOT NULL,
			score INTEGER NOT NULL,
			length INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			reason TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_variant ON runs(variant);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(variant, score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_session ON runs(session);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection. The ledger is gone afterwards.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ForSession returns a view of the store that tags recorded runs with
// session. The views share the underlying database.
func (s *Store) ForSession(session string) *Store {
	return &Store{db: s.db, session: session}
}

// RecordRun implements snake.RunRecorder.
func (s *Store) RecordRun(run snake.RunResult) error {
	_, err := s.SaveRun(run)
	return err
}

// Ensure Store implements RunRecorder
var _ snake.RunRecorder = (*Store)(nil)

// SaveRun records a finished run and returns its ID.
func (s *Store) SaveRun(run snake.RunResult) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (session, variant, score, length, ticks, reason, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.session, run.Variant, run.Score, run.Length, int64(run.Ticks), string(run.Reason),
		run.StartedAt.UnixNano(), run.EndedAt.UnixNano(),
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

// TopRuns retrieves the best N runs for a variant, ordered by score
// descending. An empty variant matches every variant.
func (s *Store) TopRuns(variant string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session, variant, score, length, ticks, reason, started_at, ended_at
		 FROM runs
		 WHERE ? = '' OR variant = ?
		 ORDER BY score DESC, ended_at ASC
		 LIMIT ?`,
		variant, variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// SessionRuns retrieves the runs of one session, most recent first.
func (s *Store) SessionRuns(session string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session, variant, score, length, ticks, reason, started_at, ended_at
		 FROM runs
		 WHERE session = ?
		 ORDER BY ended_at DESC, id DESC
		 LIMIT ?`,
		session, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunEntry, error) {
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var reason string
		var started, ended int64
		if err := rows.Scan(&e.ID, &e.Session, &e.Variant, &e.Score, &e.Length, &e.Ticks,
			&reason, &started, &ended); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Reason = snake.EndReason(reason)
		e.StartedAt = time.Unix(0, started)
		e.EndedAt = time.Unix(0, ended)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestScore returns the highest score for the variant across all sessions.
// An empty variant matches every variant. Returns 0 if no runs exist.
func (s *Store) BestScore(variant string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE ? = '' OR variant = ?",
		variant, variant,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// Stats retrieves aggregated statistics for every variant that has runs.
func (s *Store) Stats() (map[string]*VariantStats, error) {
	rows, err := s.db.Query(
		`SELECT variant, COUNT(*), MAX(score), AVG(score),
		        SUM(CASE WHEN reason = ? THEN 1 ELSE 0 END), MAX(ended_at)
		 FROM runs
		 GROUP BY variant`,
		string(snake.ReasonBoardFull),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*VariantStats)
	for rows.Next() {
		var v VariantStats
		var lastEnded int64
		if err := rows.Scan(&v.Variant, &v.Runs, &v.BestScore, &v.AvgScore, &v.Wins, &lastEnded); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		v.LastEnded = time.Unix(0, lastEnded)
		stats[v.Variant] = &v
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// Clear deletes the runs of the variant; an empty variant matches every
// variant. A session view only deletes its own runs, the root store
// deletes runs of every session.
func (s *Store) Clear(variant string) error {
	_, err := s.db.Exec(
		`DELETE FROM runs
		 WHERE (? = '' OR variant = ?) AND (? = '' OR session = ?)`,
		variant, variant, s.session, s.session,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}
