// Package storage provides SQLite-based persistence for session results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// Result is the outcome of one watched session: the local player's final
// snake size when the game-over frame arrived.
type Result struct {
	ID        int64
	Session   string // viewer session ID, one per watch or SSH connection
	Feed      string // registry feed ID or recording name
	Player    string
	Size      int
	Ticks     int    // frames seen before game over
	Reason    string // "game over", "eof", "quit"
	CreatedAt time.Time
}

// Stats contains aggregated statistics for a feed.
type Stats struct {
	Feed       string
	Sessions   int
	BestSize   int
	AvgSize    float64
	LastPlayed time.Time
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

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL,
			feed TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_feed ON results(feed);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(feed, size DESC);
		CREATE INDEX IF NOT EXISTS idx_results_session ON results(session);
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

// SaveResult records a session result.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(r Result) (int64, error) {
	if r.Session == "" || r.Feed == "" {
		return 0, errors.New("storage: result needs a session and a feed")
	}
	res, err := s.db.Exec(
		`INSERT INTO results (session, feed, player, size, ticks, reason)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Session, r.Feed, r.Player, r.Size, r.Ticks, r.Reason,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopResults retrieves the top N results for the given feed.
// Results are ordered by size descending, then oldest first.
func (s *Store) TopResults(feed string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session, feed, player, size, ticks, reason, created_at
		 FROM results
		 WHERE feed = ?
		 ORDER BY size DESC, id ASC
		 LIMIT ?`,
		feed, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

// SessionResults retrieves every result recorded by one viewer session,
// in insertion order.
func (s *Store) SessionResults(session string) ([]Result, error) {
	rows, err := s.db.Query(
		`SELECT id, session, feed, player, size, ticks, reason, created_at
		 FROM results
		 WHERE session = ?
		 ORDER BY id ASC`,
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session results: %w", err)
	}
	return scanResults(rows)
}

// BestSize returns the largest final size recorded for the given feed.
// Returns 0 if no results exist.
func (s *Store) BestSize(feed string) (int, error) {
	var size sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(size) FROM results WHERE feed = ?",
		feed,
	).Scan(&size)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best size: %w", err)
	}

	if !size.Valid {
		return 0, nil
	}

	return int(size.Int64), nil
}

// ClearResults deletes all results for the given feed.
func (s *Store) ClearResults(feed string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE feed = ?", feed)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// FeedStats retrieves aggregated statistics for every feed with results,
// sorted by feed.
func (s *Store) FeedStats() ([]Stats, error) {
	rows, err := s.db.Query(
		`SELECT feed, COUNT(*), MAX(size), AVG(size), MAX(created_at)
		 FROM results
		 GROUP BY feed
		 ORDER BY feed`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get feed stats: %w", err)
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var st Stats
		var lastPlayed any
		if err := rows.Scan(&st.Feed, &st.Sessions, &st.BestSize, &st.AvgSize, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Session, &r.Feed, &r.Player, &r.Size, &r.Ticks, &r.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// parseTime handles the driver returning DATETIME columns either as
// time.Time or as text.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
