// Package history keeps a journal of submitted files so repeated passes do
// not resubmit unchanged files to Sonarr.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Submission outcomes.
const (
	OutcomeSubmitted = "submitted"
	OutcomeFailed    = "failed"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS submissions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	path        TEXT    NOT NULL,
	size_bytes  INTEGER NOT NULL,
	series_id   INTEGER,
	season      INTEGER,
	episodes    TEXT,
	command_id  INTEGER,
	outcome     TEXT    NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_path ON submissions(path, size_bytes);
`

// Entry is one submission record.
type Entry struct {
	ID        int64
	Path      string
	SizeBytes int64
	SeriesID  int64
	Season    int
	Episodes  string // comma-separated episode numbers
	CommandID int64
	Outcome   string
	CreatedAt time.Time
}

// Store persists submission records in sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a new journal entry.
func (s *Store) Add(e *Entry) error {
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO submissions (path, size_bytes, series_id, season, episodes, command_id, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Path, e.SizeBytes, e.SeriesID, e.Season, e.Episodes, e.CommandID, e.Outcome, now,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	e.ID = id
	e.CreatedAt = now
	return nil
}

// Seen reports whether a file of this path and size was already submitted.
// A size change (partial copy finished, file replaced) counts as unseen.
func (s *Store) Seen(path string, size int64) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM submissions
		WHERE path = ? AND size_bytes = ? AND outcome = ?`,
		path, size, OutcomeSubmitted,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query submissions: %w", err)
	}
	return count > 0, nil
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(limit int) ([]*Entry, error) {
	query := `SELECT id, path, size_bytes, series_id, season, episodes, command_id, outcome, created_at
		FROM submissions ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Path, &e.SizeBytes, &e.SeriesID, &e.Season, &e.Episodes, &e.CommandID, &e.Outcome, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return results, nil
}

// Prune deletes entries older than the retention window.
func (s *Store) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result, err := s.db.Exec(`DELETE FROM submissions WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune submissions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
