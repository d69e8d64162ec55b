// Package store persists guidelines and their precomputed target tables in
// a local SQLite database, so repeated validation runs skip parsing and
// recomputation.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hyperifyio/goseocheck/internal/guideline"
	"github.com/hyperifyio/goseocheck/internal/precompute"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS guidelines (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL,
    requirements TEXT NOT NULL,
    precomputed TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_guidelines_name ON guidelines(name);
`

// ErrNotFound is returned when no guideline matches the given id or name.
var ErrNotFound = errors.New("guideline not found")

// Entry is one stored guideline with its precomputed record.
type Entry struct {
	ID          string
	Name        string
	CreatedAt   time.Time
	Req         guideline.Requirements
	Precomputed *precompute.Precomputed
}

// Info is the listing view: metadata without the payloads.
type Info struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Store wraps the SQLite connection. The schema is applied on open.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save computes the precomputed record for req and inserts both under a
// fresh id. The id is returned for later lookups.
func (s *Store) Save(name string, req guideline.Requirements) (string, error) {
	pre, err := precompute.Build(req)
	if err != nil {
		return "", err
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode requirements: %w", err)
	}
	preJSON, err := pre.Encode()
	if err != nil {
		return "", fmt.Errorf("encode precomputed record: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO guidelines(id, name, created_at, requirements, precomputed) VALUES(?,?,?,?,?)`,
		id, name, time.Now().UTC().Format(time.RFC3339), string(reqJSON), string(preJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert guideline: %w", err)
	}
	return id, nil
}

// Load fetches a guideline by id, or by name when no id matches. Name
// lookups return the most recently stored entry with that name.
func (s *Store) Load(idOrName string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT id, name, created_at, requirements, precomputed FROM guidelines WHERE id = ?`,
		idOrName,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		row = s.db.QueryRow(
			`SELECT id, name, created_at, requirements, precomputed FROM guidelines
			 WHERE name = ? ORDER BY created_at DESC LIMIT 1`,
			idOrName,
		)
		e, err = scanEntry(row)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrName)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func scanEntry(row *sql.Row) (*Entry, error) {
	var (
		e                Entry
		created, reqJSON string
		preJSON          string
	)
	if err := row.Scan(&e.ID, &e.Name, &created, &reqJSON, &preJSON); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	e.CreatedAt = ts
	if err := json.Unmarshal([]byte(reqJSON), &e.Req); err != nil {
		return nil, fmt.Errorf("decode requirements: %w", err)
	}
	pre, err := precompute.Decode([]byte(preJSON))
	if err != nil {
		return nil, err
	}
	e.Precomputed = pre
	return &e, nil
}

// List returns all stored guidelines, newest first.
func (s *Store) List() ([]Info, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM guidelines ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list guidelines: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var (
			info    Info
			created string
		)
		if err := rows.Scan(&info.ID, &info.Name, &created); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		info.CreatedAt = ts
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a guideline by id.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM guidelines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete guideline: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
