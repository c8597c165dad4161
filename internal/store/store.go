// Package store keeps a library of named drawings in a SQLite database.
package store

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flowpaint/internal/document"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no drawing has the requested name.
var ErrNotFound = errors.New("drawing not found")

// Drawing describes one library entry without its content.
type Drawing struct {
	ID        string
	Name      string
	Shapes    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Store struct {
	conn *sql.DB
	log  *log.Logger
}

// Open opens (or creates) the library at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create library directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, log: log.New(io.Discard, "[store] ", log.LstdFlags)}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// SetLogger routes store diagnostics to l.
func (s *Store) SetLogger(l *log.Logger) {
	if l != nil {
		s.log = l
	}
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS drawings (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			shape_count INTEGER NOT NULL DEFAULT 0,
			document_json TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drawings_updated ON drawings(updated_at)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", strings.TrimSpace(strings.SplitN(m, "(", 2)[0]), err)
		}
	}
	return nil
}

// Save stores doc under name, replacing any drawing with the same name.
func (s *Store) Save(name string, doc document.Document) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("save drawing: empty name")
	}
	var buf bytes.Buffer
	if err := document.Encode(&buf, doc); err != nil {
		return fmt.Errorf("save drawing %q: %w", name, err)
	}

	now := time.Now()
	_, err := s.conn.Exec(
		`INSERT INTO drawings (id, name, shape_count, document_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			shape_count = excluded.shape_count,
			document_json = excluded.document_json,
			updated_at = excluded.updated_at`,
		uuid.NewString(), name, len(doc.Shapes), buf.String(), now, now,
	)
	if err != nil {
		return fmt.Errorf("save drawing %q: %w", name, err)
	}
	s.log.Printf("saved %q (%d shapes)", name, len(doc.Shapes))
	return nil
}

func (s *Store) Load(name string) (document.Document, error) {
	var data string
	err := s.conn.QueryRow(`SELECT document_json FROM drawings WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return document.Document{}, fmt.Errorf("load %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return document.Document{}, fmt.Errorf("load %q: %w", name, err)
	}
	doc, err := document.Decode(strings.NewReader(data))
	if err != nil {
		return document.Document{}, fmt.Errorf("load %q: %w", name, err)
	}
	return doc, nil
}

// List returns every drawing, most recently updated first.
func (s *Store) List() ([]Drawing, error) {
	rows, err := s.conn.Query(`SELECT id, name, shape_count, created_at, updated_at FROM drawings ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	defer rows.Close()

	var drawings []Drawing
	for rows.Next() {
		var d Drawing
		if err := rows.Scan(&d.ID, &d.Name, &d.Shapes, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list drawings: %w", err)
		}
		drawings = append(drawings, d)
	}
	return drawings, rows.Err()
}

func (s *Store) Delete(name string) error {
	res, err := s.conn.Exec(`DELETE FROM drawings WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	s.log.Printf("deleted %q", name)
	return nil
}
