// Package store keeps a SQLite journal of every processed command.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"

	"github.com/mj1618/eva/internal/model"
)

// Entry is one journaled command.
type Entry struct {
	ID         string         `yaml:"id"                json:"id"`
	Command    string         `yaml:"command"           json:"command"`
	Category   model.Category `yaml:"category"          json:"category"`
	Confidence float64        `yaml:"confidence"        json:"confidence"`
	Source     string         `yaml:"source,omitempty"  json:"source,omitempty"`
	Steps      int            `yaml:"steps"             json:"steps"`
	Success    bool           `yaml:"success"           json:"success"`
	Message    string         `yaml:"message,omitempty" json:"message,omitempty"`
	Error      string         `yaml:"error,omitempty"   json:"error,omitempty"`
	DurationMs int64          `yaml:"duration_ms"       json:"duration_ms"`
	CreatedAt  time.Time      `yaml:"created_at"        json:"created_at"`
}

// Journal is a SQLite-backed command log. It is safe for concurrent use.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal at path. ":memory:" is accepted.
func Open(path string) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// One connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	queries := []string{
		`CREATE TABLE IF NOT EXISTS commands (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			command TEXT NOT NULL,
			category TEXT,
			confidence REAL,
			source TEXT,
			steps INTEGER,
			success INTEGER,
			message TEXT,
			error TEXT,
			duration_ms INTEGER,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS commands_created_at ON commands (created_at);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, fmt.Errorf("init journal: %w", err)
		}
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores e, assigning its ID and timestamp.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = j.now().UTC()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO commands (id, command, category, confidence, source, steps, success, message, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Command, string(e.Category), e.Confidence, e.Source, e.Steps, boolInt(e.Success),
		e.Message, e.Error, e.DurationMs, e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record command: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, command, category, confidence, source, steps, success, message, error, duration_ms, created_at
		 FROM commands ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			category string
			success  int
			created  string
		)
		if err := rows.Scan(&e.ID, &e.Command, &category, &e.Confidence, &e.Source, &e.Steps,
			&success, &e.Message, &e.Error, &e.DurationMs, &created); err != nil {
			return nil, err
		}
		e.Category = model.Category(category)
		e.Success = success != 0
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
