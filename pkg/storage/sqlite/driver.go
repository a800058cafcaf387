// Package sqlite is a mood.Store backed by a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/vertexprobe/pkg/mood"
)

const schema = `
CREATE TABLE IF NOT EXISTS mood_entries (
	id          TEXT PRIMARY KEY,
	collection  TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	mood        TEXT NOT NULL,
	score       REAL NOT NULL DEFAULT 0,
	note        TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_mood_entries_collection ON mood_entries(collection, created_at);
`

// timeLayout is fixed width so that created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Driver is a SQLite mood.Store.
type Driver struct {
	db *sql.DB
}

var _ mood.Store = (*Driver)(nil)

// NewDriver opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func NewDriver(ctx context.Context, path string) (*Driver, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// A single connection keeps ":memory:" databases consistent across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Driver{db: db}, nil
}

func (d *Driver) Put(ctx context.Context, entry *mood.Entry) error {
	if entry == nil {
		return errors.New("cannot store nil entry")
	}

	_, err := d.db.ExecContext(ctx,
		`INSERT INTO mood_entries (id, collection, user_id, mood, score, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Collection, entry.UserID, entry.Mood, entry.Score, entry.Note,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert mood entry %s: %w", entry.ID, err)
	}
	return nil
}

func (d *Driver) Get(ctx context.Context, id string) (*mood.Entry, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, collection, user_id, mood, score, note, created_at
		 FROM mood_entries WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mood.ErrNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get mood entry %s: %w", id, err)
	}
	return e, nil
}

func (d *Driver) List(ctx context.Context, collection string) ([]*mood.Entry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, collection, user_id, mood, score, note, created_at
		 FROM mood_entries WHERE collection = ? ORDER BY created_at, id`, collection)
	if err != nil {
		return nil, fmt.Errorf("list mood entries: %w", err)
	}
	defer rows.Close()

	var out []*mood.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mood entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *Driver) Close() error {
	return d.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*mood.Entry, error) {
	var (
		e       mood.Entry
		created string
	)
	if err := s.Scan(&e.ID, &e.Collection, &e.UserID, &e.Mood, &e.Score, &e.Note, &created); err != nil {
		return nil, err
	}

	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	e.CreatedAt = t
	return &e, nil
}
