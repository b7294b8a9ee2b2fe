// Package catalog keeps a local sqlite history of pulled templates and
// generated memes.
//
// The pure Go driver is used by default. Build with -tags cgo_sqlite to use
// the cgo driver instead.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Catalog wraps the history database.
type Catalog struct {
	db *sql.DB
}

// Pull records where a template file came from.
type Pull struct {
	Path     string
	Name     string
	URL      string
	PulledAt time.Time
}

// Creation records one generated meme.
type Creation struct {
	ID           int64
	TemplatePath string
	Top          string
	Bottom       string
	FontSize     int
	OutputPath   string
	CreatedAt    time.Time
}

// Open opens (creating if needed) the database at path and sets up the schema.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("catalog: create directory: %w", err)
	}
	db, err := initDB(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	// Pulls record from several goroutines and sqlite has a single writer.
	db.SetMaxOpenConns(1)
	if err := SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

// SetupSchema creates the tables if they do not exist.
func SetupSchema(db *sql.DB) error {
	const (
		schemaPulls = `
CREATE TABLE IF NOT EXISTS template_pulls (
    path TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL,
    pulled_at INTEGER NOT NULL
);
`
		schemaCreations = `
CREATE TABLE IF NOT EXISTS meme_creations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    template_path TEXT NOT NULL,
    top_text TEXT NOT NULL DEFAULT '',
    bottom_text TEXT NOT NULL DEFAULT '',
    font_size INTEGER NOT NULL,
    output_path TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(schemaPulls); err != nil {
		return fmt.Errorf("catalog: create template_pulls: %w", err)
	}
	if _, err = tx.Exec(schemaCreations); err != nil {
		return fmt.Errorf("catalog: create meme_creations: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (c *Catalog) Close() error { return c.db.Close() }

// RecordPull stores or replaces the source of a pulled template.
func (c *Catalog) RecordPull(ctx context.Context, p Pull) error {
	if p.PulledAt.IsZero() {
		p.PulledAt = time.Now()
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO template_pulls (path, name, url, pulled_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET name = excluded.name, url = excluded.url, pulled_at = excluded.pulled_at`,
		p.Path, p.Name, p.URL, p.PulledAt.Unix())
	if err != nil {
		return fmt.Errorf("catalog: record pull of %s: %w", p.URL, err)
	}
	return nil
}

// Sources maps template paths to the URL they were pulled from.
func (c *Catalog) Sources(ctx context.Context) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT path, url FROM template_pulls`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query pulls: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var path, url string
		if err := rows.Scan(&path, &url); err != nil {
			return nil, fmt.Errorf("catalog: scan pull: %w", err)
		}
		out[path] = url
	}
	return out, rows.Err()
}

// RecordCreation appends a generated meme to the history and returns its id.
func (c *Catalog) RecordCreation(ctx context.Context, cr Creation) (int64, error) {
	if cr.CreatedAt.IsZero() {
		cr.CreatedAt = time.Now()
	}
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO meme_creations (template_path, top_text, bottom_text, font_size, output_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		cr.TemplatePath, cr.Top, cr.Bottom, cr.FontSize, cr.OutputPath, cr.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("catalog: record creation: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit creations, newest first.
func (c *Catalog) Recent(ctx context.Context, limit int) ([]Creation, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, template_path, top_text, bottom_text, font_size, output_path, created_at
		 FROM meme_creations ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: query creations: %w", err)
	}
	defer rows.Close()

	var out []Creation
	for rows.Next() {
		var cr Creation
		var created int64
		if err := rows.Scan(&cr.ID, &cr.TemplatePath, &cr.Top, &cr.Bottom, &cr.FontSize, &cr.OutputPath, &created); err != nil {
			return nil, fmt.Errorf("catalog: scan creation: %w", err)
		}
		cr.CreatedAt = time.Unix(created, 0)
		out = append(out, cr)
	}
	return out, rows.Err()
}
