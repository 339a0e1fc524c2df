// Package index persists page metadata in a sqlite database so a tree can be
// assembled without rescanning a large space. The index doubles as a Space:
// ListPages reads the stored records and CurrentPage reads the last recorded
// position.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abrahamneben/silverbullet-treeview/pkg/pages"
)

// Index manages the page index.
type Index struct {
	db *sql.DB
}

// Open opens or creates the index at dbPath.
func Open(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	idx := &Index{db: db}
	if err := idx.init(); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// init creates the database schema.
func (idx *Index) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		name TEXT PRIMARY KEY,
		title TEXT,
		tags TEXT,
		attributes TEXT,
		modified_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_title ON pages(title);

	CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`

	_, err := idx.db.Exec(schema)
	return err
}

// IndexPage inserts or replaces one page record.
func (idx *Index) IndexPage(pg *pages.Page) error {
	tags, err := json.Marshal(pg.Tags)
	if err != nil {
		return err
	}
	attrs, err := json.Marshal(pg.Attributes)
	if err != nil {
		return err
	}

	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec("DELETE FROM pages WHERE name = ?", pg.Name)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO pages (name, title, tags, attributes, modified_at)
		VALUES (?, ?, ?, ?, ?)
	`, pg.Name, pg.Title, string(tags), string(attrs), pg.ModifiedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// RemovePage removes a page from the index.
func (idx *Index) RemovePage(name string) error {
	_, err := idx.db.Exec("DELETE FROM pages WHERE name = ?", name)
	return err
}

// Reindex replaces the index contents with the pages of the given space.
func (idx *Index) Reindex(ctx context.Context, src pages.Space) (int, error) {
	pgs, err := src.ListPages(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pages: %w", err)
	}

	if _, err := idx.db.Exec("DELETE FROM pages"); err != nil {
		return 0, err
	}
	for _, pg := range pgs {
		if err := idx.IndexPage(pg); err != nil {
			return 0, fmt.Errorf("index page %q: %w", pg.Name, err)
		}
	}
	return len(pgs), nil
}

// SetCurrentPage records the current page position in the index.
func (idx *Index) SetCurrentPage(name string) error {
	_, err := idx.db.Exec(`
		INSERT INTO state (key, value) VALUES ('current_page', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, name)
	return err
}

// CurrentPage returns the recorded current page, or the default when none
// has been recorded yet.
func (idx *Index) CurrentPage(ctx context.Context) (string, error) {
	var name string
	err := idx.db.QueryRowContext(ctx,
		"SELECT value FROM state WHERE key = 'current_page'").Scan(&name)
	if err == sql.ErrNoRows {
		return "index", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// ListPages returns every indexed page.
func (idx *Index) ListPages(ctx context.Context) ([]*pages.Page, error) {
	rows, err := idx.db.QueryContext(ctx, `
		SELECT name, title, tags, attributes, modified_at
		FROM pages
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pgs []*pages.Page
	for rows.Next() {
		pg := &pages.Page{}
		var tags, attrs string

		err := rows.Scan(&pg.Name, &pg.Title, &tags, &attrs, &pg.ModifiedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tags), &pg.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for %q: %w", pg.Name, err)
		}
		if err := json.Unmarshal([]byte(attrs), &pg.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes for %q: %w", pg.Name, err)
		}

		pgs = append(pgs, pg)
	}
	return pgs, rows.Err()
}

// Close closes the index.
func (idx *Index) Close() error {
	return idx.db.Close()
}
