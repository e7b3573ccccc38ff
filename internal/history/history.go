// Package history records past queries in SQLite and serves them back as
// input suggestions.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const DefaultLimit = 200

const schema = `
CREATE TABLE IF NOT EXISTS queries (
	query       TEXT PRIMARY KEY COLLATE NOCASE,
	uses        INTEGER NOT NULL DEFAULT 1,
	total_pages INTEGER NOT NULL DEFAULT 0,
	last_used   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_queries_last_used ON queries(last_used);
`

type Entry struct {
	Query      string
	Uses       int
	TotalPages int
	LastUsed   time.Time
}

type History struct {
	db    *sql.DB
	path  string
	limit int
	now   func() time.Time
}

// Open opens or creates the history database at path. At most limit
// queries are kept; a limit below 1 uses DefaultLimit.
func Open(path string, limit int) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return &History{db: db, path: path, limit: limit, now: time.Now}, nil
}

func (h *History) Path() string { return h.path }

func (h *History) Close() error { return h.db.Close() }

// Record bumps query to the most recent position. Blank queries are ignored.
func (h *History) Record(ctx context.Context, query string, totalPages int) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO queries (query, uses, total_pages, last_used) VALUES (?, 1, ?, ?)
		ON CONFLICT(query) DO UPDATE SET
			uses = uses + 1,
			total_pages = excluded.total_pages,
			last_used = excluded.last_used`,
		query, totalPages, h.now().UnixNano())
	if err != nil {
		return fmt.Errorf("record query: %w", err)
	}
	_, err = h.db.ExecContext(ctx, `
		DELETE FROM queries WHERE query NOT IN (
			SELECT query FROM queries ORDER BY last_used DESC LIMIT ?
		)`, h.limit)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// Recent returns up to n entries, most recent first.
func (h *History) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT query, uses, total_pages, last_used
		FROM queries ORDER BY last_used DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var last int64
		if err := rows.Scan(&e.Query, &e.Uses, &e.TotalPages, &last); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.LastUsed = time.Unix(0, last)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Suggestions returns past queries starting with prefix, most used first.
func (h *History) Suggestions(ctx context.Context, prefix string, n int) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT query FROM queries
		WHERE query LIKE ? ESCAPE '\'
		ORDER BY uses DESC, last_used DESC LIMIT ?`, escapeLike(prefix)+"%", n)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (h *History) Delete(ctx context.Context, query string) error {
	_, err := h.db.ExecContext(ctx, `DELETE FROM queries WHERE query = ?`, strings.TrimSpace(query))
	return err
}

func (h *History) Clear(ctx context.Context) error {
	_, err := h.db.ExecContext(ctx, `DELETE FROM queries`)
	return err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
