// Package bank maintains a sqlite index over the quiz files of a
// directory tree, so large collections can be listed and searched
// without reparsing every file.
package bank

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/queck"
)

// Entry is one indexed quiz file.
type Entry struct {
	ID            string `json:"id"`
	Path          string `json:"path"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
	// TotalMarks keeps the canonical number text so integer totals do
	// not turn into floats in the database.
	TotalMarks string    `json:"total_marks"`
	SHA256     string    `json:"sha256"`
	ModTime    time.Time `json:"mtime"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// Bank is the index database.
type Bank struct {
	db *sql.DB
}

// Open opens or creates the index database at dbPath.
func Open(dbPath string) (*Bank, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	b := &Bank{db: db}
	if err := b.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return b, nil
}

func (b *Bank) Close() error {
	return b.db.Close()
}

func (b *Bank) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quizzes (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		question_count INTEGER NOT NULL DEFAULT 0,
		total_marks TEXT NOT NULL DEFAULT '0',
		sha256 TEXT NOT NULL,
		mtime DATETIME NOT NULL,
		indexed_at DATETIME NOT NULL
	);
	`
	_, err := b.db.Exec(schema)
	return err
}

// IndexResult counts what one Index pass did.
type IndexResult struct {
	Indexed int
	Skipped int
	Removed int
	Failed  int
}

// Index walks root and refreshes the quizzes table. Files whose content
// hash is unchanged are skipped, rows of deleted files are pruned, and
// unreadable or invalid files are logged and counted but do not stop
// the pass.
func (b *Bank) Index(root string, ctx answer.Context) (IndexResult, error) {
	var res IndexResult
	seen := map[string]bool{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !queck.IsQueckPath(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		seen[rel] = true

		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("reading quiz file", "path", path, "error", err)
			res.Failed++
			return nil
		}
		sum := fmt.Sprintf("%x", sha256.Sum256(data))
		existing, err := b.Get(rel)
		if err != nil {
			return err
		}
		if existing != nil && existing.SHA256 == sum {
			res.Skipped++
			return nil
		}

		q, err := queck.Load(data, ctx)
		if err != nil {
			slog.Warn("skipping invalid quiz", "path", path, "error", err)
			res.Failed++
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		e := Entry{
			ID:            uuid.NewString(),
			Path:          rel,
			Title:         q.Title,
			QuestionCount: q.QuestionCount(),
			TotalMarks:    q.TotalMarks().String(),
			SHA256:        sum,
			ModTime:       info.ModTime(),
			IndexedAt:     time.Now(),
		}
		if existing != nil {
			e.ID = existing.ID
		}
		if err := b.upsert(e); err != nil {
			return err
		}
		res.Indexed++
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("indexing %s: %w", root, err)
	}
	removed, err := b.prune(seen)
	res.Removed = removed
	return res, err
}

func (b *Bank) upsert(e Entry) error {
	_, err := b.db.Exec(
		`INSERT INTO quizzes (id, path, title, question_count, total_marks, sha256, mtime, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   title = ?, question_count = ?, total_marks = ?, sha256 = ?, mtime = ?, indexed_at = ?`,
		e.ID, e.Path, e.Title, e.QuestionCount, e.TotalMarks, e.SHA256, e.ModTime, e.IndexedAt,
		e.Title, e.QuestionCount, e.TotalMarks, e.SHA256, e.ModTime, e.IndexedAt,
	)
	return err
}

// prune deletes rows whose files were not seen by the current pass.
func (b *Bank) prune(seen map[string]bool) (int, error) {
	rows, err := b.db.Query(`SELECT path FROM quizzes`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return 0, err
		}
		if !seen[p] {
			stale = append(stale, p)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	for _, p := range stale {
		if _, err := b.db.Exec(`DELETE FROM quizzes WHERE path = ?`, p); err != nil {
			return len(stale), err
		}
	}
	return len(stale), nil
}

// Get returns the entry for a path, or nil when the path is not
// indexed.
func (b *Bank) Get(path string) (*Entry, error) {
	var e Entry
	err := b.db.QueryRow(
		`SELECT id, path, title, question_count, total_marks, sha256, mtime, indexed_at
		 FROM quizzes WHERE path = ?`, path,
	).Scan(&e.ID, &e.Path, &e.Title, &e.QuestionCount, &e.TotalMarks, &e.SHA256, &e.ModTime, &e.IndexedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Find looks an entry up by id or by path, whichever matches.
func (b *Bank) Find(key string) (*Entry, error) {
	var e Entry
	err := b.db.QueryRow(
		`SELECT id, path, title, question_count, total_marks, sha256, mtime, indexed_at
		 FROM quizzes WHERE id = ? OR path = ?`, key, key,
	).Scan(&e.ID, &e.Path, &e.Title, &e.QuestionCount, &e.TotalMarks, &e.SHA256, &e.ModTime, &e.IndexedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns every indexed quiz ordered by path.
func (b *Bank) List() ([]Entry, error) {
	return b.queryEntries(`SELECT id, path, title, question_count, total_marks, sha256, mtime, indexed_at
		 FROM quizzes ORDER BY path`)
}

// Search returns the quizzes whose title contains the given term.
func (b *Bank) Search(term string) ([]Entry, error) {
	return b.queryEntries(`SELECT id, path, title, question_count, total_marks, sha256, mtime, indexed_at
		 FROM quizzes WHERE title LIKE ? ORDER BY path`, "%"+term+"%")
}

func (b *Bank) queryEntries(query string, args ...any) ([]Entry, error) {
	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.Title, &e.QuestionCount, &e.TotalMarks, &e.SHA256, &e.ModTime, &e.IndexedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of indexed quizzes.
func (b *Bank) Count() (int, error) {
	var count int
	err := b.db.QueryRow(`SELECT COUNT(*) FROM quizzes`).Scan(&count)
	return count, err
}
