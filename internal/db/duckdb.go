package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcdickinson/javadocfetch/internal/docs"
	"github.com/jcdickinson/javadocfetch/internal/emit"
	_ "github.com/marcboeker/go-duckdb"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("record not found")

type DB struct {
	conn *sql.DB
}

func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS classes (
			id TEXT PRIMARY KEY,
			package TEXT NOT NULL,
			simple_name TEXT NOT NULL,
			qualified_name TEXT NOT NULL,
			kind TEXT NOT NULL,
			weight INTEGER NOT NULL DEFAULT 0,
			description TEXT,
			path TEXT,
			doc TEXT NOT NULL,
			loaded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS methods (
			id TEXT PRIMARY KEY,
			package TEXT NOT NULL,
			qualified_class TEXT NOT NULL,
			simple_class TEXT NOT NULL,
			name TEXT NOT NULL,
			qualified_name TEXT NOT NULL,
			kind TEXT NOT NULL,
			weight INTEGER NOT NULL DEFAULT 0,
			description TEXT,
			path TEXT,
			doc TEXT NOT NULL,
			loaded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// --- Loading ---

// recordHeader is the subset of a record's fields stored as columns.
type recordHeader struct {
	ID             string    `json:"_id"`
	Kind           docs.Kind `json:"kind"`
	Package        string    `json:"package"`
	SimpleName     string    `json:"simpleName"`
	QualifiedName  string    `json:"qualifiedName"`
	QualifiedClass string    `json:"qualifiedClass"`
	SimpleClass    string    `json:"simpleClass"`
	Name           string    `json:"name"`
	Weight         int       `json:"weight"`
	Description    string    `json:"description"`
	Path           string    `json:"path"`
}

func (h *recordHeader) isMember() bool {
	return h.Kind == docs.KindMethod || h.Kind == docs.KindConstructor
}

// LoadStats counts the records upserted by a load.
type LoadStats struct {
	Classes int
	Methods int
}

// LoadFile loads an output document, decompressing .zst and .gz files.
func (db *DB) LoadFile(ctx context.Context, path string) (LoadStats, error) {
	r, err := emit.Open(path)
	if err != nil {
		return LoadStats{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()
	return db.Load(ctx, r)
}

// Load streams the updates array of an output document into the index,
// replacing records whose ids are already present. The whole document is
// loaded in one transaction.
func (db *DB) Load(ctx context.Context, r io.Reader) (LoadStats, error) {
	var stats LoadStats

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	classStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO classes
		(id, package, simple_name, qualified_name, kind, weight, description, path, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return stats, fmt.Errorf("preparing class insert: %w", err)
	}
	defer classStmt.Close()

	methodStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO methods
		(id, package, qualified_class, simple_class, name, qualified_name, kind, weight, description, path, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return stats, fmt.Errorf("preparing method insert: %w", err)
	}
	defer methodStmt.Close()

	err = decodeUpdates(r, func(raw json.RawMessage) error {
		var h recordHeader
		if err := json.Unmarshal(raw, &h); err != nil {
			return fmt.Errorf("decoding record: %w", err)
		}
		if h.ID == "" {
			return fmt.Errorf("record without _id at position %d", stats.Classes+stats.Methods)
		}
		if h.isMember() {
			if _, err := methodStmt.ExecContext(ctx, h.ID, h.Package, h.QualifiedClass, h.SimpleClass, h.Name,
				h.QualifiedName, string(h.Kind), h.Weight, h.Description, h.Path, string(raw)); err != nil {
				return fmt.Errorf("inserting method %s: %w", h.ID, err)
			}
			stats.Methods++
			return nil
		}
		if _, err := classStmt.ExecContext(ctx, h.ID, h.Package, h.SimpleName, h.QualifiedName,
			string(h.Kind), h.Weight, h.Description, h.Path, string(raw)); err != nil {
			return fmt.Errorf("inserting class %s: %w", h.ID, err)
		}
		stats.Classes++
		return nil
	})
	if err != nil {
		return stats, err
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("committing load: %w", err)
	}
	return stats, nil
}

// decodeUpdates walks the top-level object token by token and hands each
// element of "updates" to fn without buffering the whole document.
func decodeUpdates(r io.Reader, fn func(json.RawMessage) error) error {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}
		key, _ := tok.(string)
		if key != "updates" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return fmt.Errorf("reading %q: %w", key, err)
			}
			continue
		}
		if err := expectDelim(dec, '['); err != nil {
			return err
		}
		for dec.More() {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("reading update: %w", err)
			}
			if err := fn(raw); err != nil {
				return err
			}
		}
		if err := expectDelim(dec, ']'); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("malformed document: expected %q, found %v", want, tok)
	}
	return nil
}

// --- Queries ---

// Hit is one search result.
type Hit struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	QualifiedName string `json:"qualifiedName"`
	Path          string `json:"path"`
	Weight        int    `json:"weight"`
	Description   string `json:"description"`
}

// Search returns classes and methods whose simple or qualified name starts
// with prefix, case-insensitively, highest weight first.
func (db *DB) Search(ctx context.Context, prefix string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 20
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, kind, qualified_name, path, weight, description FROM (
			SELECT id, kind, simple_name AS name, qualified_name, path, weight, description FROM classes
			UNION ALL
			SELECT id, kind, name, qualified_name, path, weight, description FROM methods
		)
		WHERE starts_with(lower(name), ?) OR starts_with(lower(qualified_name), ?)
		ORDER BY weight DESC, qualified_name, id
		LIMIT ?`, prefix, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var path, desc sql.NullString
		if err := rows.Scan(&h.ID, &h.Kind, &h.QualifiedName, &path, &h.Weight, &desc); err != nil {
			return nil, err
		}
		h.Path, h.Description = path.String, desc.String
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Get returns the stored JSON of a class or method record.
func (db *DB) Get(ctx context.Context, id string) (json.RawMessage, error) {
	var doc string
	err := db.conn.QueryRowContext(ctx,
		`SELECT doc FROM classes WHERE id = ? UNION ALL SELECT doc FROM methods WHERE id = ? LIMIT 1`,
		id, id,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(doc), nil
}

// Count returns the number of stored classes and methods.
func (db *DB) Count(ctx context.Context) (classes, methods int, err error) {
	err = db.conn.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM classes), (SELECT count(*) FROM methods)`,
	).Scan(&classes, &methods)
	return classes, methods, err
}
