// Package db persists resolved API graphs in DuckDB so downstream tools
// can query a crate's surface without re-running extraction.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/jcdickinson/crategraph/internal/api"
)

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
		`CREATE SEQUENCE IF NOT EXISTS seq_graph_id START 1;`,

		`CREATE TABLE IF NOT EXISTS graphs (
			id INTEGER PRIMARY KEY,
			package TEXT NOT NULL,
			root INTEGER NOT NULL,
			resolved_at TIMESTAMP NOT NULL,
			UNIQUE(package)
		)`,

		`CREATE TABLE IF NOT EXISTS crates (
			graph_id INTEGER REFERENCES graphs(id),
			handle INTEGER NOT NULL,
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS paths (
			graph_id INTEGER REFERENCES graphs(id),
			handle INTEGER NOT NULL,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			crate_handle INTEGER,
			item_handle INTEGER,
			children TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_paths_graph ON paths (graph_id)`,
		`CREATE INDEX IF NOT EXISTS idx_paths_name ON paths (name)`,

		`CREATE TABLE IF NOT EXISTS items (
			graph_id INTEGER REFERENCES graphs(id),
			handle INTEGER NOT NULL,
			crate_handle INTEGER,
			name TEXT,
			span_file TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_graph ON items (graph_id)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// SaveAPI stores a resolved graph under the given package name, replacing
// any previously stored graph for that package. Handles are stored as-is;
// they are only meaningful within one stored graph.
func (db *DB) SaveAPI(pkg string, a *api.API) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteGraphTx(tx, pkg); err != nil {
		return err
	}

	var graphID int64
	err = tx.QueryRow(
		`INSERT INTO graphs (id, package, root, resolved_at)
		 VALUES (nextval('seq_graph_id'), ?, ?, ?) RETURNING id`,
		pkg, int(a.Root), time.Now().UTC(),
	).Scan(&graphID)
	if err != nil {
		return fmt.Errorf("inserting graph row: %w", err)
	}

	for handle, crate := range a.Crates {
		if _, err := tx.Exec(
			`INSERT INTO crates (graph_id, handle, name) VALUES (?, ?, ?)`,
			graphID, handle, crate.Name,
		); err != nil {
			return fmt.Errorf("inserting crate %d: %w", handle, err)
		}
	}

	for handle, path := range a.Paths {
		children, err := json.Marshal(path.Children)
		if err != nil {
			return fmt.Errorf("encoding children of path %d: %w", handle, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO paths (graph_id, handle, kind, name, crate_handle, item_handle, children)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			graphID, handle, string(path.Kind), path.Name,
			optHandle(path.Crate), optHandle(path.Item), string(children),
		); err != nil {
			return fmt.Errorf("inserting path %d: %w", handle, err)
		}
	}

	for handle, item := range a.Items {
		var spanFile *string
		if item.Span != nil {
			spanFile = &item.Span.Filename
		}
		if _, err := tx.Exec(
			`INSERT INTO items (graph_id, handle, crate_handle, name, span_file)
			 VALUES (?, ?, ?, ?, ?)`,
			graphID, handle, optHandle(item.Crate), item.Name, spanFile,
		); err != nil {
			return fmt.Errorf("inserting item %d: %w", handle, err)
		}
	}

	return tx.Commit()
}

// optHandle converts an optional typed handle to a nullable column value.
func optHandle[T ~int](h *T) any {
	if h == nil {
		return nil
	}
	return int(*h)
}

// GraphInfo describes one stored graph.
type GraphInfo struct {
	Package    string
	Paths      int
	Items      int
	ResolvedAt time.Time
}

// ListGraphs returns all stored graphs, newest first.
func (db *DB) ListGraphs() ([]GraphInfo, error) {
	rows, err := db.conn.Query(
		`SELECT g.package, g.resolved_at,
		        (SELECT COUNT(*) FROM paths p WHERE p.graph_id = g.id),
		        (SELECT COUNT(*) FROM items i WHERE i.graph_id = g.id)
		 FROM graphs g ORDER BY g.resolved_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying graphs: %w", err)
	}
	defer rows.Close()

	var infos []GraphInfo
	for rows.Next() {
		var info GraphInfo
		if err := rows.Scan(&info.Package, &info.ResolvedAt, &info.Paths, &info.Items); err != nil {
			return nil, fmt.Errorf("scanning graph row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// PathRow is one stored namespace location.
type PathRow struct {
	Handle  int
	Kind    string
	Name    string
	HasItem bool
}

// ListPaths returns the stored paths of a package's graph in handle order,
// optionally filtered by kind. It reports sql.ErrNoRows when no graph is
// stored for the package.
func (db *DB) ListPaths(pkg, kind string) ([]PathRow, error) {
	var graphID int64
	err := db.conn.QueryRow(`SELECT id FROM graphs WHERE package = ?`, pkg).Scan(&graphID)
	if err != nil {
		return nil, err
	}

	query := `SELECT handle, kind, name, item_handle IS NOT NULL
	          FROM paths WHERE graph_id = ?`
	args := []any{graphID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY handle`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying paths: %w", err)
	}
	defer rows.Close()

	var paths []PathRow
	for rows.Next() {
		var p PathRow
		if err := rows.Scan(&p.Handle, &p.Kind, &p.Name, &p.HasItem); err != nil {
			return nil, fmt.Errorf("scanning path row: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// DeleteGraph removes a stored graph and all of its rows.
func (db *DB) DeleteGraph(pkg string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteGraphTx(tx, pkg); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteGraphTx(tx *sql.Tx, pkg string) error {
	var graphID int64
	err := tx.QueryRow(`SELECT id FROM graphs WHERE package = ?`, pkg).Scan(&graphID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up graph for %s: %w", pkg, err)
	}

	for _, table := range []string{"crates", "paths", "items"} {
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE graph_id = ?`, table), graphID); err != nil {
			return fmt.Errorf("deleting %s rows: %w", table, err)
		}
	}
	if _, err := tx.Exec(`DELETE FROM graphs WHERE id = ?`, graphID); err != nil {
		return fmt.Errorf("deleting graph row: %w", err)
	}
	return nil
}
