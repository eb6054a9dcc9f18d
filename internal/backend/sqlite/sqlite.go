// Package sqlite stores graphs in an embedded SQLite database as a vertex
// table and an edge table. Terms are kept in N-Triples notation.
//
//	vertices(id INTEGER PRIMARY KEY, term TEXT)
//	edges(src_id INTEGER, property TEXT, dst_id INTEGER)
//
// Exports also write a labels table with one row per (vertex, shape) pair and
// a focus flag, which is the per-vertex report of a validation run.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"slices"

	"github.com/specialistvlad/pschema/internal/backend"
	"github.com/specialistvlad/pschema/internal/graph"
	_ "modernc.org/sqlite"
)

// Scheme is the URI scheme served by this package: sqlite://path/to/file.db.
const Scheme = "sqlite"

const schemaDDL = `
CREATE TABLE IF NOT EXISTS vertices (
	id   INTEGER PRIMARY KEY,
	term TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS edges (
	src_id   INTEGER NOT NULL REFERENCES vertices(id),
	property TEXT    NOT NULL,
	dst_id   INTEGER NOT NULL REFERENCES vertices(id)
);
CREATE TABLE IF NOT EXISTS labels (
	vertex_id INTEGER NOT NULL REFERENCES vertices(id),
	shape     TEXT    NOT NULL,
	focus     INTEGER NOT NULL
);`

// Backend reads and writes SQLite database files.
type Backend struct{}

// Module registers the SQLite backend.
type Module struct{}

// Register implements backend.Module.
func (Module) Register(r *backend.Registry) error {
	return r.Register(Scheme, &Backend{})
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Import implements backend.Importer.
func (b *Backend) Import(ctx context.Context, source string) (*graph.EdgeList, error) {
	path := backend.Location(source)
	if _, err := os.Stat(path); err != nil {
		return nil, backend.NewImportError(source, 0, err)
	}
	db, err := open(path)
	if err != nil {
		return nil, backend.NewImportError(source, 0, err)
	}
	defer db.Close()

	edges, err := readEdges(ctx, db)
	return edges, backend.NewImportError(source, 0, err)
}

func readEdges(ctx context.Context, db *sql.DB) (*graph.EdgeList, error) {
	edges := graph.NewEdgeList()
	ids := make(map[int64]graph.VertexID)

	rows, err := db.QueryContext(ctx, `SELECT id, term FROM vertices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query vertices: %w", err)
	}
	for rows.Next() {
		var (
			id   int64
			text string
		)
		if err := rows.Scan(&id, &text); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan vertex: %w", err)
		}
		t, err := graph.ParseTerm(text)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("vertex %d: %w", id, err)
		}
		ids[id] = edges.AddVertex(t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, `SELECT src_id, property, dst_id FROM edges ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			src, dst int64
			property string
		)
		if err := rows.Scan(&src, &property, &dst); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		s, ok := ids[src]
		if !ok {
			return nil, fmt.Errorf("edge %d -%s-> %d: unknown source vertex", src, property, dst)
		}
		o, ok := ids[dst]
		if !ok {
			return nil, fmt.Errorf("edge %d -%s-> %d: unknown destination vertex", src, property, dst)
		}
		edges.Edges = append(edges.Edges, graph.Edge{Subject: s, Predicate: property, Object: o})
	}
	return edges, rows.Err()
}

// Export implements backend.Exporter. The tables are replaced in a single
// transaction.
func (b *Backend) Export(ctx context.Context, destination string, sg *graph.Subgraph) error {
	db, err := open(backend.Location(destination))
	if err != nil {
		return backend.NewExportError(destination, err)
	}
	defer db.Close()
	return backend.NewExportError(destination, writeSubgraph(ctx, db, sg))
}

func writeSubgraph(ctx context.Context, db *sql.DB, sg *graph.Subgraph) (err error) {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"labels", "edges", "vertices"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	ids := make(map[string]int64)
	insertVertex, err := tx.PrepareContext(ctx, `INSERT INTO vertices (id, term) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer insertVertex.Close()
	vertexID := func(t graph.Term) (int64, error) {
		key := t.String()
		if id, ok := ids[key]; ok {
			return id, nil
		}
		id := int64(len(ids))
		if _, err := insertVertex.ExecContext(ctx, id, key); err != nil {
			return 0, fmt.Errorf("insert vertex %s: %w", key, err)
		}
		ids[key] = id
		return id, nil
	}

	insertEdge, err := tx.PrepareContext(ctx, `INSERT INTO edges (src_id, property, dst_id) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertEdge.Close()
	for _, t := range sg.Triples {
		src, err := vertexID(t.Subject)
		if err != nil {
			return err
		}
		dst, err := vertexID(t.Object)
		if err != nil {
			return err
		}
		if _, err := insertEdge.ExecContext(ctx, src, t.Predicate, dst); err != nil {
			return fmt.Errorf("insert edge: %w", err)
		}
	}

	focus := make(map[string]bool, len(sg.Focus))
	for _, f := range sg.Focus {
		focus[f.String()] = true
	}
	insertLabel, err := tx.PrepareContext(ctx, `INSERT INTO labels (vertex_id, shape, focus) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertLabel.Close()
	keys := make([]string, 0, len(sg.Labels))
	for k := range sg.Labels {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		t, err := graph.ParseTerm(key)
		if err != nil {
			return fmt.Errorf("label vertex %s: %w", key, err)
		}
		id, err := vertexID(t)
		if err != nil {
			return err
		}
		for _, name := range sg.Labels[key] {
			if _, err := insertLabel.ExecContext(ctx, id, name, focus[key]); err != nil {
				return fmt.Errorf("insert label: %w", err)
			}
		}
	}
	return tx.Commit()
}

// Labels reads back the labels table written by Export, keyed by vertex term.
func Labels(ctx context.Context, path string) (map[string][]string, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
SELECT v.term, l.shape FROM labels l JOIN vertices v ON v.id = l.vertex_id
ORDER BY v.term, l.shape`)
	if err != nil {
		return nil, fmt.Errorf("query labels: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]string)
	for rows.Next() {
		var term, name string
		if err := rows.Scan(&term, &name); err != nil {
			return nil, err
		}
		out[term] = append(out[term], name)
	}
	return out, rows.Err()
}
