// Package badger stores graphs in an embedded Badger key-value directory.
//
// Each triple is one msgpack record under a "t/" key whose suffix is a
// big-endian sequence number, so iteration returns triples in write order.
// Exports also store per-vertex shape labels under "l/<term>" and the focus
// terms under "f/<term>".
package badger

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/specialistvlad/pschema/internal/backend"
	"github.com/specialistvlad/pschema/internal/graph"
	"github.com/vmihailenco/msgpack/v5"
)

// Scheme is the URI scheme served by this package: badger://path/to/dir.
const Scheme = "badger"

var (
	triplePrefix = []byte("t/")
	labelPrefix  = []byte("l/")
	focusPrefix  = []byte("f/")
)

// record is the stored form of one triple. Terms are in N-Triples notation.
type record struct {
	Subject   string `msgpack:"s"`
	Predicate string `msgpack:"p"`
	Object    string `msgpack:"o"`
}

// Backend reads and writes Badger directories.
type Backend struct{}

// Module registers the Badger backend.
type Module struct{}

// Register implements backend.Module.
func (Module) Register(r *backend.Registry) error {
	return r.Register(Scheme, &Backend{})
}

func open(dir string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger %s: %w", dir, err)
	}
	return db, nil
}

func tripleKey(seq uint64) []byte {
	key := make([]byte, len(triplePrefix)+8)
	copy(key, triplePrefix)
	binary.BigEndian.PutUint64(key[len(triplePrefix):], seq)
	return key
}

// Import implements backend.Importer.
func (b *Backend) Import(ctx context.Context, source string) (*graph.EdgeList, error) {
	dir := backend.Location(source)
	if _, err := os.Stat(dir); err != nil {
		return nil, backend.NewImportError(source, 0, err)
	}
	db, err := open(dir)
	if err != nil {
		return nil, backend.NewImportError(source, 0, err)
	}
	defer db.Close()

	edges := graph.NewEdgeList()
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = triplePrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		n := 0
		for it.Rewind(); it.Valid(); it.Next() {
			if n++; n%4096 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			var rec record
			if err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode triple %x: %w", it.Item().Key(), err)
			}
			s, err := graph.ParseTerm(rec.Subject)
			if err != nil {
				return fmt.Errorf("triple %d subject: %w", n, err)
			}
			o, err := graph.ParseTerm(rec.Object)
			if err != nil {
				return fmt.Errorf("triple %d object: %w", n, err)
			}
			edges.AddTriple(s, rec.Predicate, o)
		}
		return nil
	})
	if err != nil {
		return nil, backend.NewImportError(source, 0, err)
	}
	return edges, nil
}

// Export implements backend.Exporter. Earlier contents are dropped first.
func (b *Backend) Export(ctx context.Context, destination string, sg *graph.Subgraph) error {
	db, err := open(backend.Location(destination))
	if err != nil {
		return backend.NewExportError(destination, err)
	}
	defer db.Close()
	return backend.NewExportError(destination, write(ctx, db, sg))
}

func write(ctx context.Context, db *badger.DB, sg *graph.Subgraph) error {
	if err := db.DropPrefix(triplePrefix, labelPrefix, focusPrefix); err != nil {
		return fmt.Errorf("drop previous contents: %w", err)
	}

	wb := db.NewWriteBatch()
	defer wb.Cancel()

	for i, t := range sg.Triples {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		val, err := msgpack.Marshal(record{
			Subject:   t.Subject.String(),
			Predicate: t.Predicate,
			Object:    t.Object.String(),
		})
		if err != nil {
			return err
		}
		if err := wb.Set(tripleKey(uint64(i)), val); err != nil {
			return err
		}
	}
	for term, names := range sg.Labels {
		val, err := msgpack.Marshal(names)
		if err != nil {
			return err
		}
		if err := wb.Set(append(append([]byte{}, labelPrefix...), term...), val); err != nil {
			return err
		}
	}
	for _, f := range sg.Focus {
		if err := wb.Set(append(append([]byte{}, focusPrefix...), f.String()...), nil); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Labels reads back the labels and focus terms written by Export.
func Labels(dir string) (labels map[string][]string, focus []string, err error) {
	db, err := open(dir)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	labels = make(map[string][]string)
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = labelPrefix
		it := txn.NewIterator(opts)
		for it.Rewind(); it.Valid(); it.Next() {
			var names []string
			if err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &names)
			}); err != nil {
				it.Close()
				return err
			}
			labels[string(it.Item().Key()[len(labelPrefix):])] = names
		}
		it.Close()

		opts = badger.DefaultIteratorOptions
		opts.Prefix = focusPrefix
		opts.PrefetchValues = false
		it = txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			focus = append(focus, string(it.Item().Key()[len(focusPrefix):]))
		}
		return nil
	})
	return labels, focus, err
}
