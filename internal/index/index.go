// Package index builds and queries a search index over mined datasets.
//
// Every (category, term) pair maps to a roaring bitmap of dataset ids. The
// bitmaps are accumulated in memory and written to SQLite in one transaction,
// so building the index costs one insert per dataset and one per posting.
package index

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring"
	_ "modernc.org/sqlite"

	"github.com/agentic-research/rdfmine/api"
)

// ErrNoTerms is returned by Lookup when every term is blank.
var ErrNoTerms = errors.New("no search terms")

const schema = `
DROP TABLE IF EXISTS postings;
DROP TABLE IF EXISTS datasets;
CREATE TABLE datasets (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE postings (
	category TEXT NOT NULL,
	term TEXT NOT NULL,
	datasets BLOB NOT NULL,
	PRIMARY KEY (category, term)
) WITHOUT ROWID;
`

const nameChunk = 500

type postingKey struct {
	category api.Category
	term     string
}

// Writer accumulates postings and writes them on Close. It replaces any index
// already stored at the path.
type Writer struct {
	db *sql.DB

	mu       sync.Mutex
	names    []string
	postings map[postingKey]*roaring.Bitmap

	closeOnce sync.Once
	closeErr  error
}

// Create opens the SQLite database at dbPath and resets its index tables.
func Create(dbPath string) (*Writer, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Writer{db: db, postings: make(map[postingKey]*roaring.Bitmap)}, nil
}

// AddDataset indexes the terms of one snapshot. Datasets receive ids in the
// order they are added.
func (w *Writer) AddDataset(name string, snap *api.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := uint32(len(w.names))
	w.names = append(w.names, name)

	for _, c := range api.Categories {
		for _, v := range snap.Bucket(c) {
			term := normalize(v)
			if term == "" {
				continue
			}
			k := postingKey{category: c, term: term}
			bm, ok := w.postings[k]
			if !ok {
				bm = roaring.New()
				w.postings[k] = bm
			}
			bm.Add(id)
		}
	}
}

// Datasets returns the number of datasets added so far.
func (w *Writer) Datasets() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.names)
}

// Close writes the accumulated index and closes the database. Only the first
// call writes.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		err := w.flush()
		if cerr := w.db.Close(); err == nil {
			err = cerr
		}
		w.closeErr = err
	})
	return w.closeErr
}

func (w *Writer) flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("begin index flush: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	dsStmt, err := tx.Prepare("INSERT INTO datasets (id, name) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare datasets insert: %w", err)
	}
	defer func() { _ = dsStmt.Close() }()

	for id, name := range w.names {
		if _, err := dsStmt.Exec(id, name); err != nil {
			return fmt.Errorf("insert dataset %s: %w", name, err)
		}
	}

	postStmt, err := tx.Prepare("INSERT INTO postings (category, term, datasets) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare postings insert: %w", err)
	}
	defer func() { _ = postStmt.Close() }()

	var buf bytes.Buffer
	for k, bm := range w.postings {
		buf.Reset()
		bm.RunOptimize()
		if _, err := bm.WriteTo(&buf); err != nil {
			return fmt.Errorf("serialize bitmap for %s/%s: %w", k.category, k.term, err)
		}
		if _, err := postStmt.Exec(string(k.category), k.term, buf.Bytes()); err != nil {
			return fmt.Errorf("insert posting %s/%s: %w", k.category, k.term, err)
		}
	}

	return tx.Commit()
}

// Index answers term lookups against a built index.
type Index struct {
	db *sql.DB
}

// Open opens an index created by a Writer.
func Open(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	var n int
	if err := db.QueryRow("SELECT count(*) FROM datasets").Scan(&n); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open index %s: %w", dbPath, err)
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

// Lookup returns, in id order, the datasets whose category bucket holds every
// term. Terms are trimmed and blank terms are ignored.
func (ix *Index) Lookup(c api.Category, terms ...string) ([]string, error) {
	var acc *roaring.Bitmap
	for _, t := range terms {
		term := normalize(t)
		if term == "" {
			continue
		}
		bm, err := ix.posting(c, term)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = bm
		} else {
			acc.And(bm)
		}
		if acc.IsEmpty() {
			return nil, nil
		}
	}
	if acc == nil {
		return nil, ErrNoTerms
	}
	return ix.names(acc)
}

func (ix *Index) posting(c api.Category, term string) (*roaring.Bitmap, error) {
	var blob []byte
	err := ix.db.QueryRow("SELECT datasets FROM postings WHERE category = ? AND term = ?", string(c), term).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return roaring.New(), nil
	}
	if err != nil {
		return nil, err
	}

	rb := roaring.New()
	if err := rb.UnmarshalBinary(blob); err != nil {
		return nil, fmt.Errorf("unmarshal bitmap: %w", err)
	}
	return rb, nil
}

// names resolves ids in chunks to stay under SQLite's bound-parameter limit.
func (ix *Index) names(bm *roaring.Bitmap) ([]string, error) {
	ids := bm.ToArray()
	out := make([]string, 0, len(ids))
	for start := 0; start < len(ids); start += nameChunk {
		end := min(start+nameChunk, len(ids))
		chunk, err := ix.nameChunk(ids[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (ix *Index) nameChunk(ids []uint32) ([]string, error) {
	args := make([]any, len(ids))
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		args[i] = int64(id)
		placeholders[i] = "?"
	}

	query := fmt.Sprintf("SELECT name FROM datasets WHERE id IN (%s) ORDER BY id", strings.Join(placeholders, ","))
	rows, err := ix.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query dataset names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan dataset name: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func normalize(term string) string {
	return strings.TrimSpace(term)
}
