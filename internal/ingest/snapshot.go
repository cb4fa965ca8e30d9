package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/rdfmine/api"
)

// WriteSnapshot serializes snap into name inside the dataset directory,
// replacing any previous snapshot.
func WriteSnapshot(fsys billy.Filesystem, dataset, name string, snap *api.Snapshot) error {
	snap.Normalize()
	data, err := marshalIndent(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return writeFileAtomic(fsys, path.Join(dataset, name), data)
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(fsys billy.Filesystem, dataset, name string) (*api.Snapshot, error) {
	data, err := util.ReadFile(fsys, path.Join(dataset, name))
	if err != nil {
		return nil, err
	}
	snap := api.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", dataset, name, err)
	}
	snap.Normalize()
	return snap, nil
}

func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temporary file next to name and renames it
// into place, so readers never see a half-written file.
func writeFileAtomic(fsys billy.Filesystem, name string, data []byte) error {
	tmp, err := util.TempFile(fsys, path.Dir(name), "."+path.Base(name)+"-")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := fsys.Rename(tmpName, name); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// WriteJSON writes any value with the snapshot encoding.
func WriteJSON(fsys billy.Filesystem, name string, v any) error {
	data, err := marshalIndent(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return writeFileAtomic(fsys, name, data)
}
