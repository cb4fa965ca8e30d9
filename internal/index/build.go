package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	billy "github.com/go-git/go-billy/v5"

	"github.com/agentic-research/rdfmine/api"
	"github.com/agentic-research/rdfmine/internal/ingest"
)

// BuildStats summarizes an index build.
type BuildStats struct {
	Indexed int
	Missing int
	Invalid int
}

// Build indexes the snapshot of every dataset directory in fsys, in name
// order. Datasets without a snapshot, or with one that cannot be decoded, are
// skipped with a warning.
func Build(ctx context.Context, fsys billy.Filesystem, dbPath string, dedup bool, logger *slog.Logger) (stats BuildStats, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	file := api.ContentFile
	if dedup {
		file = api.DedupContentFile
	}

	entries, err := fsys.ReadDir(".")
	if err != nil {
		return stats, fmt.Errorf("list datasets: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	w, err := Create(dbPath)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		name := entry.Name()
		snap, err := ingest.ReadSnapshot(fsys, name, file)
		switch {
		case errors.Is(err, os.ErrNotExist):
			stats.Missing++
			logger.Warn("dataset has no snapshot", slog.String("dataset", name), slog.String("file", file))
			continue
		case err != nil:
			stats.Invalid++
			logger.Warn("unreadable snapshot", slog.String("dataset", name), slog.Any("error", err))
			continue
		}

		w.AddDataset(name, snap)
		stats.Indexed++
	}

	logger.Info("index built",
		slog.String("path", dbPath),
		slog.Int("datasets", stats.Indexed),
		slog.Int("missing", stats.Missing),
		slog.Int("invalid", stats.Invalid))
	return stats, nil
}
