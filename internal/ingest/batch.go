package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/agentic-research/rdfmine/internal/config"
	"github.com/agentic-research/rdfmine/internal/source"
)

// progressEvery is how many mined datasets pass between progress logs.
var progressEvery = 1000

// Stats summarizes a batch run.
type Stats struct {
	Datasets int
	Mined    int
	Skipped  int
	Filtered int
	Failed   int
	Files    int
	Triples  int
	Errors   int
	Duration time.Duration
}

// Batch mines every dataset directory under a root folder.
type Batch struct {
	cfg      *config.Config
	fs       billy.Filesystem
	logger   *slog.Logger
	observer Observer
}

// NewBatch validates cfg and prepares a run over cfg.Root. Configuration
// errors wrap config.ErrInvalidConfig.
func NewBatch(cfg *config.Config, logger *slog.Logger) (*Batch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, pattern := range cfg.Only {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: bad dataset pattern %q", config.ErrInvalidConfig, pattern)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{
		cfg:      cfg,
		fs:       osfs.New(cfg.Root),
		logger:   logger,
		observer: nopObserver{},
	}, nil
}

// WithObserver routes mining events to o.
func (b *Batch) WithObserver(o Observer) *Batch {
	if o != nil {
		b.observer = o
	}
	return b
}

// Run mines the datasets in name order. The error log is truncated unless the
// run resumes, and is closed on every exit path. Cancelling ctx stops the run
// between datasets and returns the context error.
func (b *Batch) Run(ctx context.Context) (stats Stats, err error) {
	start := time.Now()

	log, err := OpenErrorLog(b.cfg.LogFile, b.cfg.Resume)
	if err != nil {
		return stats, err
	}
	defer func() { _ = log.Close() }()

	engine := &Engine{
		FS: b.fs,
		Open: SourceOpener(source.Options{
			MaxLineBytes:      b.cfg.Parser.MaxLineBytes,
			MaxStatementBytes: b.cfg.Parser.MaxStatementBytes,
			MaxDepth:          b.cfg.Parser.MaxDepth,
			MaxTriples:        b.cfg.Parser.MaxTriples,
		}),
		LimitMB:  b.cfg.LimitMB,
		Dedup:    b.cfg.Dedup,
		Log:      log,
		Logger:   b.logger,
		Observer: b.observer,
	}

	entries, err := b.fs.ReadDir(".")
	if err != nil {
		return stats, fmt.Errorf("list root %s: %w", b.cfg.Root, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	b.logger.Info("mining started",
		slog.String("root", b.cfg.Root),
		slog.Bool("dedup", b.cfg.Dedup),
		slog.Bool("resume", b.cfg.Resume),
		slog.Int64("limit_mb", b.cfg.LimitMB))

	defer func() {
		stats.Errors = log.Count()
		stats.Duration = time.Since(start)
	}()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		name := entry.Name()
		stats.Datasets++

		if !b.selected(name) {
			stats.Filtered++
			continue
		}
		if b.cfg.Resume && b.alreadyMined(name) {
			stats.Skipped++
			b.observer.DatasetSkipped(name)
			continue
		}

		res, err := engine.MineDataset(ctx, name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return stats, ctxErr
			}
			stats.Failed++
			if lerr := log.Record(name, noFile, err.Error()); lerr != nil {
				b.logger.Error("error log write failed", slog.Any("error", lerr))
			}
			continue
		}

		stats.Mined++
		stats.Files += len(res.Mined)
		stats.Triples += res.Triples
		if stats.Mined%progressEvery == 0 {
			b.logger.Info("mining progress", slog.Int("mined", stats.Mined), slog.Int("skipped", stats.Skipped))
		}
	}

	b.logger.Info("mining finished",
		slog.Int("mined", stats.Mined),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
		slog.Int("files", stats.Files))
	return stats, nil
}

func (b *Batch) selected(name string) bool {
	if len(b.cfg.Only) == 0 {
		return true
	}
	for _, pattern := range b.cfg.Only {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// alreadyMined treats unreadable metadata as not mined.
func (b *Batch) alreadyMined(name string) bool {
	mined, err := IsMined(b.fs, name)
	if err != nil {
		b.logger.Warn("unreadable metadata, mining again",
			slog.String("dataset", name), slog.Any("error", err))
		return false
	}
	return mined
}
