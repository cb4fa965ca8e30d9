package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"

	billy "github.com/go-git/go-billy/v5"

	"github.com/agentic-research/rdfmine/api"
	"github.com/agentic-research/rdfmine/internal/source"
	"github.com/agentic-research/rdfmine/internal/triple"
)

const mib = 1 << 20

// TripleSource yields the triples of one file until io.EOF.
type TripleSource interface {
	Next() (triple.RawTriple, error)
	Close() error
}

// Opener opens a file of a dataset as a TripleSource.
type Opener func(ctx context.Context, fsys billy.Filesystem, name string) (TripleSource, error)

// SourceOpener returns an Opener backed by the RDF parser.
func SourceOpener(opts source.Options) Opener {
	return func(ctx context.Context, fsys billy.Filesystem, name string) (TripleSource, error) {
		s, err := source.Open(ctx, fsys, name, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Failure reasons reported to an Observer.
const (
	ReasonOversize = "oversize"
	ReasonParse    = "parse"
	ReasonResource = "resource"
	ReasonTriple   = "triple"
	ReasonWrite    = "write"
)

// Observer receives mining events. Implementations must be cheap; they run on
// the mining goroutine.
type Observer interface {
	FileMined(dataset, file string, triples int)
	FileFailed(dataset, file, reason string)
	DatasetMined(dataset string)
	DatasetSkipped(dataset string)
}

type nopObserver struct{}

func (nopObserver) FileMined(string, string, int)     {}
func (nopObserver) FileFailed(string, string, string) {}
func (nopObserver) DatasetMined(string)               {}
func (nopObserver) DatasetSkipped(string)             {}

// Result summarizes one mined dataset.
type Result struct {
	Dataset  string
	Mined    []string
	Failed   int
	Oversize int
	Triples  int
	Snapshot string
}

// Engine mines the RDF files of single datasets.
type Engine struct {
	FS       billy.Filesystem
	Open     Opener
	LimitMB  int64
	Dedup    bool
	Log      *ErrorLog
	Logger   *slog.Logger
	Observer Observer
}

// NewEngine returns an engine over fsys, rooted at the datasets folder.
func NewEngine(fsys billy.Filesystem, log *ErrorLog, limitMB int64, dedup bool) *Engine {
	return &Engine{
		FS:      fsys,
		Open:    SourceOpener(source.Options{}),
		LimitMB: limitMB,
		Dedup:   dedup,
		Log:     log,
	}
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e *Engine) observer() Observer {
	if e.Observer != nil {
		return e.Observer
	}
	return nopObserver{}
}

// MineDataset reads every eligible file of the dataset directory, writes the
// snapshot and marks the dataset as mined. File failures are recorded in the
// error log and do not stop the dataset. An error is returned only when the
// dataset could not be listed or ctx was cancelled; in both cases nothing is
// written.
func (e *Engine) MineDataset(ctx context.Context, dataset string) (*Result, error) {
	entries, err := e.FS.ReadDir(dataset)
	if err != nil {
		return nil, fmt.Errorf("list dataset %s: %w", dataset, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	strategy := NewStrategy(e.Dedup, e.logger())
	res := &Result{Dataset: dataset, Snapshot: strategy.ContentFile()}
	limit := e.LimitMB * mib

	for _, info := range entries {
		if !info.Mode().IsRegular() {
			continue
		}
		name := info.Name()

		if info.Size() > limit {
			res.Oversize++
			e.fail(dataset, name, ReasonOversize, fmt.Sprintf("bigger than %d MB", e.LimitMB))
			continue
		}
		if !source.IsRDF(name) {
			continue
		}

		collector := strategy.NewCollector(name)
		n, err := e.mineFile(ctx, path.Join(dataset, name), collector)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			res.Failed++
			if errors.Is(err, source.ErrResourceExhausted) {
				e.fail(dataset, name, ReasonResource, resourceExhaustedMsg)
			} else {
				e.fail(dataset, name, ReasonParse, err.Error())
			}
			continue
		}

		strategy.Commit(collector)
		res.Mined = append(res.Mined, name)
		res.Triples += n
		e.observer().FileMined(dataset, name, n)
	}

	snap := strategy.Finish(func(file string, err error) {
		e.fail(dataset, file, ReasonTriple, err.Error())
	})

	if err := WriteSnapshot(e.FS, dataset, strategy.ContentFile(), snap); err != nil {
		e.fail(dataset, strategy.ContentFile(), ReasonWrite, err.Error())
		return res, nil
	}
	if err := MarkMined(e.FS, dataset, strategy.MinedFiles(res.Mined)); err != nil {
		e.fail(dataset, api.MetadataFile, ReasonWrite, err.Error())
		return res, nil
	}

	e.observer().DatasetMined(dataset)
	e.logger().Debug("dataset mined",
		slog.String("dataset", dataset),
		slog.Int("files", len(res.Mined)),
		slog.Int("failed", res.Failed),
		slog.Int("triples", res.Triples))
	return res, nil
}

// mineFile streams one file into c and returns the number of triples read.
// The collector must be discarded when an error is returned.
func (e *Engine) mineFile(ctx context.Context, name string, c Collector) (n int, err error) {
	src, err := e.Open(ctx, e.FS, name)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for {
		t, err := src.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		c.Add(t)
		n++
	}
}

func (e *Engine) fail(dataset, file, reason, msg string) {
	e.observer().FileFailed(dataset, file, reason)
	if e.Log == nil {
		return
	}
	if err := e.Log.Record(dataset, file, msg); err != nil {
		e.logger().Error("error log write failed", slog.String("dataset", dataset), slog.Any("error", err))
	}
}
