package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agentic-research/rdfmine/api"
	"github.com/agentic-research/rdfmine/internal/classify"
	"github.com/agentic-research/rdfmine/internal/triple"
)

const labelMarker = "label"

// Collector stages the triples of one file. A collector is either committed
// to its strategy, when the whole file parsed, or dropped.
type Collector interface {
	Add(t triple.RawTriple)
}

// Strategy aggregates a dataset's triples into a snapshot.
type Strategy interface {
	// NewCollector returns an empty staging area for file.
	NewCollector(file string) Collector
	// Commit folds a fully read file into the dataset.
	Commit(c Collector)
	// Finish builds the snapshot. report receives triples that could not be
	// aggregated, with the file they came from.
	Finish(report func(file string, err error)) *api.Snapshot
	// ContentFile is the snapshot file name.
	ContentFile() string
	// MinedFiles is the metadata value recorded under api.MinedFilesKey.
	MinedFiles(names []string) any
}

// NewStrategy returns the dedup strategy when dedup is set and the plain
// strategy otherwise.
func NewStrategy(dedup bool, logger *slog.Logger) Strategy {
	if logger == nil {
		logger = slog.Default()
	}
	if dedup {
		return newDedupStrategy()
	}
	return newPlainStrategy(logger)
}

// -----------------------------------------------------------------------------
// Plain: classify every triple, keep every occurrence
// -----------------------------------------------------------------------------

type plainStrategy struct {
	logger   *slog.Logger
	snapshot *api.Snapshot
}

func newPlainStrategy(logger *slog.Logger) *plainStrategy {
	return &plainStrategy{logger: logger, snapshot: api.NewSnapshot()}
}

type plainCollector struct {
	file     string
	snapshot *api.Snapshot
	// blankPredicates counts triples whose predicate has no local name.
	blankPredicates int
}

func (s *plainStrategy) NewCollector(file string) Collector {
	return &plainCollector{file: file, snapshot: api.NewSnapshot()}
}

func (c *plainCollector) Add(t triple.RawTriple) {
	r := classify.Classify(t)

	if !r.Subject.Blank() {
		c.snapshot.Add(r.Subject.Category, r.Subject.Value)
	}
	if strings.TrimSpace(r.Predicate) == "" {
		c.blankPredicates++
	}
	c.snapshot.Add(api.Properties, r.Predicate)
	if !r.Object.Blank() {
		c.snapshot.Add(r.Object.Category, r.Object.Value)
	}
}

func (s *plainStrategy) Commit(c Collector) {
	pc := c.(*plainCollector)
	if pc.blankPredicates > 0 {
		s.logger.Warn("predicates without local name recorded as blank properties",
			slog.String("file", pc.file), slog.Int("count", pc.blankPredicates))
	}
	s.snapshot.Append(pc.snapshot)
}

func (s *plainStrategy) Finish(func(string, error)) *api.Snapshot {
	return s.snapshot
}

func (s *plainStrategy) ContentFile() string { return api.ContentFile }

func (s *plainStrategy) MinedFiles(names []string) any { return len(names) }

// -----------------------------------------------------------------------------
// Dedup: one contribution per distinct triple, URIs resolved to labels
// -----------------------------------------------------------------------------

var (
	errPredicateNotIRI = errors.New("predicate is not an IRI")
	errLiteralSubject  = errors.New("literal in subject position")
)

type dedupStrategy struct {
	triples *triple.Set
	labels  map[string]string
}

func newDedupStrategy() *dedupStrategy {
	return &dedupStrategy{triples: triple.NewSet(), labels: make(map[string]string)}
}

type dedupCollector struct {
	file    string
	triples *triple.Set
	// labels keeps insertion order so later label triples win on commit.
	labels []labelEntry
}

type labelEntry struct {
	subject string
	label   string
}

func (s *dedupStrategy) NewCollector(file string) Collector {
	return &dedupCollector{file: file, triples: triple.NewSet()}
}

func (c *dedupCollector) Add(t triple.RawTriple) {
	t = t.ScopeBlanks(c.file)
	c.triples.Add(t, c.file)

	if strings.Contains(classify.PredicateValue(t.P), labelMarker) {
		label := t.O.String()
		if t.O.IsLiteral() {
			label = classify.LiteralValue(t.O)
		}
		c.labels = append(c.labels, labelEntry{subject: t.S.String(), label: label})
	}
}

func (s *dedupStrategy) Commit(c Collector) {
	dc := c.(*dedupCollector)
	s.triples.Merge(dc.triples)
	for _, l := range dc.labels {
		s.labels[l.subject] = l.label
	}
}

// Triples exposes the deduplicated set built so far.
func (s *dedupStrategy) Triples() *triple.Set { return s.triples }

func (s *dedupStrategy) Finish(report func(file string, err error)) *api.Snapshot {
	out := api.NewSnapshot()
	for _, e := range s.triples.Entries() {
		terms, err := s.resolve(e.Triple)
		if err != nil {
			if report != nil {
				report(e.File, fmt.Errorf("%s: %w", e.Triple, err))
			}
			continue
		}
		for _, term := range terms {
			out.Add(term.Category, term.Value)
		}
	}
	return out
}

// resolve returns the contributions of one triple. Nothing is added to the
// snapshot unless the whole triple resolves.
func (s *dedupStrategy) resolve(t triple.RawTriple) (terms []classify.Term, err error) {
	defer func() {
		if r := recover(); r != nil {
			terms, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	if !t.P.IsIRI() || t.P.Value == "" {
		return nil, errPredicateNotIRI
	}
	if t.S.IsLiteral() {
		return nil, errLiteralSubject
	}

	pred := classify.PredicateValue(t.P)
	terms = append(terms, classify.Term{Category: api.Properties, Value: pred})

	if t.S.IsIRI() {
		terms = appendNonBlank(terms, api.Entities, s.label(t.S))
	}
	switch {
	case pred == "type" && t.O.IsIRI():
		terms = appendNonBlank(terms, api.Classes, s.label(t.O))
	case t.O.IsLiteral():
		terms = appendNonBlank(terms, api.Literals, classify.LiteralValue(t.O))
	}
	return terms, nil
}

func (s *dedupStrategy) label(n triple.Node) string {
	raw := n.String()
	if l, ok := s.labels[raw]; ok {
		return l
	}
	return raw
}

func (s *dedupStrategy) ContentFile() string { return api.DedupContentFile }

func (s *dedupStrategy) MinedFiles(names []string) any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}

func appendNonBlank(terms []classify.Term, c api.Category, v string) []classify.Term {
	if strings.TrimSpace(v) == "" {
		return terms
	}
	return append(terms, classify.Term{Category: c, Value: v})
}
