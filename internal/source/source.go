// Package source opens RDF files as streams of triples.
//
// Parsing is delegated to github.com/geoknoesis/rdf-go. This package picks the
// serialization from the file extension, skips a UTF-8 byte order mark,
// converts parser terms into the triple model and classifies parser failures
// into format errors and resource-limit errors.
package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	rdf "github.com/geoknoesis/rdf-go/rdf"
	billy "github.com/go-git/go-billy/v5"

	"github.com/agentic-research/rdfmine/internal/triple"
)

var (
	// ErrUnsupportedFormat is returned for recognized extensions the parser
	// cannot read.
	ErrUnsupportedFormat = errors.New("unsupported RDF serialization")
	// ErrResourceExhausted is returned when a file exceeds the parser's
	// line, statement, depth or triple limits.
	ErrResourceExhausted = errors.New("resource exhausted")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// formats maps every recognized RDF extension to a parser format. An empty
// format marks an extension that is recognized but has no parser.
var formats = map[string]rdf.Format{
	"rdf":      rdf.FormatRDFXML,
	"rdfs":     rdf.FormatRDFXML,
	"owl":      rdf.FormatRDFXML,
	"xml":      rdf.FormatRDFXML,
	"ttl":      rdf.FormatTurtle,
	"n3":       rdf.FormatTurtle,
	"nt":       rdf.FormatNTriples,
	"ntriples": rdf.FormatNTriples,
	"nq":       rdf.FormatNQuads,
	"jsonld":   rdf.FormatJSONLD,
	"trig":     rdf.FormatTriG,
	"trix":     "",
}

// Extension returns the substring after the last '.' of name, or "" when
// name has no dot.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// IsRDF reports whether name carries a recognized RDF extension. Matching is
// case-sensitive.
func IsRDF(name string) bool {
	_, ok := formats[Extension(name)]
	return ok
}

// Options bounds the parser. Zero fields keep the parser defaults.
type Options struct {
	MaxLineBytes      int
	MaxStatementBytes int
	MaxDepth          int
	MaxTriples        int64
}

func (o Options) rdfOptions(ctx context.Context) []rdf.Option {
	opts := []rdf.Option{rdf.OptContext(ctx)}
	if o.MaxLineBytes > 0 {
		opts = append(opts, rdf.OptMaxLineBytes(o.MaxLineBytes))
	}
	if o.MaxStatementBytes > 0 {
		opts = append(opts, rdf.OptMaxStatementBytes(o.MaxStatementBytes))
	}
	if o.MaxDepth > 0 {
		opts = append(opts, rdf.OptMaxDepth(o.MaxDepth))
	}
	if o.MaxTriples > 0 {
		opts = append(opts, rdf.OptMaxTriples(o.MaxTriples))
	}
	return opts
}

// Stream is a lazy, finite sequence of triples read from one file.
type Stream struct {
	name   string
	file   billy.File
	reader rdf.Reader
	closed bool
}

// Open opens name on fsys and prepares a parser for its extension.
func Open(ctx context.Context, fsys billy.Filesystem, name string, opts Options) (*Stream, error) {
	format, ok := formats[Extension(name)]
	if !ok || format == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path.Base(name))
	}

	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}

	r, err := rdf.NewReader(skipBOM(f), format, opts.rdfOptions(ctx)...)
	if err != nil {
		_ = f.Close()
		return nil, classify(err)
	}

	return &Stream{name: name, file: f, reader: r}, nil
}

// Next returns the next triple, or io.EOF when the file is exhausted. Named
// graphs of quad formats are dropped.
func (s *Stream) Next() (t triple.RawTriple, err error) {
	if s.closed {
		return t, io.EOF
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	stmt, err := s.reader.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return t, io.EOF
		}
		return t, classify(err)
	}

	return triple.RawTriple{
		S: convert(stmt.S),
		P: triple.NewIRI(stmt.P.Value),
		O: convert(stmt.O),
	}, nil
}

// Close releases the parser and the file. It is safe to call more than once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	rerr := s.reader.Close()
	ferr := s.file.Close()
	if rerr != nil {
		return rerr
	}
	return ferr
}

func convert(t rdf.Term) triple.Node {
	if t == nil {
		return triple.NewBlank("")
	}
	switch t.Kind() {
	case rdf.TermIRI:
		return triple.NewIRI(t.String())
	case rdf.TermBlankNode:
		return triple.NewBlank(strings.TrimPrefix(t.String(), "_:"))
	case rdf.TermLiteral:
		switch lit := t.(type) {
		case rdf.Literal:
			return triple.NewLiteral(lit.Lexical, lit.Datatype.Value, lit.Lang)
		case *rdf.Literal:
			return triple.NewLiteral(lit.Lexical, lit.Datatype.Value, lit.Lang)
		}
		return triple.NewLiteral(t.String(), "", "")
	default:
		// Quoted triples have no vocabulary value of their own.
		return triple.NewBlank(t.String())
	}
}

func classify(err error) error {
	switch rdf.Code(err) {
	case rdf.ErrCodeLineTooLong, rdf.ErrCodeStatementTooLong, rdf.ErrCodeDepthExceeded, rdf.ErrCodeTripleLimitExceeded:
		return fmt.Errorf("%w: %v", ErrResourceExhausted, err)
	case rdf.ErrCodeUnsupportedFormat:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return err
}

func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}
