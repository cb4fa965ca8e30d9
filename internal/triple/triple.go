// Package triple holds the parser-independent RDF model the miner works on.
//
// Node and RawTriple are plain comparable values: two triples are the same
// triple exactly when subject, predicate and object agree on kind, value,
// datatype and language. That makes RawTriple usable directly as a map key,
// which is what Set relies on for cross-file deduplication.
package triple

import "strings"

// XSDString is the implicit datatype of simple literals.
const XSDString = "http://www.w3.org/2001/XMLSchema#string"

// Kind identifies what a Node is.
type Kind uint8

const (
	// IRI is a URI reference.
	IRI Kind = iota
	// Blank is a blank node.
	Blank
	// Literal is a literal with optional datatype or language tag.
	Literal
)

func (k Kind) String() string {
	switch k {
	case IRI:
		return "iri"
	case Blank:
		return "blank"
	case Literal:
		return "literal"
	default:
		return "unknown"
	}
}

// Node is one position of a triple.
type Node struct {
	Kind Kind
	// Value is the IRI, the blank node identifier or the literal lexical form.
	Value    string
	Datatype string
	Lang     string
}

// NewIRI returns an IRI node.
func NewIRI(iri string) Node { return Node{Kind: IRI, Value: iri} }

// NewBlank returns a blank node with the given identifier (without "_:").
func NewBlank(id string) Node { return Node{Kind: Blank, Value: id} }

// NewLiteral returns a literal node. A datatype of xsd:string is dropped so
// that "x" and "x"^^xsd:string compare equal, as they do in RDF 1.1.
func NewLiteral(lexical, datatype, lang string) Node {
	if lang != "" || datatype == XSDString {
		datatype = ""
	}
	return Node{Kind: Literal, Value: lexical, Datatype: datatype, Lang: lang}
}

func (n Node) IsIRI() bool     { return n.Kind == IRI }
func (n Node) IsBlank() bool   { return n.Kind == Blank }
func (n Node) IsLiteral() bool { return n.Kind == Literal }

// String renders the node in its raw form: the full IRI, "_:id" for blank
// nodes, and lex, lex@lang or lex^^datatype for literals.
func (n Node) String() string {
	switch n.Kind {
	case Blank:
		return "_:" + n.Value
	case Literal:
		switch {
		case n.Lang != "":
			return n.Value + "@" + n.Lang
		case n.Datatype != "":
			return n.Value + "^^" + n.Datatype
		}
		return n.Value
	default:
		return n.Value
	}
}

// Stripped returns the literal without its datatype and language tag.
// Non-literals are returned unchanged.
func (n Node) Stripped() Node {
	if n.Kind != Literal {
		return n
	}
	return Node{Kind: Literal, Value: n.Value}
}

// LocalName returns the text after the last '#' or '/' of an IRI. Nodes that
// are not IRIs have no local name.
func (n Node) LocalName() string {
	if n.Kind != IRI {
		return ""
	}
	return LocalName(n.Value)
}

// LocalName returns the fragment of iri after its last '#' or '/'.
func LocalName(iri string) string {
	return iri[strings.LastIndexAny(iri, "#/")+1:]
}

// RawTriple is one parsed statement.
type RawTriple struct {
	S Node
	P Node
	O Node
}

func (t RawTriple) String() string {
	return t.S.String() + " " + t.P.String() + " " + t.O.String()
}

// ScopeBlanks renames the blank nodes of t into scope. Parsers label blank
// nodes per document, so equal labels from two files name different nodes.
func (t RawTriple) ScopeBlanks(scope string) RawTriple {
	return RawTriple{S: t.S.scoped(scope), P: t.P, O: t.O.scoped(scope)}
}

func (n Node) scoped(scope string) Node {
	if n.Kind != Blank {
		return n
	}
	return NewBlank(scope + "/" + n.Value)
}
