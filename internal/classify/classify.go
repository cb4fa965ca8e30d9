// Package classify assigns the terminal nodes of a triple to vocabulary
// categories.
//
// The predicate's local name drives both sides. For rdf:type-like
// predicates (local name "type") the subject is a property or a class when
// the object is Property or Class, and a non-literal object is a class. For
// any other predicate both sides are entities. Literal objects are always
// literals.
package classify

import (
	"strings"

	"github.com/agentic-research/rdfmine/api"
	"github.com/agentic-research/rdfmine/internal/triple"
)

const (
	typePredicate = "type"
	propertyClass = "Property"
	classClass    = "Class"
)

// Term is a categorized, normalized node value.
type Term struct {
	Category api.Category
	Value    string
}

// Blank reports whether the term carries no usable value.
func (t Term) Blank() bool {
	return strings.TrimSpace(t.Value) == ""
}

// Result is the classification of one triple.
type Result struct {
	Subject   Term
	Predicate string
	Object    Term
}

// Classify categorizes the subject and object of t. It never fails.
func Classify(t triple.RawTriple) Result {
	pred := PredicateValue(t.P)

	var subj, obj api.Category
	if pred == typePredicate {
		switch t.O.LocalName() {
		case propertyClass:
			subj = api.Properties
		case classClass:
			subj = api.Classes
		default:
			subj = api.Entities
		}
		obj = api.Classes
	} else {
		subj = api.Entities
		obj = api.Entities
	}
	if t.O.IsLiteral() {
		obj = api.Literals
	}

	return Result{
		Subject:   Term{Category: subj, Value: Value(t.S)},
		Predicate: pred,
		Object:    Term{Category: obj, Value: Value(t.O)},
	}
}

// PredicateValue returns the local name of a predicate.
func PredicateValue(p triple.Node) string {
	return triple.LocalName(p.Value)
}

// Value extracts the normalized string of a node: the local name of an IRI
// (the full IRI when the local name is blank), the lexical form of a
// literal (see LiteralValue) and the "_:id" form of a blank node.
func Value(n triple.Node) string {
	switch n.Kind {
	case triple.IRI:
		if local := n.LocalName(); strings.TrimSpace(local) != "" {
			return local
		}
		return n.Value
	case triple.Literal:
		return LiteralValue(n)
	default:
		return n.String()
	}
}

// LiteralValue returns the lexical form of a literal stripped of datatype and
// language. If that is blank the full literal form is returned instead.
func LiteralValue(n triple.Node) string {
	if v := n.Stripped().String(); strings.TrimSpace(v) != "" {
		return v
	}
	return n.String()
}
