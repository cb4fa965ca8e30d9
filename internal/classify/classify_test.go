package classify

import (
	"testing"

	"github.com/agentic-research/rdfmine/api"
	"github.com/agentic-research/rdfmine/internal/triple"
	"github.com/stretchr/testify/assert"
)

const (
	rdfType  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	rdfProp  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#Property"
	owlClass = "http://www.w3.org/2002/07/owl#Class"
	foafName = "http://xmlns.com/foaf/0.1/name"
	xsdInt   = "http://www.w3.org/2001/XMLSchema#integer"
)

func iri(s string) triple.Node { return triple.NewIRI(s) }

func TestClassify_TypeProperty(t *testing.T) {
	for _, obj := range []string{rdfProp, "http://ex.org/vocab/Property", "http://ex.org/vocab#Property"} {
		r := Classify(triple.RawTriple{S: iri("http://ex.org/knows"), P: iri(rdfType), O: iri(obj)})
		assert.Equal(t, api.Properties, r.Subject.Category, obj)
		assert.Equal(t, "knows", r.Subject.Value)
		assert.Equal(t, "type", r.Predicate)
		assert.Equal(t, api.Classes, r.Object.Category)
		assert.Equal(t, "Property", r.Object.Value)
	}
}

func TestClassify_TypeClass(t *testing.T) {
	for _, obj := range []string{owlClass, "http://www.w3.org/2000/01/rdf-schema#Class"} {
		r := Classify(triple.RawTriple{S: iri("http://ex.org/Person"), P: iri(rdfType), O: iri(obj)})
		assert.Equal(t, api.Classes, r.Subject.Category, obj)
		assert.Equal(t, api.Classes, r.Object.Category)
	}
}

func TestClassify_TypeOther(t *testing.T) {
	r := Classify(triple.RawTriple{S: iri("http://ex.org/Alice"), P: iri(rdfType), O: iri("http://xmlns.com/foaf/0.1/Person")})
	assert.Equal(t, Term{api.Entities, "Alice"}, r.Subject)
	assert.Equal(t, Term{api.Classes, "Person"}, r.Object)
}

func TestClassify_OtherPredicateSubjectAlwaysEntity(t *testing.T) {
	objects := []triple.Node{
		iri(owlClass),
		iri(rdfProp),
		triple.NewBlank("b0"),
		triple.NewLiteral("Class", "", ""),
	}
	for _, o := range objects {
		r := Classify(triple.RawTriple{S: iri("http://ex.org/Alice"), P: iri("http://ex.org/typeOf"), O: o})
		assert.Equal(t, api.Entities, r.Subject.Category, o.String())
		assert.Equal(t, "typeOf", r.Predicate)
	}
}

func TestClassify_LiteralObjectAlwaysLiteral(t *testing.T) {
	for _, p := range []string{rdfType, foafName, "http://ex.org/"} {
		r := Classify(triple.RawTriple{S: iri("http://ex.org/a"), P: iri(p), O: triple.NewLiteral("v", "", "en")})
		assert.Equal(t, api.Literals, r.Object.Category, p)
		assert.Equal(t, "v", r.Object.Value)
	}
}

func TestClassify_TypeWithLiteralObjectDegrades(t *testing.T) {
	r := Classify(triple.RawTriple{S: iri("http://ex.org/a"), P: iri(rdfType), O: triple.NewLiteral("Class", "", "")})
	assert.Equal(t, api.Entities, r.Subject.Category, "a literal has no local name")
	assert.Equal(t, api.Literals, r.Object.Category)
}

func TestClassify_BlankSubject(t *testing.T) {
	r := Classify(triple.RawTriple{S: triple.NewBlank("n1"), P: iri(foafName), O: triple.NewLiteral("x", "", "")})
	assert.Equal(t, Term{api.Entities, "_:n1"}, r.Subject)
}

func TestValue(t *testing.T) {
	cases := []struct {
		name string
		node triple.Node
		want string
	}{
		{"iri local name", iri("http://ex.org/ns#Alice"), "Alice"},
		{"iri empty local name", iri("http://ex.org/ns#"), "http://ex.org/ns#"},
		{"typed literal", triple.NewLiteral("42", xsdInt, ""), "42"},
		{"lang literal", triple.NewLiteral("chat", "", "fr"), "chat"},
		{"empty typed literal", triple.NewLiteral("", xsdInt, ""), "^^" + xsdInt},
		{"empty lang literal", triple.NewLiteral("", "", "en"), "@en"},
		{"whitespace lang literal", triple.NewLiteral("   ", "", "en"), "   @en"},
		{"whitespace plain literal", triple.NewLiteral("  ", "", ""), "  "},
		{"empty plain literal", triple.NewLiteral("", "", ""), ""},
		{"blank", triple.NewBlank("b7"), "_:b7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Value(tc.node))
		})
	}
}

func TestLiteralValue_StripIdempotent(t *testing.T) {
	for _, n := range []triple.Node{
		triple.NewLiteral("42", xsdInt, ""),
		triple.NewLiteral("hello", "", "en-GB"),
		triple.NewLiteral("x^^y", "", ""),
	} {
		once := LiteralValue(n)
		twice := LiteralValue(triple.NewLiteral(once, "", ""))
		assert.Equal(t, once, twice, n.String())
	}
}

func TestTerm_Blank(t *testing.T) {
	assert.True(t, Term{api.Literals, "  \t"}.Blank())
	assert.False(t, Term{api.Literals, " a "}.Blank())
}
