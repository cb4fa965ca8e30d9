package triple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalName(t *testing.T) {
	cases := map[string]string{
		"http://xmlns.com/foaf/0.1/name":                  "name",
		"http://www.w3.org/1999/02/22-rdf-syntax-ns#type": "type",
		"http://example.org/ns#":                          "",
		"http://example.org/path/":                        "",
		"urn:isbn:0451450523":                             "urn:isbn:0451450523",
	}
	for iri, want := range cases {
		assert.Equal(t, want, LocalName(iri), iri)
	}

	assert.Equal(t, "", NewLiteral("Class", "", "").LocalName(), "literals have no local name")
	assert.Equal(t, "", NewBlank("b0").LocalName())
}

func TestNodeString(t *testing.T) {
	assert.Equal(t, "http://ex.org/a", NewIRI("http://ex.org/a").String())
	assert.Equal(t, "_:b1", NewBlank("b1").String())
	assert.Equal(t, "chat@fr", NewLiteral("chat", "", "fr").String())
	assert.Equal(t, "42^^http://www.w3.org/2001/XMLSchema#integer",
		NewLiteral("42", "http://www.w3.org/2001/XMLSchema#integer", "").String())
	assert.Equal(t, "Alice", NewLiteral("Alice", XSDString, "").String())
}

func TestNewLiteral_XSDStringIsPlain(t *testing.T) {
	assert.Equal(t, NewLiteral("x", "", ""), NewLiteral("x", XSDString, ""))
}

func TestStripped_Idempotent(t *testing.T) {
	nodes := []Node{
		NewLiteral("42", "http://www.w3.org/2001/XMLSchema#integer", ""),
		NewLiteral("chat", "", "fr"),
		NewLiteral("a^^b@c", "", ""),
		NewLiteral("", "http://ex.org/dt", ""),
		NewIRI("http://ex.org/a"),
		NewBlank("b0"),
	}
	for _, n := range nodes {
		once := n.Stripped()
		assert.Equal(t, once, once.Stripped(), n.String())
		if n.IsLiteral() {
			assert.Equal(t, n.Value, once.String())
		}
	}
}

func TestSet_StructuralDedup(t *testing.T) {
	alice := NewIRI("http://ex.org/Alice")
	name := NewIRI("http://xmlns.com/foaf/0.1/name")

	s := NewSet()
	require.True(t, s.Add(RawTriple{alice, name, NewLiteral("Alice", "", "")}, "a.ttl"))
	assert.False(t, s.Add(RawTriple{alice, name, NewLiteral("Alice", XSDString, "")}, "b.ttl"), "same triple from another file")
	assert.True(t, s.Add(RawTriple{alice, name, NewLiteral("Alice", "", "en")}, "b.ttl"), "language tag makes it distinct")

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "a.ttl", s.Entries()[0].File, "first file wins")
	assert.Equal(t, "b.ttl", s.Entries()[1].File)
}

func TestSet_MergeKeepsOrder(t *testing.T) {
	p := NewIRI("http://ex.org/p")
	t1 := RawTriple{NewIRI("http://ex.org/1"), p, NewIRI("http://ex.org/x")}
	t2 := RawTriple{NewIRI("http://ex.org/2"), p, NewIRI("http://ex.org/x")}
	t3 := RawTriple{NewIRI("http://ex.org/3"), p, NewIRI("http://ex.org/x")}

	dst := NewSet()
	dst.Add(t1, "one.nt")
	src := NewSet()
	src.Add(t2, "two.nt")
	src.Add(t1, "two.nt")
	src.Add(t3, "two.nt")

	dst.Merge(src)
	require.Equal(t, 3, dst.Len())
	assert.Equal(t, []Entry{{t1, "one.nt"}, {t2, "two.nt"}, {t3, "two.nt"}}, dst.Entries())
}

func TestScopeBlanks(t *testing.T) {
	p := NewIRI("http://ex.org/p")
	tr := RawTriple{NewBlank("x"), p, NewBlank("y")}

	a := tr.ScopeBlanks("a.ttl")
	b := tr.ScopeBlanks("b.ttl")
	assert.NotEqual(t, a, b, "blank nodes from different files are different nodes")
	assert.Equal(t, a, tr.ScopeBlanks("a.ttl"))
	assert.Equal(t, "_:a.ttl/x", a.S.String())
	assert.Equal(t, p, a.P)

	iri := RawTriple{NewIRI("http://ex.org/s"), p, NewLiteral("v", "", "")}
	assert.Equal(t, iri, iri.ScopeBlanks("a.ttl"), "only blank nodes are renamed")
}
