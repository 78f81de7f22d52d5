package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphSetSemantics(t *testing.T) {
	g := NewGraph()

	tr := Triple{SchemeIRI, RDFType, IRIObject(SKOSConceptScheme)}
	assert.True(t, g.Add(tr))
	assert.False(t, g.Add(tr), "duplicate add must be a no-op")
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has(tr))
}

func TestGraphDistinguishesLiteralAndIRIObjects(t *testing.T) {
	g := NewGraph()
	subject := IRI("http://example.org/s")
	pred := IRI("http://example.org/p")

	assert.True(t, g.Add(Triple{subject, pred, IRIObject("http://example.org/o")}))
	assert.True(t, g.Add(Triple{subject, pred, LiteralObject("http://example.org/o")}))
	assert.Equal(t, 2, g.Len())
}

func TestGraphDistinguishesLanguageTags(t *testing.T) {
	g := NewGraph()
	subject := IRI("http://example.org/s")

	assert.True(t, g.Add(Triple{subject, SKOSPrefLabel, LangLiteral("label", "en")}))
	assert.True(t, g.Add(Triple{subject, SKOSPrefLabel, LiteralObject("label")}))
	assert.Equal(t, 2, g.Len())
}

func TestGraphInsertionOrder(t *testing.T) {
	g := NewGraph()
	s := IRI("http://example.org/s")
	g.Add(Triple{s, IRI("http://example.org/b"), LiteralObject("2")})
	g.Add(Triple{s, IRI("http://example.org/a"), LiteralObject("1")})

	triples := g.Triples()
	assert.Equal(t, IRI("http://example.org/b"), triples[0].Predicate)
	assert.Equal(t, IRI("http://example.org/a"), triples[1].Predicate)
}

func TestOutgoing(t *testing.T) {
	g := NewGraph()
	s1 := IRI("http://example.org/s1")
	s2 := IRI("http://example.org/s2")
	g.Add(Triple{s1, RDFType, IRIObject(FDARecallEvent)})
	g.Add(Triple{s2, RDFType, IRIObject(FDARecallEvent)})
	g.Add(Triple{s1, FDAStatus, LiteralObject("Ongoing")})

	out := g.Outgoing(s1)
	assert.Len(t, out, 2)
	for _, tr := range out {
		assert.Equal(t, s1, tr.Subject)
	}
}

func TestIRILocalName(t *testing.T) {
	tests := []struct {
		iri      IRI
		expected string
	}{
		{IRI("http://example.org/fda/quality/failure-type/cgmp-violation"), "cgmp-violation"},
		{SKOSConcept, "Concept"},
		{IRI("plain"), "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.iri.LocalName())
	}
}
