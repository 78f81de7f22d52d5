package rdf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallgraph/recallgraph/internal/taxonomy"
)

func TestWriteTurtlePrefixesAndGrouping(t *testing.T) {
	g := NewGraph()
	s := IRI(NSFDA + "domain/manufacturing")
	g.Add(Triple{s, RDFType, IRIObject(SKOSConcept)})
	g.Add(Triple{s, SKOSPrefLabel, LangLiteral("Manufacturing", "en")})

	var buf bytes.Buffer
	require.NoError(t, WriteTurtle(&buf, g))
	out := buf.String()

	assert.Contains(t, out, "@prefix skos: <"+NSSKOS+"> .")
	assert.Contains(t, out, "@prefix fda: <"+NSFDA+"> .")
	// Local names with slashes fall back to full IRI form.
	assert.Contains(t, out, "<"+NSFDA+"domain/manufacturing>")
	assert.Contains(t, out, `"Manufacturing"@en`)
	// Predicates of one subject share a block: one ';' then a final '.'.
	assert.Contains(t, out, "rdf:type skos:Concept ;")
	assert.Contains(t, out, `skos:prefLabel "Manufacturing"@en .`)
}

func TestWriteTurtleEscapesLiterals(t *testing.T) {
	g := NewGraph()
	s := IRI(NSResource + "event/1")
	g.Add(Triple{s, FDAReasonForRecall, LangLiteral("line1\nsaid \"broken\" \\ end", "en")})

	var buf bytes.Buffer
	require.NoError(t, WriteTurtle(&buf, g))

	assert.Contains(t, buf.String(), `"line1\nsaid \"broken\" \\ end"@en`)
}

func TestWriteTurtleMultipleObjectsJoined(t *testing.T) {
	g := NewGraph()
	s := IRI(NSFDA + "failure-type/subpotent")
	g.Add(Triple{s, SKOSExample, LangLiteral("assay at 80%", "en")})
	g.Add(Triple{s, SKOSExample, LangLiteral("assay at 70%", "en")})

	var buf bytes.Buffer
	require.NoError(t, WriteTurtle(&buf, g))

	assert.Contains(t, buf.String(), `"assay at 80%"@en, "assay at 70%"@en .`)
}

// Serializing an identical assembly twice must produce identical bytes.
func TestWriteTurtleDeterministic(t *testing.T) {
	store := taxonomy.NewStore()
	store.InitializeObservedCategories()
	store.RecordOccurrence("Subpotent", "assay below spec")

	var buf1, buf2 bytes.Buffer
	require.NoError(t, WriteTurtle(&buf1, NewAssembler().Assemble(store, nil)))
	require.NoError(t, WriteTurtle(&buf2, NewAssembler().Assemble(store, nil)))

	assert.Equal(t, buf1.String(), buf2.String())
}

func TestWriteTurtleFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "taxonomy.ttl")

	g1 := NewGraph()
	g1.Add(Triple{SchemeIRI, RDFType, IRIObject(SKOSConceptScheme)})
	g1.Add(Triple{SchemeIRI, SKOSPrefLabel, LangLiteral("First Run", "en")})
	require.NoError(t, WriteTurtleFile(path, g1))

	g2 := NewGraph()
	g2.Add(Triple{SchemeIRI, RDFType, IRIObject(SKOSConceptScheme)})
	require.NoError(t, WriteTurtleFile(path, g2))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "First Run"), "prior run content must be gone")
}
