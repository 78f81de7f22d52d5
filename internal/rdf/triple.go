// Package rdf holds the relationship-set model: triples, the append-only
// graph they live in, the concept-scheme vocabulary, and the assembler
// that walks the taxonomy store and event batch to produce them.
package rdf

import (
	"fmt"
	"strings"
)

// IRI is a resource identifier.
type IRI string

// LocalName returns the fragment after the last '/' or '#', used as a
// display fallback when no label triple exists.
func (i IRI) LocalName() string {
	s := string(i)
	if idx := strings.LastIndexAny(s, "/#"); idx >= 0 && idx < len(s)-1 {
		return s[idx+1:]
	}
	return s
}

// Object is the object position of a triple: either an IRI or a literal
// with an optional language tag.
type Object struct {
	IRI     IRI
	Literal string
	Lang    string
	IsIRI   bool
}

// IRIObject wraps an IRI as a triple object.
func IRIObject(iri IRI) Object {
	return Object{IRI: iri, IsIRI: true}
}

// LiteralObject wraps a plain literal as a triple object.
func LiteralObject(value string) Object {
	return Object{Literal: value}
}

// LangLiteral wraps a language-tagged literal as a triple object.
func LangLiteral(value, lang string) Object {
	return Object{Literal: value, Lang: lang}
}

// Triple is one (subject, predicate, object) relationship.
type Triple struct {
	Subject   IRI
	Predicate IRI
	Object    Object
}

func (t Triple) key() string {
	if t.Object.IsIRI {
		return fmt.Sprintf("%s|%s|i|%s", t.Subject, t.Predicate, t.Object.IRI)
	}
	return fmt.Sprintf("%s|%s|l|%s|%s", t.Subject, t.Predicate, t.Object.Literal, t.Object.Lang)
}

// Graph is an append-only triple set with set semantics: adding a triple
// that is already present is a no-op, nothing is ever removed, and
// iteration order is insertion order. Regenerating a graph from unchanged
// inputs therefore yields an identical triple sequence.
type Graph struct {
	triples []Triple
	seen    map[string]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{seen: make(map[string]struct{})}
}

// Add appends a triple if it is not already present. Reports whether the
// triple was new.
func (g *Graph) Add(t Triple) bool {
	k := t.key()
	if _, ok := g.seen[k]; ok {
		return false
	}
	g.seen[k] = struct{}{}
	g.triples = append(g.triples, t)
	return true
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the triples in insertion order. Callers must not mutate
// the returned slice.
func (g *Graph) Triples() []Triple {
	return g.triples
}

// Has reports whether the exact triple is present.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.seen[t.key()]
	return ok
}

// Outgoing returns every triple whose subject matches, in insertion order.
func (g *Graph) Outgoing(subject IRI) []Triple {
	var out []Triple
	for _, t := range g.triples {
		if t.Subject == subject {
			out = append(out, t)
		}
	}
	return out
}
