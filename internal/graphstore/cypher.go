package graphstore

import (
	"fmt"
	"strings"

	"github.com/recallgraph/recallgraph/internal/rdf"
)

// escapeCypherString escapes a string for inlining into a single-quoted
// Cypher literal.
func escapeCypherString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// mergeTripleQuery builds the MERGE statement for one triple. MERGE on
// every clause keeps repeated persistence runs idempotent: literal nodes
// are shared by (value, lang) and resource nodes by id.
func mergeTripleQuery(t rdf.Triple) string {
	subject := escapeCypherString(string(t.Subject))
	predicate := escapeCypherString(string(t.Predicate))

	if t.Object.IsIRI {
		return fmt.Sprintf(
			"MERGE (s:Resource {id: '%s'}) MERGE (o:Resource {id: '%s'}) MERGE (s)-[:REL {iri: '%s'}]->(o)",
			subject,
			escapeCypherString(string(t.Object.IRI)),
			predicate,
		)
	}

	return fmt.Sprintf(
		"MERGE (s:Resource {id: '%s'}) MERGE (o:Literal {value: '%s', lang: '%s'}) MERGE (s)-[:REL {iri: '%s'}]->(o)",
		subject,
		escapeCypherString(t.Object.Literal),
		escapeCypherString(t.Object.Lang),
		predicate,
	)
}

// matchPatternQuery builds the retrieval query for a triple pattern. Empty
// fields are wildcards. Results are ordered for stable output.
func matchPatternQuery(p TriplePattern) string {
	var conditions []string
	if p.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("s.id = '%s'", escapeCypherString(p.Subject)))
	}
	if p.Predicate != "" {
		conditions = append(conditions, fmt.Sprintf("r.iri = '%s'", escapeCypherString(p.Predicate)))
	}
	if p.Object != "" {
		obj := escapeCypherString(p.Object)
		conditions = append(conditions, fmt.Sprintf("(o.id = '%s' OR o.value = '%s')", obj, obj))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	return "MATCH (s:Resource)-[r:REL]->(o)" + where +
		" RETURN s.id AS subject, r.iri AS predicate, labels(o)[0] AS kind," +
		" CASE WHEN 'Resource' IN labels(o) THEN o.id ELSE o.value END AS object," +
		" CASE WHEN 'Literal' IN labels(o) THEN o.lang ELSE '' END AS lang" +
		" ORDER BY subject, predicate, object"
}

// neighborsQuery returns every outgoing relationship of one subject node.
func neighborsQuery(subjectIRI string) string {
	return fmt.Sprintf(
		"MATCH (s:Resource {id: '%s'})-[r:REL]->(o)"+
			" RETURN r.iri AS predicate, labels(o)[0] AS kind,"+
			" CASE WHEN 'Resource' IN labels(o) THEN o.id ELSE o.value END AS object"+
			" ORDER BY predicate, object",
		escapeCypherString(subjectIRI),
	)
}

// labelLookupQuery resolves a display label for a resource, preferring
// skos:prefLabel and falling back to rdfs:label.
func labelLookupQuery(resourceIRI string) string {
	return fmt.Sprintf(
		"MATCH (o:Resource {id: '%s'})-[r:REL]->(l:Literal)"+
			" WHERE r.iri IN ['%s', '%s']"+
			" RETURN l.value ORDER BY r.iri DESC LIMIT 1",
		escapeCypherString(resourceIRI),
		escapeCypherString(string(rdf.SKOSPrefLabel)),
		escapeCypherString(string(rdf.RDFSLabel)),
	)
}

// typeLookupQuery resolves the rdf:type of a resource node.
func typeLookupQuery(resourceIRI string) string {
	return fmt.Sprintf(
		"MATCH (o:Resource {id: '%s'})-[r:REL {iri: '%s'}]->(t:Resource)"+
			" RETURN t.id LIMIT 1",
		escapeCypherString(resourceIRI),
		escapeCypherString(string(rdf.RDFType)),
	)
}
