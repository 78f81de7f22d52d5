package graphstore

import (
	"context"
	"fmt"

	"github.com/recallgraph/recallgraph/internal/logging"
	"github.com/recallgraph/recallgraph/internal/rdf"
)

// Neighbors returns the one-hop outgoing relationship set of an event
// node. Resource objects are annotated with a display label (prefLabel,
// then rdfs:label, then the IRI fragment) and the local name of their
// rdf:type. Literal objects carry their value as both object and label.
func (c *falkorClient) Neighbors(ctx context.Context, eventID string) ([]Neighbor, error) {
	if c.graph == nil {
		return nil, fmt.Errorf("client not connected")
	}

	subject := string(rdf.EventIRI(eventID))
	result, err := c.graph.Query(neighborsQuery(subject), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("neighbors query failed for %s: %w", eventID, err)
	}

	var out []Neighbor
	for result.Next() {
		values := result.Record().Values()
		if len(values) < 3 {
			continue
		}
		predicate, _ := values[0].(string)
		kind, _ := values[1].(string)
		object, _ := values[2].(string)

		n := Neighbor{Predicate: predicate, Object: object}
		if kind == "Resource" {
			n.Label = c.resolveLabel(object)
			n.Type = c.resolveType(object)
		} else {
			n.Label = object
			n.Type = "Literal"
		}
		out = append(out, n)
	}

	c.logger.DebugWithFields("neighborhood resolved",
		logging.Field("event_id", eventID),
		logging.Field("neighbors", len(out)),
	)
	return out, nil
}

// resolveLabel finds a display label for a resource node, falling back
// to the IRI fragment when no label triple is stored.
func (c *falkorClient) resolveLabel(iri string) string {
	if label, ok := c.labels.getLabel(iri); ok {
		return label
	}

	label := rdf.IRI(iri).LocalName()
	result, err := c.graph.Query(labelLookupQuery(iri), nil, nil)
	if err == nil && result.Next() {
		if v, ok := result.Record().Values()[0].(string); ok && v != "" {
			label = v
		}
	}

	c.labels.putLabel(iri, label)
	return label
}

// resolveType finds the local name of a resource node's rdf:type.
func (c *falkorClient) resolveType(iri string) string {
	if typeName, ok := c.labels.getType(iri); ok {
		return typeName
	}

	typeName := "Resource"
	result, err := c.graph.Query(typeLookupQuery(iri), nil, nil)
	if err == nil && result.Next() {
		if v, ok := result.Record().Values()[0].(string); ok && v != "" {
			typeName = rdf.IRI(v).LocalName()
		}
	}

	c.labels.putType(iri, typeName)
	return typeName
}
