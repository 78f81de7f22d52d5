package rdf

import (
	"strings"

	"github.com/recallgraph/recallgraph/internal/logging"
	"github.com/recallgraph/recallgraph/internal/models"
	"github.com/recallgraph/recallgraph/internal/taxonomy"
)

// Entity is one surface form recognized in free text, with its type label
// (for example "ORG" or "GPE").
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer is the black-box recognizer boundary: free text in,
// recognized entities out. The enricher has no opinion on how recognition
// happens.
type EntityRecognizer func(text string) []Entity

// Enricher adds mentionsEntity links between event nodes and recognized
// entity nodes. It is optional: a nil recognizer disables enrichment.
type Enricher struct {
	recognize EntityRecognizer
	logger    *logging.Logger
}

// NewEnricher returns an enricher over the given recognizer.
func NewEnricher(recognize EntityRecognizer) *Enricher {
	return &Enricher{
		recognize: recognize,
		logger:    logging.GetLogger("rdf.enrich"),
	}
}

// Enrich scans each event's product description and reason, links the
// event node to every recognized entity, and defines the entity nodes.
// Returns the number of mention links added.
func (e *Enricher) Enrich(g *Graph, events []models.Event) int {
	if e.recognize == nil {
		return 0
	}

	added := 0
	for _, ev := range events {
		text := strings.TrimSpace(ev.ProductDescription + " " + ev.Reason)
		if ev.EventID == "" || text == "" {
			continue
		}

		eventIRI := EventIRI(ev.EventID)
		for _, ent := range e.recognize(text) {
			if skipEntity(ent) {
				continue
			}

			slug := taxonomy.Slug(ent.Text)
			if slug == "" {
				continue
			}
			entityIRI := EntityIRI(slug)

			if g.Add(Triple{eventIRI, FDAMentionsEntity, IRIObject(entityIRI)}) {
				added++
			}
			g.Add(Triple{entityIRI, RDFType, IRIObject(FDAEntity)})
			g.Add(Triple{entityIRI, RDFType, IRIObject(SKOSConcept)})
			g.Add(Triple{entityIRI, RDFSLabel, LiteralObject(ent.Text)})
			g.Add(Triple{entityIRI, SKOSPrefLabel, LiteralObject(ent.Text)})
			g.Add(Triple{entityIRI, FDAEntityType, LiteralObject(ent.Label)})
		}
	}

	e.logger.Info("added %d entity mentions", added)
	return added
}

// skipEntity filters the recognizer's known false-positive shapes: overly
// long spans and reason fragments misread as organizations.
func skipEntity(ent Entity) bool {
	text := strings.TrimSpace(ent.Text)
	if text == "" || len(text) > 50 {
		return true
	}
	if ent.Label == "ORG" && (strings.HasPrefix(text, "Failed ") || strings.Contains(text, "Impurities")) {
		return true
	}
	return false
}

// NewRecordGazetteer builds a recognizer from the batch itself: recalling
// firm names become ORG surface forms and location fields become GPE
// surface forms. Matching is case-insensitive substring search.
func NewRecordGazetteer(events []models.Event) EntityRecognizer {
	type entry struct {
		lower string
		ent   Entity
	}

	var entries []entry
	seen := make(map[string]struct{})
	add := func(text, label string) {
		text = strings.TrimSpace(text)
		if len(text) < 3 {
			return
		}
		key := strings.ToLower(text) + "|" + label
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		entries = append(entries, entry{lower: strings.ToLower(text), ent: Entity{Text: text, Label: label}})
	}

	for _, ev := range events {
		add(ev.RecallingFirm, "ORG")
		add(ev.City, "GPE")
		add(ev.State, "GPE")
		add(ev.Country, "GPE")
	}

	return func(text string) []Entity {
		lower := strings.ToLower(text)
		var out []Entity
		for _, e := range entries {
			if strings.Contains(lower, e.lower) {
				out = append(out, e.ent)
			}
		}
		return out
	}
}
