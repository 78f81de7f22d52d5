package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recallgraph/recallgraph/internal/models"
)

func TestEnrichAddsMentions(t *testing.T) {
	recognizer := func(text string) []Entity {
		return []Entity{{Text: "Acme Pharma", Label: "ORG"}}
	}

	g := NewGraph()
	events := []models.Event{
		{EventID: "1", ProductDescription: "Tablets by Acme Pharma", Reason: "cgmp"},
	}

	added := NewEnricher(recognizer).Enrich(g, events)
	assert.Equal(t, 1, added)

	entityIRI := EntityIRI("acme-pharma")
	assert.True(t, g.Has(Triple{EventIRI("1"), FDAMentionsEntity, IRIObject(entityIRI)}))
	assert.True(t, g.Has(Triple{entityIRI, RDFType, IRIObject(FDAEntity)}))
	assert.True(t, g.Has(Triple{entityIRI, SKOSPrefLabel, LiteralObject("Acme Pharma")}))
	assert.True(t, g.Has(Triple{entityIRI, FDAEntityType, LiteralObject("ORG")}))
}

func TestEnrichSkipsEventsWithoutIDOrText(t *testing.T) {
	calls := 0
	recognizer := func(text string) []Entity {
		calls++
		return nil
	}

	g := NewGraph()
	NewEnricher(recognizer).Enrich(g, []models.Event{
		{EventID: "", ProductDescription: "something"},
		{EventID: "2", ProductDescription: "", Reason: ""},
	})

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, g.Len())
}

func TestEnrichFiltersFalsePositives(t *testing.T) {
	recognizer := func(text string) []Entity {
		return []Entity{
			{Text: "Failed Dissolution Specifications", Label: "ORG"},
			{Text: "Impurities Detected In Batch", Label: "ORG"},
			{Text: "this surface form is far too long to be a plausible organization name", Label: "ORG"},
			{Text: "New Jersey", Label: "GPE"},
		}
	}

	g := NewGraph()
	added := NewEnricher(recognizer).Enrich(g, []models.Event{
		{EventID: "1", Reason: "anything"},
	})

	assert.Equal(t, 1, added)
	assert.True(t, g.Has(Triple{EventIRI("1"), FDAMentionsEntity, IRIObject(EntityIRI("new-jersey"))}))
}

func TestEnrichNilRecognizerDisabled(t *testing.T) {
	g := NewGraph()
	added := NewEnricher(nil).Enrich(g, []models.Event{{EventID: "1", Reason: "text"}})
	assert.Equal(t, 0, added)
	assert.Equal(t, 0, g.Len())
}

func TestRecordGazetteer(t *testing.T) {
	events := []models.Event{
		{EventID: "1", RecallingFirm: "Acme Pharma", City: "Trenton", State: "NJ", Country: "United States"},
	}
	recognize := NewRecordGazetteer(events)

	ents := recognize("Recall initiated by ACME PHARMA at the Trenton facility")
	labels := make(map[string]string)
	for _, e := range ents {
		labels[e.Text] = e.Label
	}
	assert.Equal(t, "ORG", labels["Acme Pharma"])
	assert.Equal(t, "GPE", labels["Trenton"])
	// Two-letter state codes are below the minimum phrase length.
	assert.NotContains(t, labels, "NJ")

	assert.Empty(t, recognize("nothing recognizable here"))
}
