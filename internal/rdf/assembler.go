package rdf

import (
	"fmt"

	"github.com/recallgraph/recallgraph/internal/logging"
	"github.com/recallgraph/recallgraph/internal/models"
	"github.com/recallgraph/recallgraph/internal/taxonomy"
)

// Assembler walks the hierarchy store and the event batch and emits the
// relationship set. The taxonomy pass and event pass are independent: they
// share only the category concept identifier, taxonomy triples never
// reference event nodes, and the event pass never mutates taxonomy nodes.
// Assembly is deterministic and idempotent: the same inputs produce an
// identical triple sequence.
type Assembler struct {
	logger *logging.Logger

	// slugSeen tracks slug -> label to surface collisions between distinct
	// labels. Collisions are reported, not repaired: the first label keeps
	// the identifier and the later one silently shares it.
	slugSeen map[string]string
}

// NewAssembler returns an assembler with a fresh collision tracker.
func NewAssembler() *Assembler {
	return &Assembler{
		logger:   logging.GetLogger("rdf.assembler"),
		slugSeen: make(map[string]string),
	}
}

// Assemble runs the taxonomy pass over the store and the event pass over
// the batch, returning the combined graph.
func (a *Assembler) Assemble(store *taxonomy.Store, events []models.Event) *Graph {
	g := NewGraph()
	a.AssembleTaxonomy(g, store)
	a.AssembleEvents(g, events, store)
	a.logger.InfoWithFields("assembly complete",
		logging.Field("triples", g.Len()),
	)
	return g
}

// AssembleTaxonomy emits the scheme node, domain concepts, category
// concepts with provenance/frequency/example annotations, and term
// concepts, all linked by broader/narrower pairs.
func (a *Assembler) AssembleTaxonomy(g *Graph, store *taxonomy.Store) {
	g.Add(Triple{SchemeIRI, RDFType, IRIObject(SKOSConceptScheme)})
	g.Add(Triple{SchemeIRI, SKOSPrefLabel, LangLiteral("FDA Failure Types", "en")})
	g.Add(Triple{SchemeIRI, SKOSDefinition, LangLiteral("Hierarchical vocabulary with dynamic extensions.", "en")})

	for _, domain := range store.Domains() {
		domainIRI := DomainIRI(a.slug(domain.Name))
		g.Add(Triple{domainIRI, RDFType, IRIObject(SKOSConcept)})
		g.Add(Triple{domainIRI, SKOSPrefLabel, LangLiteral(domain.Name, "en")})
		g.Add(Triple{domainIRI, SKOSDefinition, LangLiteral(domain.Definition, "en")})
		g.Add(Triple{domainIRI, SKOSInScheme, IRIObject(SchemeIRI)})
		g.Add(Triple{domainIRI, SKOSTopConceptOf, IRIObject(SchemeIRI)})
		g.Add(Triple{SchemeIRI, SKOSHasTopConcept, IRIObject(domainIRI)})
	}

	for _, cat := range store.Categories() {
		catIRI := FailureTypeIRI(a.slug(cat.Name))
		parentIRI := DomainIRI(a.slug(cat.Parent))

		g.Add(Triple{catIRI, RDFType, IRIObject(SKOSConcept)})
		g.Add(Triple{catIRI, SKOSPrefLabel, LangLiteral(cat.Name, "en")})
		g.Add(Triple{catIRI, SKOSInScheme, IRIObject(SchemeIRI)})
		g.Add(Triple{catIRI, SKOSBroader, IRIObject(parentIRI)})
		g.Add(Triple{parentIRI, SKOSNarrower, IRIObject(catIRI)})
		g.Add(Triple{catIRI, SKOSNote, LangLiteral(fmt.Sprintf("Provenance: %s", cat.Provenance), "en")})

		if cat.Count > 0 {
			g.Add(Triple{catIRI, SKOSNote, LangLiteral(fmt.Sprintf("Frequency: %d records", cat.Count), "en")})
		}
		for _, ex := range cat.Examples {
			g.Add(Triple{catIRI, SKOSExample, LangLiteral(ex, "en")})
		}
	}

	for _, term := range store.Terms() {
		termIRI := FailureTypeIRI(a.slug(term.Name))
		parentIRI := FailureTypeIRI(a.slug(term.ParentCategory))

		g.Add(Triple{termIRI, RDFType, IRIObject(SKOSConcept)})
		g.Add(Triple{termIRI, SKOSPrefLabel, LangLiteral(term.Name, "en")})
		g.Add(Triple{termIRI, SKOSInScheme, IRIObject(SchemeIRI)})
		g.Add(Triple{termIRI, SKOSBroader, IRIObject(parentIRI)})
		g.Add(Triple{parentIRI, SKOSNarrower, IRIObject(termIRI)})

		if term.Definition != "" {
			g.Add(Triple{termIRI, SKOSDefinition, LangLiteral(term.Definition, "en")})
		}
		for _, ex := range term.Examples {
			g.Add(Triple{termIRI, SKOSExample, LangLiteral(ex, "en")})
		}
	}
}

// AssembleEvents emits a typed node per event plus literal-valued edges for
// its descriptive fields, and a hasFailureType edge when the derived
// category exists in the store. Events without an identifier are skipped.
func (a *Assembler) AssembleEvents(g *Graph, events []models.Event, store *taxonomy.Store) {
	skipped := 0
	for _, ev := range events {
		if ev.EventID == "" {
			skipped++
			continue
		}

		eventIRI := EventIRI(ev.EventID)
		g.Add(Triple{eventIRI, RDFType, IRIObject(FDARecallEvent)})

		addLiteral(g, eventIRI, FDARecallNumber, ev.RecallNumber, "")
		addLiteral(g, eventIRI, FDARecallingFirm, ev.RecallingFirm, "")
		addLiteral(g, eventIRI, FDAReasonForRecall, ev.Reason, "en")
		addLiteral(g, eventIRI, FDAProductDescription, ev.ProductDescription, "en")
		addLiteral(g, eventIRI, FDAStatus, ev.Status, "")
		addLiteral(g, eventIRI, FDAClassification, ev.Classification, "")
		addLiteral(g, eventIRI, DCTermsDate, models.NormalizeReportDate(ev.ReportDate), "")
		addLiteral(g, eventIRI, FDACountry, ev.Country, "")
		addLiteral(g, eventIRI, FDAState, ev.State, "")
		addLiteral(g, eventIRI, FDACity, ev.City, "")

		if ev.FailureType != "" && store.HasCategory(ev.FailureType) {
			catIRI := FailureTypeIRI(a.slug(ev.FailureType))
			g.Add(Triple{eventIRI, FDAHasFailureType, IRIObject(catIRI)})
		}
	}

	if skipped > 0 {
		a.logger.Warn("skipped %d records without event_id", skipped)
	}
}

func addLiteral(g *Graph, subject, predicate IRI, value, lang string) {
	if value == "" {
		return
	}
	if lang != "" {
		g.Add(Triple{subject, predicate, LangLiteral(value, lang)})
		return
	}
	g.Add(Triple{subject, predicate, LiteralObject(value)})
}

// slug wraps taxonomy.Slug with collision detection: distinct labels that
// fold to the same slug are reported once so the ambiguity is visible.
func (a *Assembler) slug(label string) string {
	s := taxonomy.Slug(label)
	if prior, ok := a.slugSeen[s]; ok {
		if prior != label {
			a.logger.Warn("identifier collision: %q and %q both slug to %q, first label keeps it", prior, label, s)
		}
		return s
	}
	a.slugSeen[s] = label
	return s
}
