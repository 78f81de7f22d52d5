package rdf

// Namespaces. FDA holds the quality vocabulary, Resource holds event and
// entity instances.
const (
	NSFDA      = "http://example.org/fda/quality/"
	NSResource = "http://example.org/resource/"
	NSSKOS     = "http://www.w3.org/2004/02/skos/core#"
	NSRDF      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRDFS     = "http://www.w3.org/2000/01/rdf-schema#"
	NSDCTerms  = "http://purl.org/dc/terms/"
)

// RDF / RDFS core.
const (
	RDFType   IRI = NSRDF + "type"
	RDFSLabel IRI = NSRDFS + "label"
)

// SKOS concept-scheme vocabulary.
const (
	SKOSConcept       IRI = NSSKOS + "Concept"
	SKOSConceptScheme IRI = NSSKOS + "ConceptScheme"
	SKOSPrefLabel     IRI = NSSKOS + "prefLabel"
	SKOSDefinition    IRI = NSSKOS + "definition"
	SKOSInScheme      IRI = NSSKOS + "inScheme"
	SKOSTopConceptOf  IRI = NSSKOS + "topConceptOf"
	SKOSHasTopConcept IRI = NSSKOS + "hasTopConcept"
	SKOSBroader       IRI = NSSKOS + "broader"
	SKOSNarrower      IRI = NSSKOS + "narrower"
	SKOSNote          IRI = NSSKOS + "note"
	SKOSExample       IRI = NSSKOS + "example"
)

// Dublin Core terms.
const (
	DCTermsDate IRI = NSDCTerms + "date"
)

// FDA quality vocabulary: the event class and its descriptive predicates.
const (
	FDARecallEvent        IRI = NSFDA + "RecallEvent"
	FDAEntity             IRI = NSFDA + "Entity"
	FDARecallNumber       IRI = NSFDA + "recallNumber"
	FDARecallingFirm      IRI = NSFDA + "recallingFirm"
	FDAReasonForRecall    IRI = NSFDA + "reasonForRecall"
	FDAProductDescription IRI = NSFDA + "productDescription"
	FDAStatus             IRI = NSFDA + "status"
	FDAClassification     IRI = NSFDA + "classification"
	FDACountry            IRI = NSFDA + "country"
	FDAState              IRI = NSFDA + "state"
	FDACity               IRI = NSFDA + "city"
	FDAHasFailureType     IRI = NSFDA + "hasFailureType"
	FDAMentionsEntity     IRI = NSFDA + "mentionsEntity"
	FDAEntityType         IRI = NSFDA + "entityType"
)

// SchemeIRI is the root container node for the failure-type taxonomy.
const SchemeIRI IRI = NSFDA + "scheme/failure-types"

// DomainIRI returns the concept IRI for a Level-1 domain slug.
func DomainIRI(slug string) IRI {
	return IRI(NSFDA + "domain/" + slug)
}

// FailureTypeIRI returns the concept IRI for a category or term slug.
func FailureTypeIRI(slug string) IRI {
	return IRI(NSFDA + "failure-type/" + slug)
}

// EventIRI returns the instance IRI for an event identifier.
func EventIRI(eventID string) IRI {
	return IRI(NSResource + "event/" + eventID)
}

// EntityIRI returns the instance IRI for an extracted entity slug.
func EntityIRI(slug string) IRI {
	return IRI(NSResource + "entity/" + slug)
}
