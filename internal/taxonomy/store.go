package taxonomy

import (
	"github.com/recallgraph/recallgraph/internal/logging"
)

// Provenance records whether a category originated from observed-data
// aggregation or from a hand-authored extension.
type Provenance string

const (
	// ProvenanceObserved marks categories derived from live enforcement data.
	ProvenanceObserved Provenance = "observed"
	// ProvenanceExtension marks categories introduced by an extension file.
	ProvenanceExtension Provenance = "extension"
)

// MaxExamples bounds the example list retained per category.
const MaxExamples = 3

// Domain is a Level-1 subject area.
type Domain struct {
	Name       string
	Definition string
	Children   []string
}

// Category is a Level-2 classification bucket.
type Category struct {
	Name       string
	Count      int
	Examples   []string
	Parent     string
	Provenance Provenance
}

// Term is a Level-3 failure mode, supplied only through extensions.
type Term struct {
	Name           string
	ParentCategory string
	Definition     string
	Examples       []string
}

// Store is the in-memory three-level hierarchy. It is built once per
// pipeline run by a single goroutine and treated as immutable afterwards;
// iteration order over domains and categories is insertion order.
type Store struct {
	domains     map[string]*Domain
	domainOrder []string

	categories    map[string]*Category
	categoryOrder []string

	terms []Term

	logger *logging.Logger
}

// NewStore returns a store seeded with the static Level-1 domains.
func NewStore() *Store {
	s := &Store{
		domains:    make(map[string]*Domain),
		categories: make(map[string]*Category),
		logger:     logging.GetLogger("taxonomy.store"),
	}
	for _, d := range seedDomains() {
		s.domains[d.Name] = d
		s.domainOrder = append(s.domainOrder, d.Name)
	}
	return s
}

// seedDomains defines the static Level-1 domains and their category sets.
func seedDomains() []*Domain {
	return []*Domain{
		{
			Name:       "Manufacturing",
			Definition: "Failures related to production, facilities, and equipment.",
			Children:   []string{"CGMP Violation", "Batch Record Issue", "Particulate Matter", "Impurity/Contamination", "Sterility Issue"},
		},
		{
			Name:       "Quality Control",
			Definition: "Failures related to testing, specifications, and stability.",
			Children:   []string{"Specification Failure", "Stability Failure", "Subpotent", "Superpotent", "Dissolution Failure"},
		},
		{
			Name:       "Packaging & Labeling",
			Definition: "Failures related to product identification, packaging integrity, and labeling.",
			Children:   []string{"Labeling Error", "Packaging Defect", "Expiration Date Issue", "Carton/Insert Error"},
		},
		{
			Name:       "Device Malfunction",
			Definition: "Failures related to mechanical, software, or electrical device components.",
			Children:   []string{"Software Algorithm Error", "Component Failure", "Battery Failure", "Sensor Issue"},
		},
	}
}

// InitializeObservedCategories inserts a zero-count category record for
// every (domain, child) pair so that categories with no observed
// occurrences still appear in the output with provenance "observed".
// Idempotent.
func (s *Store) InitializeObservedCategories() {
	for _, name := range s.domainOrder {
		domain := s.domains[name]
		for _, child := range domain.Children {
			s.ensureCategory(child, domain.Name, ProvenanceObserved)
		}
	}
}

// ensureCategory returns the named category, creating it when absent. The
// second return reports whether the call created it.
func (s *Store) ensureCategory(name, parent string, provenance Provenance) (*Category, bool) {
	if cat, ok := s.categories[name]; ok {
		return cat, false
	}
	cat := &Category{
		Name:       name,
		Parent:     parent,
		Provenance: provenance,
	}
	s.categories[name] = cat
	s.categoryOrder = append(s.categoryOrder, name)
	return cat, true
}

// RecordOccurrence increments a category's count and retains the example
// while fewer than MaxExamples are held. Returns false when the category is
// not registered; the caller decides whether that is an error. The fallback
// bucket is intentionally unregistered, so fallback classifications report
// false here and stay out of the tree.
func (s *Store) RecordOccurrence(categoryName, example string) bool {
	cat, ok := s.categories[categoryName]
	if !ok {
		return false
	}
	cat.Count++
	if len(cat.Examples) < MaxExamples {
		cat.Examples = append(cat.Examples, example)
	}
	return true
}

// EnsureDomain creates a domain with a placeholder definition if absent.
// Idempotent; returns the domain either way.
func (s *Store) EnsureDomain(name string) *Domain {
	if d, ok := s.domains[name]; ok {
		return d
	}
	d := &Domain{
		Name:       name,
		Definition: "User defined domain",
	}
	s.domains[name] = d
	s.domainOrder = append(s.domainOrder, name)
	s.logger.Info("created extension domain %q", name)
	return d
}

// AttachCategory creates the category under the given domain if absent and
// records the parent link in the domain's children list. An existing
// category keeps its provenance and its parent: extensions augment, they
// never demote an observed category or reparent one to a second domain.
// Idempotent.
func (s *Store) AttachCategory(categoryName, domainName string, provenance Provenance) {
	domain := s.EnsureDomain(domainName)
	cat, created := s.ensureCategory(categoryName, domainName, provenance)
	if !created && cat.Parent != domainName {
		s.logger.Warn("category %q already belongs to %q, not attaching under %q",
			categoryName, cat.Parent, domainName)
		return
	}

	for _, child := range domain.Children {
		if child == categoryName {
			return
		}
	}
	domain.Children = append(domain.Children, categoryName)
}

// AppendTerm appends a Level-3 record under an existing category. Terms are
// not deduplicated by name: merging the same extension twice yields two
// term records, and idempotence of repeated merges is the caller's
// responsibility.
func (s *Store) AppendTerm(name, parentCategory, definition string, examples []string) {
	s.terms = append(s.terms, Term{
		Name:           name,
		ParentCategory: parentCategory,
		Definition:     definition,
		Examples:       examples,
	})
}

// Domain returns the named domain, or nil.
func (s *Store) Domain(name string) *Domain {
	return s.domains[name]
}

// Category returns the named category, or nil.
func (s *Store) Category(name string) *Category {
	return s.categories[name]
}

// HasCategory reports whether a category is registered.
func (s *Store) HasCategory(name string) bool {
	_, ok := s.categories[name]
	return ok
}

// Domains returns all domains in insertion order.
func (s *Store) Domains() []*Domain {
	out := make([]*Domain, 0, len(s.domainOrder))
	for _, name := range s.domainOrder {
		out = append(out, s.domains[name])
	}
	return out
}

// Categories returns all categories in insertion order.
func (s *Store) Categories() []*Category {
	out := make([]*Category, 0, len(s.categoryOrder))
	for _, name := range s.categoryOrder {
		out = append(out, s.categories[name])
	}
	return out
}

// Terms returns all terms in append order.
func (s *Store) Terms() []Term {
	return s.terms
}
