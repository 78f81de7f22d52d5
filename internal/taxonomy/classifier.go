package taxonomy

import "strings"

// FallbackCategory is returned when no keyword matches a reason. Events in
// this bucket are not tracked in the hierarchy unless a caller registers it
// explicitly.
const FallbackCategory = "Other Quality Issue"

// keywordRule binds a lowercase keyword to the category it selects.
type keywordRule struct {
	keyword  string
	category string
}

// keywordTable is scanned in order and the first matching keyword wins.
// The order is a behavioral contract: overlapping keywords (for example
// "particulate" vs "glass", or "contamination" vs "sterile") are
// disambiguated purely by position in this table, not by specificity.
var keywordTable = []keywordRule{
	{"impurity", "Impurity/Contamination"},
	{"contamination", "Impurity/Contamination"},
	{"sterile", "Sterility Issue"},
	{"sterility", "Sterility Issue"},
	{"microbial", "Sterility Issue"},
	{"cgmp", "CGMP Violation"},
	{"gmp", "CGMP Violation"},
	{"batch", "Batch Record Issue"},
	{"specification", "Specification Failure"},
	{"failed results", "Specification Failure"},
	{"label", "Labeling Error"},
	{"carton", "Carton/Insert Error"},
	{"package", "Packaging Defect"},
	{"particulate", "Particulate Matter"},
	{"glass", "Particulate Matter"},
	{"stability", "Stability Failure"},
	{"subpotent", "Subpotent"},
	{"superpotent", "Superpotent"},
	{"software", "Software Algorithm Error"},
	{"device", "Component Failure"},
}

// Classifier maps free-text recall reasons onto canonical category labels
// using an ordered keyword table.
type Classifier struct {
	rules []keywordRule
}

// NewClassifier returns a classifier backed by the default keyword table.
func NewClassifier() *Classifier {
	return &Classifier{rules: keywordTable}
}

// Classify returns the category of the first keyword whose lowercase form
// is a substring of the lowercased reason. Returns FallbackCategory when
// nothing matches.
func (c *Classifier) Classify(reason string) string {
	lower := strings.ToLower(reason)
	for _, rule := range c.rules {
		if strings.Contains(lower, rule.keyword) {
			return rule.category
		}
	}
	return FallbackCategory
}

// Categories returns the distinct category labels of the keyword table, in
// first-appearance order.
func (c *Classifier) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rule := range c.rules {
		if _, ok := seen[rule.category]; ok {
			continue
		}
		seen[rule.category] = struct{}{}
		out = append(out, rule.category)
	}
	return out
}
