package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple label", "Labeling Error", "labeling-error"},
		{"slash separator", "Impurity/Contamination", "impurity-contamination"},
		{"period and comma stripped to separator", "Acme Pharma, Inc.", "acme-pharma-inc"},
		{"repeated separators collapse", "Batch  Record   Issue", "batch-record-issue"},
		{"leading and trailing separators trimmed", "  CGMP Violation  ", "cgmp-violation"},
		{"non-alphanumerics dropped", "Sub-potent (assay)", "sub-potent-assay"},
		{"underscores fold to hyphen", "failure_type_x", "failure-type-x"},
		{"empty input", "", ""},
		{"all punctuation", "?!*()", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.input))
		})
	}
}

func TestSlugDeterministic(t *testing.T) {
	// Same label always yields the same slug, and case differences fold away.
	assert.Equal(t, Slug("CGMP Violation"), Slug("cgmp violation"))
	assert.Equal(t, Slug("Particulate Matter"), Slug("Particulate Matter"))
}
