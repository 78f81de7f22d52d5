package taxonomy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recallgraph/recallgraph/internal/models"
)

func TestLoad(t *testing.T) {
	store := NewStore()
	store.InitializeObservedCategories()
	loader := NewLoader(store, NewClassifier())

	events := []models.Event{
		{EventID: "1", Reason: "Contamination found in sterile batch"},
		{EventID: "2", Reason: "Glass particulate in vial"},
		{EventID: "3", Reason: "Label mismatch on carton"},
		{EventID: "4", Reason: "Pink discoloration, no stated reason"},
		{EventID: "5", Reason: ""},
	}

	stats := loader.Load(events)

	assert.Equal(t, 3, stats.Classified)
	assert.Equal(t, 1, stats.Fallback)
	assert.Equal(t, 1, stats.Skipped)

	assert.Equal(t, 1, store.Category("Impurity/Contamination").Count)
	assert.Equal(t, 1, store.Category("Particulate Matter").Count)
	assert.Equal(t, 1, store.Category("Labeling Error").Count)

	// The fallback bucket never enters the tree.
	assert.False(t, store.HasCategory(FallbackCategory))
}

func TestLoadEmptyBatchIsNoOp(t *testing.T) {
	store := NewStore()
	store.InitializeObservedCategories()
	loader := NewLoader(store, NewClassifier())

	stats := loader.Load(nil)
	assert.Equal(t, LoadStats{}, stats)
	for _, cat := range store.Categories() {
		assert.Equal(t, 0, cat.Count)
	}
}

func TestLoadRetainsTruncatedExamples(t *testing.T) {
	store := NewStore()
	store.InitializeObservedCategories()
	loader := NewLoader(store, NewClassifier())

	long := "Particulate matter identified during reserve sample inspection " + strings.Repeat("x", 200)
	loader.Load([]models.Event{{EventID: "1", Reason: long}})

	examples := store.Category("Particulate Matter").Examples
	assert.Len(t, examples, 1)
	assert.Len(t, examples[0], exampleLength+3)
	assert.True(t, strings.HasSuffix(examples[0], "..."))
}

func TestTruncateExample(t *testing.T) {
	short := "short reason"
	assert.Equal(t, short, TruncateExample(short))

	long := strings.Repeat("a", exampleLength+1)
	got := TruncateExample(long)
	assert.Equal(t, strings.Repeat("a", exampleLength)+"...", got)
}
