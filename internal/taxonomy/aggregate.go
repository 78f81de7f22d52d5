package taxonomy

import (
	"github.com/recallgraph/recallgraph/internal/logging"
	"github.com/recallgraph/recallgraph/internal/models"
)

// exampleLength is the truncation bound applied to reason snippets before
// they are retained as category examples.
const exampleLength = 100

// Loader aggregates a batch of events into the hierarchy store. It reads
// events and writes only to the store; record acquisition is the ingestion
// collaborator's job.
type Loader struct {
	store      *Store
	classifier *Classifier
	logger     *logging.Logger
}

// LoadStats summarizes one aggregation pass.
type LoadStats struct {
	Classified int // events recorded against a category
	Fallback   int // events that classified to the untracked fallback bucket
	Skipped    int // events with an empty reason
}

// NewLoader returns a loader over the given store and classifier.
func NewLoader(store *Store, classifier *Classifier) *Loader {
	return &Loader{
		store:      store,
		classifier: classifier,
		logger:     logging.GetLogger("taxonomy.aggregate"),
	}
}

// Load classifies every event with a non-empty reason and records the
// occurrence against the resulting category. Fallback classifications
// contribute to no category. An empty batch is a no-op, not an error.
func (l *Loader) Load(events []models.Event) LoadStats {
	var stats LoadStats
	for _, ev := range events {
		if ev.Reason == "" {
			stats.Skipped++
			continue
		}

		category := l.classifier.Classify(ev.Reason)
		if l.store.RecordOccurrence(category, TruncateExample(ev.Reason)) {
			stats.Classified++
		} else {
			stats.Fallback++
		}
	}

	l.logger.InfoWithFields("aggregation pass complete",
		logging.Field("classified", stats.Classified),
		logging.Field("fallback", stats.Fallback),
		logging.Field("skipped", stats.Skipped),
	)
	return stats
}

// TruncateExample bounds a reason snippet for storage as an example.
// Snippets longer than the bound get an ellipsis marker.
func TruncateExample(reason string) string {
	if len(reason) <= exampleLength {
		return reason
	}
	return reason[:exampleLength] + "..."
}
