package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/recallgraph/recallgraph/internal/logging"
)

// ExtensionItem is one user-authored vocabulary extension. Term and Domain
// are required; Category, Definition and Examples are optional. Unknown
// JSON fields are ignored.
type ExtensionItem struct {
	Term       string   `json:"term"`
	Domain     string   `json:"domain"`
	Category   string   `json:"category"`
	Definition string   `json:"definition"`
	Examples   []string `json:"examples"`
}

// ExtensionsFile is the on-disk shape of the extension configuration.
type ExtensionsFile struct {
	Extensions []ExtensionItem `json:"extensions"`
}

// LoadExtensionsFile reads an extension file. A missing file is not an
// error: it returns (nil, nil) so the merge step can no-op. Malformed JSON
// is an error the caller should log and skip, never fatal for the run.
func LoadExtensionsFile(path string) (*ExtensionsFile, error) {
	logger := logging.GetLogger("taxonomy.extensions")

	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no extensions file at %s, skipping merge", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read extensions file %q: %w", path, err)
	}

	var file ExtensionsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse extensions file %q: %w", path, err)
	}
	return &file, nil
}

// Merger overlays extension items onto the hierarchy store.
type Merger struct {
	store  *Store
	logger *logging.Logger
}

// MergeStats summarizes one extension merge.
type MergeStats struct {
	Merged  int
	Skipped int
}

// NewMerger returns a merger over the given store.
func NewMerger(store *Store) *Merger {
	return &Merger{
		store:  store,
		logger: logging.GetLogger("taxonomy.extensions"),
	}
}

// Merge applies extension items in input order. Items missing the required
// term or domain are skipped with a warning; one bad entry never aborts the
// batch. Items without a category ensure their domain but cannot place a
// term, since terms attach to categories only.
func (m *Merger) Merge(items []ExtensionItem) MergeStats {
	var stats MergeStats
	for i, item := range items {
		if item.Term == "" || item.Domain == "" {
			m.logger.Warn("skipping malformed extension at index %d: term and domain are required", i)
			stats.Skipped++
			continue
		}

		m.store.EnsureDomain(item.Domain)

		if item.Category == "" {
			m.logger.Warn("extension %q has no category, term not placed", item.Term)
			stats.Skipped++
			continue
		}

		m.store.AttachCategory(item.Category, item.Domain, ProvenanceExtension)
		m.store.AppendTerm(item.Term, item.Category, item.Definition, item.Examples)
		m.logger.Debug("merged extension: %s -> %s", item.Term, item.Category)
		stats.Merged++
	}

	m.logger.InfoWithFields("extension merge complete",
		logging.Field("merged", stats.Merged),
		logging.Field("skipped", stats.Skipped),
	)
	return stats
}
