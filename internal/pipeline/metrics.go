package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for pipeline observability.
type Metrics struct {
	RecordsFetched    prometheus.Counter // Records received from the ingestion connector
	RecordsClassified prometheus.Counter // Records matched by the keyword table
	FallbackHits      prometheus.Counter // Records that fell through to the fallback category
	ExtensionsMerged  prometheus.Counter // Extension items merged into the hierarchy
	ExtensionsSkipped prometheus.Counter // Extension items skipped as malformed
	TriplesEmitted    prometheus.Counter // Triples produced by assembly and enrichment
	TriplesPersisted  prometheus.Counter // Triples written to the graph store
	EventsIndexed     prometheus.Counter // Events submitted to the search index
	RunsTotal         prometheus.Counter // Completed pipeline runs
	ErrorsTotal       prometheus.Counter // Degraded or failed pipeline steps
}

// NewMetrics creates Prometheus metrics for a pipeline instance. The
// registerer parameter allows flexible registration (global registry,
// test registry). The instanceName parameter enables multi-instance
// metric tracking via ConstLabels.
func NewMetrics(reg prometheus.Registerer, instanceName string) *Metrics {
	labels := prometheus.Labels{"instance": instanceName}

	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		reg.MustRegister(c)
		return c
	}

	return &Metrics{
		RecordsFetched:    counter("recallgraph_records_fetched_total", "Records received from the ingestion connector"),
		RecordsClassified: counter("recallgraph_records_classified_total", "Records matched by the keyword table"),
		FallbackHits:      counter("recallgraph_fallback_hits_total", "Records that fell through to the fallback category"),
		ExtensionsMerged:  counter("recallgraph_extensions_merged_total", "Extension items merged into the hierarchy"),
		ExtensionsSkipped: counter("recallgraph_extensions_skipped_total", "Extension items skipped as malformed"),
		TriplesEmitted:    counter("recallgraph_triples_emitted_total", "Triples produced by assembly and enrichment"),
		TriplesPersisted:  counter("recallgraph_triples_persisted_total", "Triples written to the graph store"),
		EventsIndexed:     counter("recallgraph_events_indexed_total", "Events submitted to the search index"),
		RunsTotal:         counter("recallgraph_runs_total", "Completed pipeline runs"),
		ErrorsTotal:       counter("recallgraph_errors_total", "Degraded or failed pipeline steps"),
	}
}
