// Package pipeline orchestrates one end-to-end build run: fetch records,
// aggregate them into the failure taxonomy, merge extensions, assemble
// the relationship set, serialize it, and hand it to the persistence and
// index sinks. External steps degrade to warnings so a single flaky
// collaborator never loses the run.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recallgraph/recallgraph/internal/graphstore"
	"github.com/recallgraph/recallgraph/internal/logging"
	"github.com/recallgraph/recallgraph/internal/models"
	"github.com/recallgraph/recallgraph/internal/rdf"
	"github.com/recallgraph/recallgraph/internal/taxonomy"
)

// Fetcher produces the event batch for a run.
type Fetcher interface {
	Fetch(ctx context.Context) []models.Event
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) []models.Event

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) []models.Event {
	return f(ctx)
}

// Indexer submits events to a search index.
type Indexer interface {
	BulkIndex(ctx context.Context, events []models.Event) (int, error)
}

// Options wires the collaborators of one pipeline instance. Fetcher is
// required; nil sinks disable their step.
type Options struct {
	Fetcher        Fetcher
	ExtensionsPath string
	OutputPath     string
	GraphClient    graphstore.Client
	Indexer        Indexer
	Recognizer     rdf.EntityRecognizer
	Metrics        *Metrics
}

// Result summarizes one run.
type Result struct {
	RunID            string
	EventCount       int
	Classified       int
	Fallback         int
	ExtensionsMerged int
	TripleCount      int
	EntityMentions   int
	TriplesPersisted int
	EventsIndexed    int
	OutputPath       string
}

// Pipeline executes build runs.
type Pipeline struct {
	opts   Options
	logger *logging.Logger
}

// New creates a pipeline from its collaborators.
func New(opts Options) (*Pipeline, error) {
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("pipeline requires a fetcher")
	}
	return &Pipeline{
		opts:   opts,
		logger: logging.GetLogger("pipeline"),
	}, nil
}

// Run executes one build. The only fatal outcome is an output file that
// cannot be written; a bad extensions file and unreachable collaborators
// log a warning and the run continues.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	logger := p.logger.WithField("run_id", runID)
	result := &Result{RunID: runID, OutputPath: p.opts.OutputPath}

	logger.Info("starting build run")

	// Fetch. A failed fetch inside the fetcher already degraded to an
	// empty batch; an empty batch still produces the seeded taxonomy.
	events := p.opts.Fetcher.Fetch(ctx)
	result.EventCount = len(events)
	p.count(p.metric().RecordsFetched, len(events))

	// Aggregate observed failures into the hierarchy.
	store := taxonomy.NewStore()
	store.InitializeObservedCategories()
	loadStats := taxonomy.NewLoader(store, taxonomy.NewClassifier()).Load(events)
	result.Classified = loadStats.Classified
	result.Fallback = loadStats.Fallback
	p.count(p.metric().RecordsClassified, loadStats.Classified)
	p.count(p.metric().FallbackHits, loadStats.Fallback)

	// Merge hand-authored extensions. A malformed file is skipped with a
	// warning, like a missing one: extensions enrich the run, they never
	// sink it.
	if p.opts.ExtensionsPath != "" {
		ext, err := taxonomy.LoadExtensionsFile(p.opts.ExtensionsPath)
		if err != nil {
			p.count(p.metric().ErrorsTotal, 1)
			logger.Warn("extensions skipped: %v", err)
		}
		if ext != nil {
			mergeStats := taxonomy.NewMerger(store).Merge(ext.Extensions)
			result.ExtensionsMerged = mergeStats.Merged
			p.count(p.metric().ExtensionsMerged, mergeStats.Merged)
			p.count(p.metric().ExtensionsSkipped, mergeStats.Skipped)
		}
	}

	// Assemble the relationship set and optionally enrich it with
	// entity mentions.
	g := rdf.NewAssembler().Assemble(store, events)
	if p.opts.Recognizer != nil {
		result.EntityMentions = rdf.NewEnricher(p.opts.Recognizer).Enrich(g, events)
	}
	result.TripleCount = g.Len()
	p.count(p.metric().TriplesEmitted, g.Len())

	// Serialize. The Turtle file is the run's primary artifact.
	if p.opts.OutputPath != "" {
		if err := rdf.WriteTurtleFile(p.opts.OutputPath, g); err != nil {
			p.count(p.metric().ErrorsTotal, 1)
			return nil, fmt.Errorf("write turtle output: %w", err)
		}
		logger.InfoWithFields("turtle written",
			logging.Field("path", p.opts.OutputPath),
			logging.Field("triples", g.Len()),
		)
	}

	// Persist to the graph store.
	if p.opts.GraphClient != nil {
		persisted, err := p.persist(ctx, g)
		if err != nil {
			p.count(p.metric().ErrorsTotal, 1)
			logger.Warn("graph persistence skipped: %v", err)
		} else {
			result.TriplesPersisted = persisted
			p.count(p.metric().TriplesPersisted, persisted)
		}
	}

	// Submit to the search index.
	if p.opts.Indexer != nil {
		indexed, err := p.opts.Indexer.BulkIndex(ctx, events)
		if err != nil {
			p.count(p.metric().ErrorsTotal, 1)
			logger.Warn("search indexing skipped: %v", err)
		} else {
			result.EventsIndexed = indexed
			p.count(p.metric().EventsIndexed, indexed)
		}
	}

	p.count(p.metric().RunsTotal, 1)
	logger.InfoWithFields("build run finished",
		logging.Field("events", result.EventCount),
		logging.Field("triples", result.TripleCount),
		logging.Field("fallback", result.Fallback),
	)
	return result, nil
}

func (p *Pipeline) persist(ctx context.Context, g *rdf.Graph) (int, error) {
	client := p.opts.GraphClient
	if err := client.Connect(ctx); err != nil {
		return 0, err
	}
	defer client.Close()

	if err := client.InitializeSchema(ctx); err != nil {
		return 0, err
	}
	return client.InsertTriples(ctx, g.Triples())
}

// metric returns the metrics sink, substituting an unregistered empty
// set when none was configured.
func (p *Pipeline) metric() *Metrics {
	if p.opts.Metrics == nil {
		return &Metrics{}
	}
	return p.opts.Metrics
}

func (p *Pipeline) count(c interface{ Add(float64) }, n int) {
	if c == nil {
		return
	}
	c.Add(float64(n))
}
