package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallgraph/recallgraph/internal/graphstore"
	"github.com/recallgraph/recallgraph/internal/models"
	"github.com/recallgraph/recallgraph/internal/rdf"
)

type fakeGraphClient struct {
	graphstore.Client

	connectErr error
	inserted   []rdf.Triple
}

func (f *fakeGraphClient) Connect(ctx context.Context) error { return f.connectErr }
func (f *fakeGraphClient) Close() error                      { return nil }

func (f *fakeGraphClient) InitializeSchema(ctx context.Context) error { return nil }

func (f *fakeGraphClient) InsertTriples(ctx context.Context, triples []rdf.Triple) (int, error) {
	f.inserted = append(f.inserted, triples...)
	return len(triples), nil
}

type fakeIndexer struct {
	events []models.Event
	err    error
}

func (f *fakeIndexer) BulkIndex(ctx context.Context, events []models.Event) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.events = append(f.events, events...)
	return len(events), nil
}

func staticFetcher(events ...models.Event) Fetcher {
	return FetcherFunc(func(ctx context.Context) []models.Event {
		return events
	})
}

func sampleEvents() []models.Event {
	return []models.Event{
		{EventID: "1", Reason: "Contamination found in sterile batch", FailureType: "Impurity/Contamination", RecallingFirm: "Acme Pharma", ProductDescription: "Tablets distributed by Acme Pharma"},
		{EventID: "2", Reason: "Pink discoloration", FailureType: "Other Quality Issue"},
	}
}

func TestRunEndToEnd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "taxonomy.ttl")
	graph := &fakeGraphClient{}
	indexer := &fakeIndexer{}
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")

	p, err := New(Options{
		Fetcher:     staticFetcher(sampleEvents()...),
		OutputPath:  out,
		GraphClient: graph,
		Indexer:     indexer,
		Metrics:     metrics,
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.EventCount)
	assert.Equal(t, 1, result.Classified)
	assert.Equal(t, 1, result.Fallback)
	assert.Greater(t, result.TripleCount, 0)
	assert.Equal(t, result.TripleCount, result.TriplesPersisted)
	assert.Equal(t, 2, result.EventsIndexed)

	assert.Len(t, graph.inserted, result.TripleCount)
	assert.Len(t, indexer.events, 2)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "skos:prefLabel")

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.RecordsFetched))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RunsTotal))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.ErrorsTotal))
}

func TestRunRequiresFetcher(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestRunEmptyBatchStillWritesSeededTaxonomy(t *testing.T) {
	out := filepath.Join(t.TempDir(), "taxonomy.ttl")
	p, err := New(Options{Fetcher: staticFetcher(), OutputPath: out})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.EventCount)
	assert.Greater(t, result.TripleCount, 0, "seeded domains and categories still assemble")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Manufacturing")
}

func TestRunMergesExtensions(t *testing.T) {
	dir := t.TempDir()
	extPath := filepath.Join(dir, "extensions.json")
	require.NoError(t, os.WriteFile(extPath, []byte(`{
		"extensions": [
			{"term": "AI Hallucination", "domain": "Device Malfunction", "category": "Software Algorithm Error"},
			{"term": "", "domain": "Device Malfunction", "category": "Sensor Issue"}
		]
	}`), 0o644))

	p, err := New(Options{
		Fetcher:        staticFetcher(),
		ExtensionsPath: extPath,
		OutputPath:     filepath.Join(dir, "taxonomy.ttl"),
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.ExtensionsMerged)
}

// A broken extensions file must not cost the run its Turtle artifact.
func TestRunMalformedExtensionsFileDegrades(t *testing.T) {
	dir := t.TempDir()
	extPath := filepath.Join(dir, "extensions.json")
	require.NoError(t, os.WriteFile(extPath, []byte("{broken"), 0o644))
	out := filepath.Join(dir, "taxonomy.ttl")

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")
	p, err := New(Options{
		Fetcher:        staticFetcher(sampleEvents()...),
		ExtensionsPath: extPath,
		OutputPath:     out,
		Metrics:        metrics,
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err, "malformed extensions must not fail the run")

	assert.Equal(t, 0, result.ExtensionsMerged)
	assert.Greater(t, result.TripleCount, 0)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ErrorsTotal))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "skos:prefLabel")
}

func TestRunMissingExtensionsFileSkipped(t *testing.T) {
	dir := t.TempDir()
	p, err := New(Options{
		Fetcher:        staticFetcher(),
		ExtensionsPath: filepath.Join(dir, "absent.json"),
		OutputPath:     filepath.Join(dir, "taxonomy.ttl"),
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExtensionsMerged)
}

func TestRunGraphFailureDegrades(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")

	p, err := New(Options{
		Fetcher:     staticFetcher(sampleEvents()...),
		OutputPath:  filepath.Join(t.TempDir(), "taxonomy.ttl"),
		GraphClient: &fakeGraphClient{connectErr: errors.New("connection refused")},
		Metrics:     metrics,
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err, "unreachable graph store must not fail the run")
	assert.Equal(t, 0, result.TriplesPersisted)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ErrorsTotal))
}

func TestRunIndexerFailureDegrades(t *testing.T) {
	p, err := New(Options{
		Fetcher:    staticFetcher(sampleEvents()...),
		OutputPath: filepath.Join(t.TempDir(), "taxonomy.ttl"),
		Indexer:    &fakeIndexer{err: fmt.Errorf("index unavailable")},
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.EventsIndexed)
}

func TestRunEnrichmentAddsMentions(t *testing.T) {
	p, err := New(Options{
		Fetcher:    staticFetcher(sampleEvents()...),
		OutputPath: filepath.Join(t.TempDir(), "taxonomy.ttl"),
		Recognizer: rdf.NewRecordGazetteer(sampleEvents()),
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Greater(t, result.EntityMentions, 0)
}

func TestRunIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	mk := func(name string) *Result {
		p, err := New(Options{
			Fetcher:    staticFetcher(sampleEvents()...),
			OutputPath: filepath.Join(dir, name),
		})
		require.NoError(t, err)
		r, err := p.Run(context.Background())
		require.NoError(t, err)
		return r
	}

	r1 := mk("a.ttl")
	r2 := mk("b.ttl")
	assert.Equal(t, r1.TripleCount, r2.TripleCount)

	d1, err := os.ReadFile(filepath.Join(dir, "a.ttl"))
	require.NoError(t, err)
	d2, err := os.ReadFile(filepath.Join(dir, "b.ttl"))
	require.NoError(t, err)
	assert.Equal(t, string(d1), string(d2))
}
