package commands

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/recallgraph/recallgraph/internal/graphstore"
	"github.com/recallgraph/recallgraph/internal/ingestion"
	"github.com/recallgraph/recallgraph/internal/models"
	"github.com/recallgraph/recallgraph/internal/pipeline"
	"github.com/recallgraph/recallgraph/internal/rdf"
	"github.com/recallgraph/recallgraph/internal/search"
)

var (
	buildExtensions string
	buildOutput     string
	buildLimit      int
	buildSearchExpr string
	buildNoPersist  bool
	buildNoIndex    bool
	buildEnrich     bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run one ingest-classify-assemble pipeline pass",
	Long: `Fetches enforcement records from openFDA, aggregates them into the
failure taxonomy, merges extensions, assembles the relationship set, writes
the Turtle artifact, and persists the graph.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Flags override file values.
		if buildExtensions != "" {
			cfg.ExtensionsPath = buildExtensions
		}
		if buildOutput != "" {
			cfg.OutputPath = buildOutput
		}
		if buildLimit > 0 {
			cfg.OpenFDA.Limit = buildLimit
		}
		if buildSearchExpr != "" {
			cfg.OpenFDA.Search = buildSearchExpr
		}
		if buildEnrich {
			cfg.EnrichmentEnabled = true
		}

		fetchClient := ingestion.NewClient(cfg.OpenFDA.BaseURL, cfg.OpenFDA.Timeout)
		fetcher := pipeline.FetcherFunc(func(ctx context.Context) []models.Event {
			return fetchClient.FetchEvents(ctx, ingestion.FetchParams{
				Search: cfg.OpenFDA.Search,
				Limit:  cfg.OpenFDA.Limit,
			})
		})

		opts := pipeline.Options{
			Fetcher:        fetcher,
			ExtensionsPath: cfg.ExtensionsPath,
			OutputPath:     cfg.OutputPath,
			Metrics:        pipeline.NewMetrics(prometheus.NewRegistry(), "build"),
		}

		if cfg.Graph.Enabled && !buildNoPersist {
			clientCfg := graphstore.DefaultClientConfig()
			clientCfg.Host = cfg.Graph.Host
			clientCfg.Port = cfg.Graph.Port
			clientCfg.Password = cfg.Graph.Password
			clientCfg.GraphName = cfg.Graph.GraphName
			opts.GraphClient = graphstore.NewClient(clientCfg)
		}

		if cfg.Search.Enabled && !buildNoIndex {
			opts.Indexer = search.NewClient(cfg.Search.BaseURL, cfg.Search.Index, cfg.OpenFDA.Timeout)
		}

		if cfg.EnrichmentEnabled {
			opts.Fetcher, opts.Recognizer = enrichmentWiring(fetcher)
		}

		p, err := pipeline.New(opts)
		if err != nil {
			return err
		}

		result, err := p.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("run %s: %d events, %d triples (%d persisted), %d indexed, output %s\n",
			result.RunID, result.EventCount, result.TripleCount,
			result.TriplesPersisted, result.EventsIndexed, result.OutputPath)
		return nil
	},
}

// enrichmentWiring wraps a fetcher so the gazetteer is compiled exactly
// once, from the fetched batch, rather than on every recognition call.
// Until the fetch has run the recognizer finds nothing.
func enrichmentWiring(fetch pipeline.Fetcher) (pipeline.Fetcher, rdf.EntityRecognizer) {
	var recognize rdf.EntityRecognizer

	fetcher := pipeline.FetcherFunc(func(ctx context.Context) []models.Event {
		batch := fetch.Fetch(ctx)
		recognize = rdf.NewRecordGazetteer(batch)
		return batch
	})
	recognizer := func(text string) []rdf.Entity {
		if recognize == nil {
			return nil
		}
		return recognize(text)
	}
	return fetcher, recognizer
}

func init() {
	buildCmd.Flags().StringVar(&buildExtensions, "extensions", "", "Path to the taxonomy extensions JSON file")
	buildCmd.Flags().StringVar(&buildOutput, "output", "", "Path for the Turtle output file")
	buildCmd.Flags().IntVar(&buildLimit, "limit", 0, "Maximum number of records to fetch (max 1000)")
	buildCmd.Flags().StringVar(&buildSearchExpr, "search", "", "openFDA search expression, e.g. 'report_date:[20240101 TO 20241231]'")
	buildCmd.Flags().BoolVar(&buildNoPersist, "no-persist", false, "Skip graph store persistence")
	buildCmd.Flags().BoolVar(&buildNoIndex, "no-index", false, "Skip search indexing")
	buildCmd.Flags().BoolVar(&buildEnrich, "enrich", false, "Run the entity-mention enrichment pass")
}
