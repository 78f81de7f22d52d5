// Package graphstore persists the assembled relationship set into FalkorDB
// and serves pattern-match retrieval over it. Triples are stored as
// (:Resource {id})-[:REL {iri}]->(:Resource|:Literal) and written with
// MERGE so that re-persisting an unchanged graph is idempotent.
package graphstore

import (
	"context"
	"fmt"
	"time"

	"github.com/FalkorDB/falkordb-go/v2"

	"github.com/recallgraph/recallgraph/internal/logging"
	"github.com/recallgraph/recallgraph/internal/rdf"
)

// Client is the interface the pipeline and read path use to talk to the
// triple store.
type Client interface {
	// Connect establishes the connection.
	Connect(ctx context.Context) error

	// Close closes the connection.
	Close() error

	// Ping checks that the connection is alive.
	Ping(ctx context.Context) error

	// InitializeSchema creates the indexes the read path relies on.
	InitializeSchema(ctx context.Context) error

	// InsertTriples persists a batch of triples. Safe to re-run with the
	// same batch.
	InsertTriples(ctx context.Context, triples []rdf.Triple) (int, error)

	// Match returns every stored triple matching the pattern. Empty
	// pattern fields are wildcards.
	Match(ctx context.Context, pattern TriplePattern) ([]rdf.Triple, error)

	// Neighbors returns the one-hop outgoing relationship set of an event
	// node, with display labels and type annotations resolved.
	Neighbors(ctx context.Context, eventID string) ([]Neighbor, error)

	// Stats returns node and edge counts.
	Stats(ctx context.Context) (*Stats, error)

	// DeleteGraph removes the whole graph. Test support only.
	DeleteGraph(ctx context.Context) error
}

// TriplePattern is a subject/predicate/object filter. Empty strings match
// anything; Object matches either a resource id or a literal value.
type TriplePattern struct {
	Subject   string
	Predicate string
	Object    string
}

// Neighbor is one outgoing relationship of an event node, shaped for
// presentation: the object's display label falls back to its identifier
// fragment, and the type annotation falls back to "Literal".
type Neighbor struct {
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	Label     string `json:"label"`
	Type      string `json:"type"`
}

// Stats holds graph-level counts.
type Stats struct {
	NodeCount int `json:"nodeCount"`
	EdgeCount int `json:"edgeCount"`
}

// ClientConfig holds connection settings for the FalkorDB client.
type ClientConfig struct {
	Host         string
	Port         int
	Password     string
	GraphName    string
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	// LabelCacheSize bounds the LRU cache used for label/type lookups in
	// the neighborhood read path.
	LabelCacheSize int
}

// DefaultClientConfig returns defaults suitable for a local FalkorDB.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Host:           "localhost",
		Port:           6379,
		GraphName:      "recallgraph",
		MaxRetries:     3,
		DialTimeout:    30 * time.Second,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   60 * time.Second,
		PoolSize:       10,
		LabelCacheSize: 4096,
	}
}

type falkorClient struct {
	config ClientConfig
	logger *logging.Logger
	db     *falkordb.FalkorDB
	graph  *falkordb.Graph
	labels *labelCache
}

// NewClient creates a FalkorDB-backed triple store client.
func NewClient(config ClientConfig) Client {
	return &falkorClient{
		config: config,
		logger: logging.GetLogger("graphstore.client"),
		labels: newLabelCache(config.LabelCacheSize),
	}
}

func (c *falkorClient) Connect(ctx context.Context) error {
	c.logger.Info("connecting to FalkorDB at %s:%d (graph: %s)", c.config.Host, c.config.Port, c.config.GraphName)

	connOpts := &falkordb.ConnectionOption{
		Addr:         fmt.Sprintf("%s:%d", c.config.Host, c.config.Port),
		Password:     c.config.Password,
		DialTimeout:  c.config.DialTimeout,
		ReadTimeout:  c.config.ReadTimeout,
		WriteTimeout: c.config.WriteTimeout,
		PoolSize:     c.config.PoolSize,
		MaxRetries:   c.config.MaxRetries,
	}

	db, err := falkordb.FalkorDBNew(connOpts)
	if err != nil {
		return fmt.Errorf("failed to create FalkorDB client: %w", err)
	}
	c.db = db
	c.graph = db.SelectGraph(c.config.GraphName)

	c.logger.Info("connected to FalkorDB")
	return nil
}

func (c *falkorClient) Close() error {
	if c.db != nil && c.db.Conn != nil {
		return c.db.Conn.Close()
	}
	return nil
}

func (c *falkorClient) Ping(ctx context.Context) error {
	if c.graph == nil {
		return fmt.Errorf("client not connected")
	}
	_, err := c.graph.Query("RETURN 1", nil, nil)
	return err
}

func (c *falkorClient) InitializeSchema(ctx context.Context) error {
	if c.graph == nil {
		return fmt.Errorf("client not connected")
	}

	// Resource.id is the lookup key for every read path query.
	queries := []string{
		"CREATE INDEX FOR (r:Resource) ON (r.id)",
		"CREATE INDEX FOR (l:Literal) ON (l.value)",
	}
	for _, q := range queries {
		if _, err := c.graph.Query(q, nil, nil); err != nil {
			// Index may already exist from a prior run.
			c.logger.Debug("index creation skipped: %v", err)
		}
	}
	return nil
}

func (c *falkorClient) InsertTriples(ctx context.Context, triples []rdf.Triple) (int, error) {
	if c.graph == nil {
		return 0, fmt.Errorf("client not connected")
	}

	inserted := 0
	for _, t := range triples {
		q := mergeTripleQuery(t)
		if _, err := c.graph.Query(q, nil, nil); err != nil {
			return inserted, fmt.Errorf("failed to insert triple %s -> %s: %w", t.Subject, t.Predicate, err)
		}
		inserted++
	}

	c.logger.InfoWithFields("triples persisted",
		logging.Field("count", inserted),
		logging.Field("graph", c.config.GraphName),
	)
	return inserted, nil
}

func (c *falkorClient) Match(ctx context.Context, pattern TriplePattern) ([]rdf.Triple, error) {
	if c.graph == nil {
		return nil, fmt.Errorf("client not connected")
	}

	result, err := c.graph.Query(matchPatternQuery(pattern), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("pattern match failed: %w", err)
	}

	var out []rdf.Triple
	for result.Next() {
		values := result.Record().Values()
		if len(values) < 5 {
			continue
		}
		subject, _ := values[0].(string)
		predicate, _ := values[1].(string)
		kind, _ := values[2].(string)
		objectValue, _ := values[3].(string)
		lang, _ := values[4].(string)

		t := rdf.Triple{Subject: rdf.IRI(subject), Predicate: rdf.IRI(predicate)}
		if kind == "Resource" {
			t.Object = rdf.IRIObject(rdf.IRI(objectValue))
		} else if lang != "" {
			t.Object = rdf.LangLiteral(objectValue, lang)
		} else {
			t.Object = rdf.LiteralObject(objectValue)
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *falkorClient) Stats(ctx context.Context) (*Stats, error) {
	if c.graph == nil {
		return nil, fmt.Errorf("client not connected")
	}

	stats := &Stats{}

	nodeResult, err := c.graph.Query("MATCH (n) RETURN count(n)", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count nodes: %w", err)
	}
	if nodeResult.Next() {
		stats.NodeCount = intValue(nodeResult.Record().Values()[0])
	}

	edgeResult, err := c.graph.Query("MATCH ()-[r]->() RETURN count(r)", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count edges: %w", err)
	}
	if edgeResult.Next() {
		stats.EdgeCount = intValue(edgeResult.Record().Values()[0])
	}

	return stats, nil
}

func (c *falkorClient) DeleteGraph(ctx context.Context) error {
	if c.graph == nil {
		return fmt.Errorf("client not connected")
	}
	return c.graph.Delete()
}

func intValue(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}
