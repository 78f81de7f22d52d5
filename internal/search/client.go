// Package search indexes event records into an Elasticsearch-compatible
// backend and serves free-text queries over them. Like the ingestion
// connector this is a soft dependency: an unreachable index downgrades
// the step to a warning instead of failing the run.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/recallgraph/recallgraph/internal/logging"
	"github.com/recallgraph/recallgraph/internal/models"
)

// DefaultIndex is the index name used when none is configured.
const DefaultIndex = "recall-events"

// Client is an HTTP client for an Elasticsearch-compatible search index.
type Client struct {
	baseURL    string
	index      string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a search client.
// baseURL: index root (e.g. "http://localhost:9200")
// index: index name to write and query
func NewClient(baseURL, index string, timeout time.Duration) *Client {
	if index == "" {
		index = DefaultIndex
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxConnsPerHost:     20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		index:   index,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logging.GetLogger("search.client"),
	}
}

// Healthy reports whether the index endpoint answers at all.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/_cluster/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// document is the indexed shape of one event.
type document struct {
	EventID            string `json:"event_id"`
	RecallNumber       string `json:"recall_number,omitempty"`
	RecallingFirm      string `json:"recalling_firm,omitempty"`
	Status             string `json:"status,omitempty"`
	Classification     string `json:"classification,omitempty"`
	Reason             string `json:"reason_for_recall,omitempty"`
	ProductDescription string `json:"product_description,omitempty"`
	FailureType        string `json:"failure_type,omitempty"`
	ReportDate         string `json:"report_date,omitempty"`
}

// BulkIndex upserts one document per event through the _bulk endpoint,
// keyed by event_id so that re-indexing an unchanged batch is
// idempotent. Events without an event_id are skipped. Returns the number
// of documents submitted.
func (c *Client) BulkIndex(ctx context.Context, events []models.Event) (int, error) {
	var buf bytes.Buffer
	count := 0
	for _, ev := range events {
		if ev.EventID == "" {
			continue
		}
		action := map[string]map[string]string{
			"index": {"_index": c.index, "_id": ev.EventID},
		}
		doc := document{
			EventID:            ev.EventID,
			RecallNumber:       ev.RecallNumber,
			RecallingFirm:      ev.RecallingFirm,
			Status:             ev.Status,
			Classification:     ev.Classification,
			Reason:             ev.Reason,
			ProductDescription: ev.ProductDescription,
			FailureType:        ev.FailureType,
			ReportDate:         ev.ReportDate,
		}

		actionLine, err := json.Marshal(action)
		if err != nil {
			return 0, fmt.Errorf("marshal bulk action: %w", err)
		}
		docLine, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("marshal document: %w", err)
		}
		buf.Write(actionLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
		count++
	}
	if count == 0 {
		return 0, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/_bulk", &buf)
	if err != nil {
		return 0, fmt.Errorf("create bulk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute bulk index: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read bulk response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("bulk index failed (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	c.logger.InfoWithFields("events indexed",
		logging.Field("count", count),
		logging.Field("index", c.index),
	)
	return count, nil
}

// Hit is one ranked search result.
type Hit struct {
	EventID string  `json:"event_id"`
	Score   float64 `json:"score"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID    string  `json:"_id"`
			Score float64 `json:"_score"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a free-text query over the recall reason and product
// description fields and returns event identifiers ranked by score.
func (c *Client) Search(ctx context.Context, query string, size int) ([]Hit, error) {
	if size <= 0 {
		size = 10
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"reason_for_recall", "product_description", "recalling_firm"},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	q := url.Values{}
	q.Set("size", strconv.Itoa(size))
	reqURL := fmt.Sprintf("%s/%s/_search?%s", c.baseURL, c.index, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed (status %d): %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, Hit{EventID: h.ID, Score: h.Score})
	}
	return hits, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
