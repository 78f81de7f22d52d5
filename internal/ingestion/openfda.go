// Package ingestion fetches drug enforcement records from the openFDA
// API and shapes them into events for the pipeline. The connector is a
// soft dependency: when the API is unreachable or returns garbage the
// fetch yields an empty batch and the run continues.
package ingestion

import (
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
	"github.com/recallgraph/recallgraph/internal/taxonomy"
)

// DefaultBaseURL is the public openFDA endpoint root.
const DefaultBaseURL = "https://api.fda.gov"

const enforcementPath = "/drug/enforcement.json"

// Client is an HTTP client wrapper for the openFDA enforcement API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	classifier *taxonomy.Classifier
	logger     *logging.Logger
}

// NewClient creates an openFDA client with tuned connection pooling.
// baseURL: API root (e.g. "https://api.fda.gov")
// timeout: overall per-request timeout
func NewClient(baseURL string, timeout time.Duration) *Client {
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
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		classifier: taxonomy.NewClassifier(),
		logger:     logging.GetLogger("ingestion.openfda"),
	}
}

// FetchParams controls the enforcement query.
type FetchParams struct {
	// Search is an openFDA search expression, e.g.
	// `report_date:[20240101 TO 20241231]`. Empty means no filter.
	Search string

	// Limit caps the number of returned records. openFDA rejects values
	// above 1000; zero falls back to 100.
	Limit int
}

type enforcementResponse struct {
	Results []map[string]interface{} `json:"results"`
}

// FetchEvents queries the enforcement endpoint and returns one event per
// record, with FailureType derived from the recall reason during
// extraction. Any transport, status, or decode failure is logged and
// yields an empty batch.
func (c *Client) FetchEvents(ctx context.Context, params FetchParams) []models.Event {
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, enforcementPath, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Warn("failed to build openFDA request: %v", err)
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("openFDA fetch failed, continuing with empty batch: %v", err)
		return nil
	}
	defer resp.Body.Close()

	// Always read the body to completion for connection reuse.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("failed to read openFDA response: %v", err)
		return nil
	}

	// 404 is how openFDA reports "no records matched".
	if resp.StatusCode == http.StatusNotFound {
		c.logger.Info("openFDA returned no matching records")
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("openFDA fetch failed: status=%d body=%s", resp.StatusCode, truncate(string(body), 200))
		return nil
	}

	var parsed enforcementResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("failed to parse openFDA response: %v", err)
		return nil
	}

	events := make([]models.Event, 0, len(parsed.Results))
	for _, record := range parsed.Results {
		ev := models.EventFromRecord(record)
		if ev.Reason != "" {
			ev.FailureType = c.classifier.Classify(ev.Reason)
		}
		events = append(events, ev)
	}

	c.logger.InfoWithFields("fetched enforcement records",
		logging.Field("count", len(events)),
		logging.Field("limit", limit),
	)
	return events
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
