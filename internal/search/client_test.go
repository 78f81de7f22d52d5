package search

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallgraph/recallgraph/internal/models"
)

func TestBulkIndexWritesNDJSONKeyedByEventID(t *testing.T) {
	var lines []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/_bulk", r.URL.Path)
		require.Equal(t, "application/x-ndjson", r.Header.Get("Content-Type"))

		scanner := bufio.NewScanner(r.Body)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		w.Write([]byte(`{"errors": false}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "recall-events", 5*time.Second)
	count, err := client.BulkIndex(context.Background(), []models.Event{
		{EventID: "101", Reason: "cgmp deviations", FailureType: "CGMP Deviation"},
		{Reason: "no id, skipped"},
		{EventID: "102", RecallingFirm: "Acme Pharma"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Two documents means four NDJSON lines, action then source.
	require.Len(t, lines, 4)

	var action map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &action))
	assert.Equal(t, "recall-events", action["index"]["_index"])
	assert.Equal(t, "101", action["index"]["_id"])
	assert.Contains(t, lines[1], `"reason_for_recall":"cgmp deviations"`)
}

func TestBulkIndexEmptyBatchNoRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	count, err := client.BulkIndex(context.Background(), []models.Event{{Reason: "no id"}})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.False(t, called)
}

func TestBulkIndexServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	_, err := client.BulkIndex(context.Background(), []models.Event{{EventID: "1"}})
	assert.Error(t, err)
}

func TestSearchReturnsRankedHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recall-events/_search", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("size"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Contains(t, body, "query")

		w.Write([]byte(`{
			"hits": {"hits": [
				{"_id": "101", "_score": 2.4},
				{"_id": "102", "_score": 1.1}
			]}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "recall-events", 5*time.Second)
	hits, err := client.Search(context.Background(), "sterile contamination", 5)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "101", hits[0].EventID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearchUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", 500*time.Millisecond)
	_, err := client.Search(context.Background(), "anything", 10)
	assert.Error(t, err)
}

func TestHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/_cluster/health") {
			w.Write([]byte(`{"status": "green"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	assert.True(t, client.Healthy(context.Background()))

	down := NewClient("http://127.0.0.1:1", "", 500*time.Millisecond)
	assert.False(t, down.Healthy(context.Background()))
}
