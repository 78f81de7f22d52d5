package api

import (
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/recallgraph/recallgraph/internal/graphstore"
	"github.com/recallgraph/recallgraph/internal/search"
)

// handleEventSubresource routes /api/v1/events/{id}/neighbors by parsing
// the path remainder after the route prefix.
func (s *Server) handleEventSubresource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/events/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "neighbors" {
		NewNotFoundError("unknown event resource: %s", r.URL.Path).Write(w)
		return
	}

	s.handleNeighbors(w, r, parts[0])
}

// neighborsResponse is the payload of the neighborhood endpoint.
type neighborsResponse struct {
	EventID   string                `json:"event_id"`
	Neighbors []graphstore.Neighbor `json:"neighbors"`
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request, eventID string) {
	ctx, span := s.tracer.Start(r.Context(), "api.Neighbors",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.route", "/api/v1/events/{id}/neighbors"),
			attribute.String("event.id", eventID),
		),
	)
	defer span.End()

	if s.graph == nil {
		NewUnavailableError("graph store is not configured").Write(w)
		return
	}

	neighbors, err := s.graph.Neighbors(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "neighbors lookup failed")
		s.logger.Error("neighbors lookup failed for %s: %v", eventID, err)
		NewInternalServerError("neighbors lookup failed").Write(w)
		return
	}
	if len(neighbors) == 0 {
		NewNotFoundError("no event with id %q", eventID).Write(w)
		return
	}

	span.SetAttributes(attribute.Int("neighbors.count", len(neighbors)))
	_ = WriteSuccess(w, neighborsResponse{EventID: eventID, Neighbors: neighbors})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "api.Search",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("http.route", "/api/v1/search")),
	)
	defer span.End()

	if s.searcher == nil {
		NewUnavailableError("search index is not configured").Write(w)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		NewInvalidRequestError("query parameter 'q' is required").Write(w)
		return
	}

	size := 10
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			NewInvalidRequestError("size must be an integer between 1 and 100").Write(w)
			return
		}
		size = parsed
	}

	span.SetAttributes(attribute.String("search.query", query))
	hits, err := s.searcher.Search(ctx, query, size)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search index unavailable")
		s.logger.Error("search failed for %q: %v", query, err)
		NewUnavailableError("search index unavailable").Write(w)
		return
	}

	if hits == nil {
		hits = []search.Hit{}
	}
	span.SetAttributes(attribute.Int("search.hits", len(hits)))
	_ = WriteSuccess(w, map[string]interface{}{
		"query": query,
		"hits":  hits,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "api.Stats",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("http.route", "/api/v1/stats")),
	)
	defer span.End()

	if s.graph == nil {
		NewUnavailableError("graph store is not configured").Write(w)
		return
	}

	stats, err := s.graph.Stats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stats lookup failed")
		s.logger.Error("stats lookup failed: %v", err)
		NewInternalServerError("stats lookup failed").Write(w)
		return
	}

	_ = WriteSuccess(w, stats)
}
