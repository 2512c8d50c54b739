package api

import (
	"context"
	"encoding/json"
	"math"
	"mime"
	"net/http"

	"github.com/paulmach/orb"

	"osmroute/internal/orchestrator"
	"osmroute/internal/routeerr"
)

// RouteCalculator is the subset of *orchestrator.Orchestrator the HTTP
// layer depends on.
type RouteCalculator interface {
	CalculateRoute(ctx context.Context, source, dest orb.Point) (*orchestrator.RouteResponse, error)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router RouteCalculator
}

// NewHandlers creates handlers backed by router.
func NewHandlers(router RouteCalculator) *Handlers {
	return &Handlers{router: router}
}

// HandleRoute handles POST /route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "expected application/json")
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	if !validateFinite(req.Source.Lat) || !validateFinite(req.Source.Lng) ||
		!validateFinite(req.Destination.Lat) || !validateFinite(req.Destination.Lng) {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "coordinates must be finite numbers")
		return
	}

	source := orb.Point{req.Source.Lng, req.Source.Lat}
	dest := orb.Point{req.Destination.Lng, req.Destination.Lat}

	result, err := h.router.CalculateRoute(r.Context(), source, dest)
	if err != nil {
		writeRouteError(w, err)
		return
	}

	resp := RouteResponse{
		Path:     make([]LatLngJSON, len(result.Path)),
		Distance: result.Distance,
		Duration: result.Duration,
		Metrics: MetricsJSON{
			TotalWeight:      result.Metrics.TotalWeight,
			NodeCount:        result.Metrics.NodeCount,
			ProcessingTimeMS: result.Metrics.ProcessingTimeMS,
			GraphStats: GraphStatsJSON{
				Nodes: result.Metrics.GraphStats.Nodes,
				Edges: result.Metrics.GraphStats.Edges,
			},
		},
		Debug: DebugJSON{
			SourceNode:      uint64(result.Debug.SourceNode),
			DestinationNode: uint64(result.Debug.DestinationNode),
		},
	}
	for i, p := range result.Path {
		resp.Path[i] = LatLngJSON{Lat: p[1], Lng: p[0]}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatsResponse{Status: "ok"})
}

// writeRouteError maps a routeerr.Kind to the status-coded envelope of
// SPEC_FULL.md §7.
func writeRouteError(w http.ResponseWriter, err error) {
	switch {
	case routeerr.Is(err, routeerr.InvalidCoordinates):
		writeError(w, http.StatusBadRequest, "invalid_coordinates", errMessage(err))
	case routeerr.Is(err, routeerr.EmptyArea):
		writeError(w, http.StatusNotFound, "empty_area", "no roads in area")
	case routeerr.Is(err, routeerr.UpstreamTimeout):
		writeError(w, http.StatusRequestTimeout, "upstream_timeout", "try a smaller area")
	case routeerr.Is(err, routeerr.UpstreamRateLimited):
		writeError(w, http.StatusServiceUnavailable, "upstream_rate_limited", "")
	case routeerr.Is(err, routeerr.UpstreamServerError):
		writeError(w, http.StatusServiceUnavailable, "upstream_server_error", "")
	case routeerr.Is(err, routeerr.UpstreamBadShape):
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	case routeerr.Is(err, routeerr.NoNearbyIntersection):
		writeError(w, http.StatusNotFound, "no_nearby_intersection", "click closer to a road")
	case routeerr.Is(err, routeerr.Unreachable):
		writeError(w, http.StatusNotFound, "unreachable", "disconnected road networks")
	case routeerr.Is(err, routeerr.SearchAborted), routeerr.Is(err, routeerr.ReconstructionFailed):
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Message: message})
}

func validateFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
