package api

// RouteRequest is the JSON body for POST /route.
type RouteRequest struct {
	Source      LatLngJSON `json:"source"`
	Destination LatLngJSON `json:"destination"`
}

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteResponse is the JSON response for a successful route query
// (SPEC_FULL.md §6).
type RouteResponse struct {
	Path     []LatLngJSON `json:"path"`
	Distance float64      `json:"distance"`
	Duration int          `json:"duration"`
	Metrics  MetricsJSON  `json:"metrics"`
	Debug    DebugJSON    `json:"debug"`
}

// MetricsJSON is the metrics block of a route response.
type MetricsJSON struct {
	TotalWeight      float64        `json:"total_weight"`
	NodeCount        int            `json:"node_count"`
	ProcessingTimeMS int64          `json:"processing_time_ms"`
	GraphStats       GraphStatsJSON `json:"graph_stats"`
}

// GraphStatsJSON reports the size of the graph a route was computed
// against.
type GraphStatsJSON struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// DebugJSON carries opaque internal identifiers.
type DebugJSON struct {
	SourceNode      uint64 `json:"source_node"`
	DestinationNode uint64 `json:"destination_node"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the JSON response for GET /stats.
type StatsResponse struct {
	Status string `json:"status"`
}
