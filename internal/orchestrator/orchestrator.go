// Package orchestrator wires the fetcher, graph builder, and shortest-path
// engine into the single request-shaped entry point calculate_route
// (SPEC_FULL.md §4.5), fronted by a TTL graph cache.
package orchestrator

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/paulmach/orb"

	"osmroute/internal/fetch"
	"osmroute/internal/geo"
	"osmroute/internal/graph"
	"osmroute/internal/routeerr"
	"osmroute/internal/routing"
)

// minEndpointDistanceKM is the closest two endpoints may be and still be
// considered routable (SPEC_FULL.md §4.5.1).
const minEndpointDistanceKM = 0.01

// Fetcher is the subset of fetch.Fetcher the orchestrator depends on.
type Fetcher interface {
	Fetch(ctx context.Context, source, dest orb.Point) ([]graph.Way, error)
}

// Orchestrator is the process-wide service that answers route requests. It
// owns the one piece of shared mutable state in the system: the graph
// cache (SPEC_FULL.md §5).
type Orchestrator struct {
	fetcher Fetcher
	cache   *graphCache
	log     *slog.Logger
}

// New builds an Orchestrator backed by fetcher, with the default cache TTL.
func New(fetcher Fetcher, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		fetcher: fetcher,
		cache:   newGraphCache(cacheTTL),
		log:     log,
	}
}

// GraphStats reports the size of the graph a route was computed against.
type GraphStats struct {
	Nodes int
	Edges int
}

// Metrics carries the diagnostics fields of SPEC_FULL.md §6.
type Metrics struct {
	TotalWeight      float64
	NodeCount        int
	ProcessingTimeMS int64
	GraphStats       GraphStats
}

// Debug carries internal identifiers useful for support/debugging, never
// meant to be interpreted by callers.
type Debug struct {
	SourceNode      graph.NodeID
	DestinationNode graph.NodeID
}

// RouteResponse is the full response envelope for a successful route
// request (SPEC_FULL.md §6).
type RouteResponse struct {
	Path     []orb.Point
	Distance float64 // km, 3 decimals
	Duration int     // whole minutes
	Metrics  Metrics
	Debug    Debug
}

// CalculateRoute implements SPEC_FULL.md §4.5: validate, probe the cache,
// fetch+build on miss, search, and shape the response.
func (o *Orchestrator) CalculateRoute(ctx context.Context, source, dest orb.Point) (*RouteResponse, error) {
	start := time.Now()

	if err := validateEndpoints(source, dest); err != nil {
		return nil, err
	}

	g, err := o.graphFor(ctx, source, dest)
	if err != nil {
		return nil, err
	}

	result, err := routing.ShortestPath(g, source, dest)
	if err != nil {
		return nil, err
	}

	resp := &RouteResponse{
		Path:     result.Path,
		Distance: roundTo(result.DistanceKM, 3),
		Duration: result.DurationMinutes,
		Metrics: Metrics{
			TotalWeight:      roundTo(result.TotalWeight, 2),
			NodeCount:        len(result.NodePath),
			ProcessingTimeMS: time.Since(start).Milliseconds(),
			GraphStats: GraphStats{
				Nodes: g.NumNodes(),
				Edges: g.NumEdges(),
			},
		},
		Debug: Debug{
			SourceNode:      result.SourceNode,
			DestinationNode: result.DestNode,
		},
	}
	return resp, nil
}

// graphFor returns a routable graph covering source and dest, reusing a
// cached build when available (SPEC_FULL.md §4.5.2).
func (o *Orchestrator) graphFor(ctx context.Context, source, dest orb.Point) (*graph.Graph, error) {
	key := cacheKey(fetch.UnpaddedBBox(source, dest))

	if g, ok := o.cache.get(key); ok {
		o.log.Debug("graph cache hit", "key", key)
		return g, nil
	}

	o.log.Debug("graph cache miss", "key", key)
	ways, err := o.fetcher.Fetch(ctx, source, dest)
	if err != nil {
		return nil, err
	}

	g := graph.Build(ways)
	o.cache.put(key, g)
	return g, nil
}

// validateEndpoints implements SPEC_FULL.md §4.5.1.
func validateEndpoints(source, dest orb.Point) error {
	if !validLatLng(source) || !validLatLng(dest) {
		return routeerr.New(routeerr.InvalidCoordinates, "coordinates out of range")
	}
	if geo.DistanceKM(source, dest) < minEndpointDistanceKM {
		return routeerr.New(routeerr.InvalidCoordinates, "endpoints are too close to route meaningfully")
	}
	return nil
}

func validLatLng(p orb.Point) bool {
	lng, lat := p[0], p[1]
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
