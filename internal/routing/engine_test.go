package routing

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"osmroute/internal/graph"
	"osmroute/internal/routeerr"
)

func TestShortestPathTrivialTwoWay(t *testing.T) {
	g := graph.Build([]graph.Way{
		{RoadClass: "residential", Geometry: []orb.Point{{0.000, 0.000}, {0.001, 0.000}}},
	})

	res, err := ShortestPath(g, orb.Point{0.000, 0.000}, orb.Point{0.001, 0.000})
	if err != nil {
		t.Fatalf("ShortestPath() error = %v", err)
	}
	if len(res.Path) != 2 {
		t.Fatalf("len(Path) = %d, want 2", len(res.Path))
	}
	if math.Abs(res.DistanceKM-0.1112) > 0.001 {
		t.Errorf("DistanceKM = %v, want ~0.1112", res.DistanceKM)
	}
	if res.DurationMinutes != 0 {
		t.Errorf("DurationMinutes = %d, want 0", res.DurationMinutes)
	}
}

func TestShortestPathPrefersClassOverDistance(t *testing.T) {
	// Path A: one residential edge, ~1km, weight 3.0.
	// Path B: two motorway edges totaling ~1.87km, weight ~1.87.
	// A shares endpoints with B via a common source/dest pair but a
	// different midpoint, so they are alternative routes.
	ways := []graph.Way{
		{RoadClass: "residential", Geometry: []orb.Point{{0.0, 0.0}, {0.009, 0.0}}},
		{RoadClass: "motorway", Geometry: []orb.Point{{0.0, 0.0}, {0.0, 0.006}}},
		{RoadClass: "motorway", Geometry: []orb.Point{{0.0, 0.006}, {0.009, 0.0}}},
	}
	g := graph.Build(ways)

	res, err := ShortestPath(g, orb.Point{0.0, 0.0}, orb.Point{0.009, 0.0})
	if err != nil {
		t.Fatalf("ShortestPath() error = %v", err)
	}
	if len(res.NodePath) != 3 {
		t.Fatalf("expected the 2-hop motorway path to win, got node path of length %d", len(res.NodePath))
	}
}

func TestShortestPathDisconnected(t *testing.T) {
	ways := []graph.Way{
		{RoadClass: "residential", Geometry: []orb.Point{{0.0, 0.0}, {0.0, 0.01}}},
		{RoadClass: "residential", Geometry: []orb.Point{{5.0, 5.0}, {5.0, 5.01}}},
	}
	g := graph.Build(ways)

	_, err := ShortestPath(g, orb.Point{0.0, 0.0}, orb.Point{5.0, 5.0})
	if !routeerr.Is(err, routeerr.Unreachable) {
		t.Fatalf("expected Unreachable, got %v", err)
	}
}

func TestShortestPathEndpointSnapping(t *testing.T) {
	ways := []graph.Way{
		{RoadClass: "residential", Geometry: []orb.Point{{0.0, 0.0}, {0.0, 0.01}}},
	}
	g := graph.Build(ways)

	source := orb.Point{0.0001, 0.0001}
	dest := orb.Point{0.0, 0.01}
	res, err := ShortestPath(g, source, dest)
	if err != nil {
		t.Fatalf("ShortestPath() error = %v", err)
	}
	if res.Path[0] != source {
		t.Errorf("Path[0] = %v, want caller's original source %v", res.Path[0], source)
	}
	if res.Path[len(res.Path)-1] != dest {
		t.Errorf("Path[-1] = %v, want caller's original destination %v", res.Path[len(res.Path)-1], dest)
	}
}

func TestShortestPathNoNearbyIntersectionOnEmptyGraph(t *testing.T) {
	g := graph.New()
	_, err := ShortestPath(g, orb.Point{0, 0}, orb.Point{1, 1})
	if !routeerr.Is(err, routeerr.NoNearbyIntersection) {
		t.Fatalf("expected NoNearbyIntersection, got %v", err)
	}
}

func TestShortestPathSameNode(t *testing.T) {
	ways := []graph.Way{
		{RoadClass: "residential", Geometry: []orb.Point{{0.0, 0.0}, {0.0, 0.01}}},
	}
	g := graph.Build(ways)

	source := orb.Point{0.00001, 0.00001}
	dest := orb.Point{0.00002, 0.00002}
	res, err := ShortestPath(g, source, dest)
	if err != nil {
		t.Fatalf("ShortestPath() error = %v", err)
	}
	if len(res.Path) != 2 {
		t.Fatalf("len(Path) = %d, want 2 when both endpoints snap to the same node", len(res.Path))
	}
	if res.DurationMinutes < 0 {
		t.Errorf("DurationMinutes = %d, want >= 0", res.DurationMinutes)
	}
}
