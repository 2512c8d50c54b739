// Package routing implements the shortest-path engine: endpoint snapping,
// single-source Dijkstra weighted by road class, path reconstruction, and
// output shaping into a caller-facing coordinate polyline with a time
// estimate (SPEC_FULL.md §4.4).
package routing

import (
	"math"

	"github.com/paulmach/orb"

	"osmroute/internal/geo"
	"osmroute/internal/graph"
	"osmroute/internal/routeerr"
)

// RouteResult is the output of a single shortest-path search.
type RouteResult struct {
	Path            []orb.Point
	DistanceKM      float64
	DurationMinutes int
	TotalWeight     float64
	SourceNode      graph.NodeID
	DestNode        graph.NodeID
	NodePath        []graph.NodeID
}

// ShortestPath runs the search described in SPEC_FULL.md §4.4 over g
// between sourceCoord and destCoord, which need not lie exactly on the
// graph (the usual case: a caller's click is off-road).
func ShortestPath(g *graph.Graph, sourceCoord, destCoord orb.Point) (*RouteResult, error) {
	sourceNode, ok := nearestNode(g, sourceCoord)
	if !ok {
		return nil, routeerr.New(routeerr.NoNearbyIntersection, "no node near source")
	}
	destNode, ok := nearestNode(g, destCoord)
	if !ok {
		return nil, routeerr.New(routeerr.NoNearbyIntersection, "no node near destination")
	}

	dist, prev, totalWeight, err := dijkstra(g, sourceNode, destNode)
	if err != nil {
		return nil, err
	}
	if dist == math.Inf(1) {
		return nil, routeerr.New(routeerr.Unreachable, "destination not reachable from source")
	}

	nodePath, err := reconstructPath(sourceNode, destNode, prev)
	if err != nil {
		return nil, err
	}

	path := buildPolyline(g, sourceCoord, destCoord, nodePath)
	distanceKM := polylineDistanceKM(path)
	duration := estimateDurationMinutes(g, nodePath)

	return &RouteResult{
		Path:            path,
		DistanceKM:      distanceKM,
		DurationMinutes: duration,
		TotalWeight:     totalWeight,
		SourceNode:      sourceNode,
		DestNode:        destNode,
		NodePath:        nodePath,
	}, nil
}

// nearestNode implements SPEC_FULL.md §4.4.1 / §4.1's nearest_node: a
// linear scan over the graph's nodes in first-seen insertion order, ties
// broken by whichever is seen first.
func nearestNode(g *graph.Graph, target orb.Point) (graph.NodeID, bool) {
	ids := g.OrderedNodeIDs()
	if len(ids) == 0 {
		return 0, false
	}
	points := make([]orb.Point, len(ids))
	for i, id := range ids {
		points[i] = g.Point(id)
	}
	idx, ok := geo.NearestIndex(points, target)
	if !ok {
		return 0, false
	}
	return ids[idx], true
}

// dijkstra runs single-source Dijkstra from source, early-terminating when
// dest is finalized. Returns the finalized distance to dest (+Inf if
// unreachable), the predecessor map, and the finalized distance (duplicated
// as totalWeight for §4.4.4's diagnostics field).
func dijkstra(g *graph.Graph, source, dest graph.NodeID) (float64, map[graph.NodeID]graph.NodeID, float64, error) {
	dist := map[graph.NodeID]float64{source: 0}
	prev := make(map[graph.NodeID]graph.NodeID)
	finalized := make(map[graph.NodeID]bool)

	var pq minHeap
	pq.Push(source, 0)

	maxExtractions := 2 * g.NumNodes()
	if maxExtractions == 0 {
		maxExtractions = 1
	}
	extractions := 0

	for pq.Len() > 0 {
		item := pq.Pop()
		u := item.node

		if finalized[u] {
			continue
		}
		// Stale heap entry: a cheaper relaxation has already been processed.
		if item.dist > dist[u] {
			continue
		}

		extractions++
		if extractions > maxExtractions {
			return 0, nil, 0, routeerr.New(routeerr.SearchAborted, "node extraction limit exceeded")
		}

		finalized[u] = true
		if u == dest {
			return dist[u], prev, dist[u], nil
		}

		node := g.Nodes[u]
		for _, eid := range node.Edges {
			e := g.Edges[eid]
			if finalized[e.To] {
				continue
			}
			newDist := dist[u] + e.Weight
			if d, ok := dist[e.To]; !ok || newDist < d {
				dist[e.To] = newDist
				prev[e.To] = u
				pq.Push(e.To, newDist)
			}
		}
	}

	return math.Inf(1), prev, 0, nil
}

// reconstructPath walks prev from dest back to source, per §4.4.3.
func reconstructPath(source, dest graph.NodeID, prev map[graph.NodeID]graph.NodeID) ([]graph.NodeID, error) {
	path := []graph.NodeID{dest}
	node := dest
	for node != source {
		p, ok := prev[node]
		if !ok {
			break
		}
		path = append(path, p)
		node = p
	}

	// Reverse into source -> dest order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	if len(path) == 0 || path[0] != source || path[len(path)-1] != dest {
		return nil, routeerr.New(routeerr.ReconstructionFailed, "path does not span source to destination")
	}
	return path, nil
}

// buildPolyline implements §4.4.4's output shaping: the caller's original
// endpoints replace the first and last node coordinates.
func buildPolyline(g *graph.Graph, sourceCoord, destCoord orb.Point, nodePath []graph.NodeID) []orb.Point {
	path := make([]orb.Point, 0, len(nodePath))
	path = append(path, sourceCoord)
	if len(nodePath) > 1 {
		for _, id := range nodePath[1 : len(nodePath)-1] {
			path = append(path, g.Point(id))
		}
	}
	path = append(path, destCoord)
	return path
}

func polylineDistanceKM(path []orb.Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += geo.DistanceKM(path[i], path[i+1])
	}
	return total
}

// estimateDurationMinutes sums edge.distance/speed(edge.class) over
// consecutive node-path pairs, falling back to a recomputed distance over
// the default speed when no edge is found between two consecutive nodes
// (should be unreachable on a well-formed path; §9's documented defensive
// fallback).
func estimateDurationMinutes(g *graph.Graph, nodePath []graph.NodeID) int {
	hours := 0.0
	for i := 0; i+1 < len(nodePath); i++ {
		u, v := nodePath[i], nodePath[i+1]
		if e, ok := g.EdgeBetween(u, v); ok {
			hours += e.Distance / graph.SpeedKMH(e.RoadClass)
			continue
		}
		d := geo.DistanceKM(g.Point(u), g.Point(v))
		hours += d / graph.SpeedKMH("default")
	}
	return int(math.Round(hours * 60))
}
