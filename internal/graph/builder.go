package graph

import (
	"math"

	"github.com/paulmach/orb"

	"osmroute/internal/geo"
)

// intersectionToleranceKM is the distance below which two raw coordinates
// are considered the same intersection (SPEC_FULL.md §3).
const intersectionToleranceKM = 0.001

// bucketSizeDeg sizes the latitude axis of the find-or-create spatial index
// so that the cell search in findOrCreate always covers
// intersectionToleranceKM in any direction. 1 degree of latitude is ~111km
// everywhere, so this bucket spans just over the tolerance (about 1.002m)
// regardless of where on Earth a padded bounding box sits.
const bucketSizeDeg = intersectionToleranceKM / 111.0

// minCosLat floors the cos(latitude) term used to size longitude buckets,
// so the bucket width stays finite near the poles instead of blowing up as
// cos(lat) -> 0.
const minCosLat = 0.01

type bucketKey struct {
	latIdx, lngIdx int64
}

// lngBucketSizeDeg returns the longitude bucket width, in degrees, whose
// real-world extent at latDeg matches bucketSizeDeg's real-world extent on
// the latitude axis. A degree of longitude only spans ~111km*cos(lat) km,
// shrinking to 0 at the poles, so the bucket must widen by 1/cos(lat) to
// keep covering the same physical distance as latitude moves away from the
// equator — without this, two points a real-world meter apart can fall into
// longitude buckets more than one cell apart.
func lngBucketSizeDeg(latDeg float64) float64 {
	cosLat := math.Cos(latDeg * math.Pi / 180)
	if cosLat < minCosLat {
		cosLat = minCosLat
	}
	return bucketSizeDeg / cosLat
}

func bucketFor(p orb.Point) bucketKey {
	return bucketKey{
		latIdx: int64(math.Floor(p[1] / bucketSizeDeg)),
		lngIdx: int64(math.Floor(p[0] / lngBucketSizeDeg(p[1]))),
	}
}

// nodeIndex is the find-or-create spatial index substituted for the linear
// scan of SPEC_FULL.md §4.3.1: expected-linear over the whole ingestion
// batch instead of quadratic, producing a graph identical up to node-id
// renaming to the naive scan.
type nodeIndex struct {
	g       *Graph
	buckets map[bucketKey][]NodeID
	nextID  NodeID
}

func newNodeIndex(g *Graph) *nodeIndex {
	return &nodeIndex{g: g, buckets: make(map[bucketKey][]NodeID), nextID: 1}
}

func (idx *nodeIndex) findOrCreate(p orb.Point) NodeID {
	center := bucketFor(p)

	best := NodeID(0)
	bestDist := math.Inf(1)
	found := false

	// Each node's longitude cell is sized by its own latitude, so a node
	// within tolerance can sit more than one longitude cell away from p's.
	// Scan the longitude cells spanned by the corners of the tolerance box.
	latTol, lngTol := bucketSizeDeg, lngBucketSizeDeg(p[1])
	loLng, hiLng := center.lngIdx, center.lngIdx
	for _, c := range []orb.Point{
		{p[0] - lngTol, p[1] - latTol}, {p[0] - lngTol, p[1] + latTol},
		{p[0] + lngTol, p[1] - latTol}, {p[0] + lngTol, p[1] + latTol},
	} {
		k := bucketFor(c).lngIdx
		loLng, hiLng = min(loLng, k), max(hiLng, k)
	}

	for dLat := int64(-1); dLat <= 1; dLat++ {
		for lng := loLng; lng <= hiLng; lng++ {
			key := bucketKey{center.latIdx + dLat, lng}
			for _, id := range idx.buckets[key] {
				d := geo.DistanceKM(p, idx.g.Nodes[id].Point)
				if d < intersectionToleranceKM && (!found || d < bestDist) {
					best, bestDist, found = id, d, true
				}
			}
		}
	}

	if found {
		return best
	}

	id := idx.nextID
	idx.nextID++
	idx.g.addNode(id, p)
	idx.buckets[center] = append(idx.buckets[center], id)
	return id
}

// Build consumes the way list and produces a fresh, merged, deduplicated
// routable graph (SPEC_FULL.md §4.3). It is pure with respect to its input.
func Build(ways []Way) *Graph {
	g := New()
	idx := newNodeIndex(g)
	var nextEdgeID EdgeID = 1

	for _, w := range ways {
		if len(w.Geometry) < 2 {
			continue
		}

		prev, havePrev := NodeID(0), false
		for _, p := range w.Geometry {
			cur := idx.findOrCreate(p)
			if havePrev {
				addSegment(g, &nextEdgeID, prev, cur, w.RoadClass, w.Name)
			}
			prev, havePrev = cur, true
		}
	}

	mergeIntersections(g)
	dedupe(g)
	return g
}

// addSegment materializes an undirected road segment as two directed edges.
// Segments where snapping collapsed both endpoints onto the same node are
// skipped silently, per SPEC_FULL.md §4.3.1 — this is a builder-contract
// filter, not an error.
func addSegment(g *Graph, nextEdgeID *EdgeID, from, to NodeID, class, name string) {
	if from == to {
		return
	}
	dist := geo.DistanceKM(g.Nodes[from].Point, g.Nodes[to].Point)
	weight := dist * WeightMultiplier(class)
	addEdge(g, nextEdgeID, from, to, dist, weight, class, name)
	addEdge(g, nextEdgeID, to, from, dist, weight, class, name)
}

func addEdge(g *Graph, nextEdgeID *EdgeID, from, to NodeID, dist, weight float64, class, name string) {
	id := *nextEdgeID
	*nextEdgeID++
	e := &Edge{ID: id, From: from, To: to, Distance: dist, RoadClass: class, Weight: weight, RoadName: name}
	g.Edges[id] = e
	g.Nodes[from].Edges = append(g.Nodes[from].Edges, id)
}
