// Package graph builds a weighted, directed, map-keyed routable graph from
// a list of tagged road polylines. Unlike a graph meant to be built once and
// queried many times, this graph is rebuilt from scratch for every request
// (see SPEC_FULL.md §4.3), so it is stored as plain Go maps rather than the
// CSR arrays a long-lived index would use.
package graph

import "github.com/paulmach/orb"

// NodeID identifies a vertex in the routable graph. Assigned sequentially
// during ingestion; a merged cluster keeps the ID of its first member.
type NodeID uint64

// EdgeID identifies a directed edge.
type EdgeID uint64

// Node is a vertex: an intersection or a road endpoint.
type Node struct {
	ID    NodeID
	Point orb.Point
	Edges []EdgeID // outgoing edges
}

// Edge is a directed road segment.
type Edge struct {
	ID        EdgeID
	From, To  NodeID
	Distance  float64 // km, great-circle
	RoadClass string
	Weight    float64 // Distance * class multiplier
	RoadName  string
}

// Graph is the conjunction of a node table and an edge table. It satisfies
// the invariants in SPEC_FULL.md §3: every edge's endpoints exist and are
// distinct, every edge is indexed from its source node, and no two edges
// share an ordered (from, to) pair.
type Graph struct {
	Nodes map[NodeID]*Node
	Edges map[EdgeID]*Edge

	// order records node insertion order (survivors keep their relative
	// position after the merge pass). nearest-node lookups scan this order
	// so that tie-breaking is deterministic and reproducible.
	order []NodeID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		Nodes: make(map[NodeID]*Node),
		Edges: make(map[EdgeID]*Edge),
	}
}

// OrderedNodeIDs returns node IDs in first-seen insertion order.
func (g *Graph) OrderedNodeIDs() []NodeID {
	return g.order
}

// Point returns the coordinate of a node.
func (g *Graph) Point(id NodeID) orb.Point {
	return g.Nodes[id].Point
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int { return len(g.Nodes) }

// NumEdges returns the number of edges in the graph.
func (g *Graph) NumEdges() int { return len(g.Edges) }

// EdgeBetween returns the first edge found from u to v, if any. Used by the
// time-estimate step (SPEC_FULL.md §4.4.4) to look up the class of the edge
// actually traversed between two consecutive path nodes.
func (g *Graph) EdgeBetween(u, v NodeID) (*Edge, bool) {
	node, ok := g.Nodes[u]
	if !ok {
		return nil, false
	}
	for _, eid := range node.Edges {
		e := g.Edges[eid]
		if e != nil && e.To == v {
			return e, true
		}
	}
	return nil, false
}

func (g *Graph) addNode(id NodeID, p orb.Point) *Node {
	n := &Node{ID: id, Point: p}
	g.Nodes[id] = n
	g.order = append(g.order, id)
	return n
}
