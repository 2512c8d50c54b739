package graph

import "github.com/paulmach/orb"

// Way is a single road polyline as returned by the road-data fetcher: an
// ordered sequence of coordinates tagged with a road class and an optional
// display name (SPEC_FULL.md §3).
type Way struct {
	ID        int64
	Geometry  []orb.Point
	RoadClass string
	Name      string
}
