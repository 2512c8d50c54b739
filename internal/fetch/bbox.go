package fetch

import (
	"math"

	"github.com/paulmach/orb"
)

// BBoxPaddingDeg is the fixed padding applied to a two-endpoint bounding
// box (SPEC_FULL.md §3).
const BBoxPaddingDeg = 0.01

// BBox is a geographic bounding box (south, west, north, east).
type BBox struct {
	South, West, North, East float64
}

// PaddedBBox computes the component-wise min/max bounding box of two
// endpoints, padded by BBoxPaddingDeg on each side.
func PaddedBBox(a, b orb.Point) BBox {
	south := math.Min(a[1], b[1]) - BBoxPaddingDeg
	north := math.Max(a[1], b[1]) + BBoxPaddingDeg
	west := math.Min(a[0], b[0]) - BBoxPaddingDeg
	east := math.Max(a[0], b[0]) + BBoxPaddingDeg
	return BBox{South: south, West: west, North: north, East: east}
}

// UnpaddedBBox computes the component-wise min/max bounding box of two
// endpoints without padding — used for the cache key (SPEC_FULL.md §4.5.2).
func UnpaddedBBox(a, b orb.Point) BBox {
	return BBox{
		South: math.Min(a[1], b[1]),
		West:  math.Min(a[0], b[0]),
		North: math.Max(a[1], b[1]),
		East:  math.Max(a[0], b[0]),
	}
}
