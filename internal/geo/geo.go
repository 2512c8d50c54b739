// Package geo provides the great-circle distance and nearest-point lookup
// primitives the rest of the routing core is built on.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKM is the mean Earth radius used for the Haversine formula.
const EarthRadiusKM = 6371.0

// DistanceKM returns the great-circle distance between two points in
// kilometers. Points are orb.Point ([lng, lat]) in decimal degrees.
func DistanceKM(a, b orb.Point) float64 {
	lat1 := a[1] * math.Pi / 180
	lat2 := b[1] * math.Pi / 180
	dLat := (b[1] - a[1]) * math.Pi / 180
	dLng := (b[0] - a[0]) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)
	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKM * c
}

// NearestIndex returns the index into points minimizing DistanceKM to target.
// Ties are broken by first-seen order: a later point must be strictly closer
// to displace the current best. Returns ok=false only if points is empty.
func NearestIndex(points []orb.Point, target orb.Point) (idx int, ok bool) {
	best := math.Inf(1)
	found := false
	for i, p := range points {
		d := DistanceKM(target, p)
		if !found || d < best {
			best = d
			idx = i
			found = true
		}
	}
	return idx, found
}
