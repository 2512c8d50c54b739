package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestDistanceKM(t *testing.T) {
	tests := []struct {
		name             string
		a, b             orb.Point
		wantKM           float64
		tolerancePercent float64
	}{
		{
			name:             "Raffles Place to Changi Airport",
			a:                orb.Point{103.8513, 1.2830},
			b:                orb.Point{103.9915, 1.3644},
			wantKM:           18.023,
			tolerancePercent: 1,
		},
		{
			name:             "identical points",
			a:                orb.Point{103.8198, 1.3521},
			b:                orb.Point{103.8198, 1.3521},
			wantKM:           0,
			tolerancePercent: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKM(tt.a, tt.b)
			tol := tt.wantKM * tt.tolerancePercent / 100
			if math.Abs(got-tt.wantKM) > tol+1e-9 {
				t.Errorf("DistanceKM() = %v, want %v (±%v)", got, tt.wantKM, tol)
			}
		})
	}
}

func TestDistanceKMSymmetric(t *testing.T) {
	a := orb.Point{103.8513, 1.2830}
	b := orb.Point{103.9915, 1.3644}
	if DistanceKM(a, b) != DistanceKM(b, a) {
		t.Errorf("DistanceKM is not symmetric")
	}
}

func TestNearestIndex(t *testing.T) {
	points := []orb.Point{
		{0.000, 0.000},
		{0.000, 0.001},
		{0.000, 0.002},
	}

	idx, ok := NearestIndex(points, orb.Point{0.0, 0.0011})
	if !ok {
		t.Fatalf("NearestIndex returned ok=false")
	}
	if idx != 1 {
		t.Errorf("NearestIndex() = %d, want 1", idx)
	}
}

func TestNearestIndexTieBreaksFirstSeen(t *testing.T) {
	// Two points equidistant from target; the first-seen one must win.
	points := []orb.Point{
		{0.000, 0.000},
		{0.000, 0.002},
	}
	idx, ok := NearestIndex(points, orb.Point{0.0, 0.001})
	if !ok {
		t.Fatalf("NearestIndex returned ok=false")
	}
	if idx != 0 {
		t.Errorf("NearestIndex() = %d, want 0 (first-seen tie-break)", idx)
	}
}

func TestNearestIndexEmpty(t *testing.T) {
	_, ok := NearestIndex(nil, orb.Point{0, 0})
	if ok {
		t.Errorf("NearestIndex() on empty slice should return ok=false")
	}
}
