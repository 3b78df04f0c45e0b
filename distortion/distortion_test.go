package distortion_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/krish-shahh/time-distortion-map/distortion"
	"github.com/krish-shahh/time-distortion-map/geomodel"
	"github.com/krish-shahh/time-distortion-map/traveltime"
)

func gridPoints(coords ...orb.Point) []geomodel.GridPoint {
	points := make([]geomodel.GridPoint, len(coords))
	for i, c := range coords {
		points[i] = geomodel.GridPoint{Point: c, Original: c}
	}
	return points
}

func displacement(p geomodel.GridPoint) float64 {
	v := p.Displacement()
	return math.Hypot(v.X, v.Y)
}

// Doubling the factor must exactly double every displacement length.
func TestHeuristicFactorLinearity(t *testing.T) {
	points := gridPoints(
		orb.Point{0, 0},
		orb.Point{3, 0},
		orb.Point{0, 4},
		orb.Point{2, 2},
	)
	times := traveltime.Matrix(points, traveltime.WithDistance(traveltime.Planar))

	once := distortion.Distort(points, times, distortion.WithFactor(1))
	twice := distortion.Distort(points, times, distortion.WithFactor(2))

	for i := range points {
		d1 := displacement(once[i])
		d2 := displacement(twice[i])
		if math.Abs(d2-2*d1) > 1e-9 {
			t.Fatalf("point %d: factor 2 displacement %v, expected exactly 2x %v", i, d2, d1)
		}
	}
}

func TestHeuristicPopulatesTravelTime(t *testing.T) {
	points := gridPoints(orb.Point{0, 0}, orb.Point{1, 0})
	times := geomodel.TimeMatrix{{0, 10}, {10, 0}}

	out := distortion.Distort(points, times)

	if out[0].TravelTime != 5 || out[1].TravelTime != 5 {
		t.Fatalf("expected row means 5, got %v and %v", out[0].TravelTime, out[1].TravelTime)
	}
}

func TestHeuristicPreservesOriginals(t *testing.T) {
	points := gridPoints(orb.Point{0, 0}, orb.Point{1, 1})
	times := geomodel.TimeMatrix{{0, 30}, {30, 0}}

	out := distortion.Distort(points, times, distortion.WithFactor(3))

	for i := range points {
		if out[i].Original != points[i].Original {
			t.Fatalf("point %d original mutated: %v", i, out[i].Original)
		}
		if points[i].Point != points[i].Original {
			t.Fatalf("input slice mutated at %d", i)
		}
	}
}

// A single point has no defined direction; it must displace along +x.
func TestHeuristicSinglePoint(t *testing.T) {
	points := gridPoints(orb.Point{5, 5})
	times := geomodel.TimeMatrix{{0}}

	out := distortion.Distort(points, times)

	if out[0].Point[1] != 5 {
		t.Fatalf("single point should not move in y, got %v", out[0].Point)
	}
}

func TestDistortMismatchedInputsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched matrix dimension")
		}
	}()

	points := gridPoints(orb.Point{0, 0}, orb.Point{1, 0})
	distortion.Distort(points, geomodel.TimeMatrix{{0}})
}

func TestDistortDeterministic(t *testing.T) {
	points := gridPoints(
		orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{0, 1},
		orb.Point{2, 3}, orb.Point{4, 1}, orb.Point{3, 3},
	)
	times := traveltime.Matrix(points, traveltime.WithDistance(traveltime.Planar))

	a := distortion.Distort(points, times, distortion.WithThreads(4))
	b := distortion.Distort(points, times, distortion.WithThreads(4))

	for i := range a {
		if a[i].Point != b[i].Point {
			t.Fatalf("nondeterministic result at %d: %v != %v", i, a[i].Point, b[i].Point)
		}
	}
}
