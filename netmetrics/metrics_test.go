package netmetrics_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/krish-shahh/time-distortion-map/geomodel"
	"github.com/krish-shahh/time-distortion-map/netmetrics"
)

func timedPoint(x, y, travelTime float64) geomodel.GridPoint {
	return geomodel.GridPoint{
		Point:      orb.Point{x, y},
		Original:   orb.Point{x, y},
		TravelTime: travelTime,
	}
}

// Hub-and-spoke matrix: the hub reaches everyone under the threshold, the
// spokes only the hub. Centrality normalizes against the hub.
func TestComputeConnectivityCentrality(t *testing.T) {
	points := []geomodel.GridPoint{
		timedPoint(0, 0, 0),
		timedPoint(1, 0, 10),
		timedPoint(0, 1, 10),
	}
	times := geomodel.TimeMatrix{
		{0, 10, 10},
		{10, 0, 30},
		{10, 30, 0},
	}

	m := netmetrics.Compute(points, points, times)

	wantConn := []int{2, 1, 1}
	wantCent := []float64{1, 0.5, 0.5}
	for i := range points {
		if m.Connectivity[i] != wantConn[i] {
			t.Fatalf("connectivity[%d] = %d, expected %d", i, m.Connectivity[i], wantConn[i])
		}
		if m.Centrality[i] != wantCent[i] {
			t.Fatalf("centrality[%d] = %v, expected %v", i, m.Centrality[i], wantCent[i])
		}
	}
}

func TestComputeIsolatedNetwork(t *testing.T) {
	points := []geomodel.GridPoint{
		timedPoint(0, 0, 0),
		timedPoint(1, 0, 60),
	}
	times := geomodel.TimeMatrix{
		{0, 60},
		{60, 0},
	}

	m := netmetrics.Compute(points, points, times)

	for i := range points {
		if m.Connectivity[i] != 0 {
			t.Fatalf("connectivity[%d] = %d, expected 0", i, m.Connectivity[i])
		}
		if m.Centrality[i] != 0 {
			t.Fatalf("centrality[%d] = %v, expected 0 not NaN", i, m.Centrality[i])
		}
	}
}

func TestComputeMaxDistortionAverageTime(t *testing.T) {
	original := []geomodel.GridPoint{
		timedPoint(0, 0, 0),
		timedPoint(1, 0, 0),
	}
	distorted := []geomodel.GridPoint{
		{Point: orb.Point{0, 0}, Original: orb.Point{0, 0}, TravelTime: 10},
		{Point: orb.Point{4, 4}, Original: orb.Point{1, 0}, TravelTime: 30},
	}
	times := geomodel.TimeMatrix{
		{0, 20},
		{20, 0},
	}

	m := netmetrics.Compute(original, distorted, times)

	want := math.Hypot(3, 4)
	if math.Abs(m.MaxDistortion-want) > 1e-9 {
		t.Fatalf("max distortion %v, expected %v", m.MaxDistortion, want)
	}
	if m.AverageTime != 20 {
		t.Fatalf("average time %v, expected 20", m.AverageTime)
	}
}

func TestComputeMismatchedInputsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched input lengths")
		}
	}()

	points := []geomodel.GridPoint{timedPoint(0, 0, 0)}
	netmetrics.Compute(points, points, geomodel.TimeMatrix{{0, 1}, {1, 0}})
}

// Raising the threshold admits more points, so coverage never shrinks.
func TestCoverageAreaMonotonic(t *testing.T) {
	points := []geomodel.GridPoint{
		timedPoint(0, 0, 5),
		timedPoint(2, 0, 5),
		timedPoint(0, 2, 5),
		timedPoint(4, 4, 25),
	}

	small := netmetrics.CoverageArea(points, 10, netmetrics.WithArea(netmetrics.PlanarArea))
	large := netmetrics.CoverageArea(points, 30, netmetrics.WithArea(netmetrics.PlanarArea))

	if math.Abs(small-2) > 1e-9 {
		t.Fatalf("coverage at 10 minutes %v, expected the 2.0 triangle", small)
	}
	if large <= small {
		t.Fatalf("coverage at 30 minutes %v should exceed %v", large, small)
	}
}

func TestCoverageAreaTooFewPoints(t *testing.T) {
	points := []geomodel.GridPoint{
		timedPoint(0, 0, 5),
		timedPoint(1, 0, 5),
		timedPoint(0, 1, 50),
	}

	if area := netmetrics.CoverageArea(points, 10); area != 0 {
		t.Fatalf("2 reachable points should cover 0, got %v", area)
	}
}
