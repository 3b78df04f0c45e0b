package tessellate_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/krish-shahh/time-distortion-map/tessellate"
)

func ringArea(ring orb.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}
	closed := make(orb.Ring, len(ring), len(ring)+1)
	copy(closed, ring)
	closed = append(closed, closed[0])
	return math.Abs(planar.Area(closed))
}

// Four corner sites of the unit square: four quarter cells tiling the
// rectangle exactly.
func TestVoronoiUnitSquareCorners(t *testing.T) {
	points := []orb.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

	cells := tessellate.Voronoi(points, 1, 1)

	if len(cells) != len(points) {
		t.Fatalf("expected %d cells, got %d", len(points), len(cells))
	}
	total := 0.0
	for i, cell := range cells {
		if len(cell) < 3 {
			t.Fatalf("cell %d is empty", i)
		}
		area := ringArea(cell)
		if math.Abs(area-0.25) > 1e-9 {
			t.Fatalf("cell %d area %v, expected 0.25", i, area)
		}
		total += area
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Fatalf("cells cover %v, expected the full unit square", total)
	}
}

func TestVoronoiSinglePoint(t *testing.T) {
	cells := tessellate.Voronoi([]orb.Point{{3, 4}}, 10, 5)

	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if area := ringArea(cells[0]); math.Abs(area-50) > 1e-9 {
		t.Fatalf("single cell should cover the rectangle, area %v", area)
	}
}

// Two sites fall back to the all-pairs bisector: the rectangle splits down
// the middle.
func TestVoronoiTwoPoints(t *testing.T) {
	points := []orb.Point{{0.25, 0.5}, {0.75, 0.5}}

	cells := tessellate.Voronoi(points, 1, 1)

	for i, cell := range cells {
		if area := ringArea(cell); math.Abs(area-0.5) > 1e-9 {
			t.Fatalf("cell %d area %v, expected 0.5", i, area)
		}
	}
	for _, p := range cells[0] {
		if p[0] > 0.5+1e-9 {
			t.Fatalf("left cell crosses the bisector at %v", p)
		}
	}
}

func TestVoronoiCollinearSites(t *testing.T) {
	points := []orb.Point{{0.2, 0.5}, {0.5, 0.5}, {0.8, 0.5}}

	cells := tessellate.Voronoi(points, 1, 1)

	total := 0.0
	for i, cell := range cells {
		if len(cell) < 3 {
			t.Fatalf("collinear site %d lost its cell", i)
		}
		total += ringArea(cell)
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Fatalf("collinear cells cover %v, expected 1.0", total)
	}
}

func TestVoronoiTilesClipRectangle(t *testing.T) {
	points := []orb.Point{
		{1.2, 0.8}, {3.7, 2.1}, {0.4, 2.9}, {2.5, 0.3},
		{3.1, 3.6}, {1.9, 2.4}, {0.7, 1.1},
	}

	cells := tessellate.Voronoi(points, 4, 4)

	total := 0.0
	for _, cell := range cells {
		total += ringArea(cell)
	}
	if math.Abs(total-16.0) > 1e-6 {
		t.Fatalf("cells cover %v, expected the 4x4 rectangle", total)
	}
}

// Coincident sites: only the first of the pair keeps a cell.
func TestVoronoiDuplicateSites(t *testing.T) {
	points := []orb.Point{{0.5, 0.5}, {0.5, 0.5}, {0.1, 0.1}}

	cells := tessellate.Voronoi(points, 1, 1)

	if len(cells[0]) < 3 {
		t.Fatal("first coincident site should keep its cell")
	}
	if len(cells[1]) != 0 {
		t.Fatalf("duplicate site should get an empty ring, got %d points", len(cells[1]))
	}
}

func TestVoronoiEmptyInput(t *testing.T) {
	if cells := tessellate.Voronoi(nil, 1, 1); len(cells) != 0 {
		t.Fatalf("expected no cells, got %d", len(cells))
	}
}
