package vectorfield_test

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/krish-shahh/time-distortion-map/geomodel"
	"github.com/krish-shahh/time-distortion-map/vectorfield"
)

func uniformField(size int, vx, vy float64) *geomodel.Field {
	field := &geomodel.Field{
		Width:   size,
		Height:  size,
		Vectors: make([][]geomodel.Vector, size),
	}
	for y := range field.Vectors {
		field.Vectors[y] = make([]geomodel.Vector, size)
		for x := range field.Vectors[y] {
			field.Vectors[y][x] = geomodel.Vector{X: vx, Y: vy}
		}
	}
	return field
}

// Single seed at the field center, uniform (1,0) flow, step 0.1, length cap
// 1: exactly 10 points marching along +x.
func TestTraceUniformFlow(t *testing.T) {
	field := uniformField(20, 1, 0)
	bounds := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}

	lines := vectorfield.Trace(field, bounds,
		vectorfield.WithSeeds([]orb.Point{{5, 5}}),
		vectorfield.WithStepSize(0.1),
		vectorfield.WithLineLength(1),
	)

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if len(line) != 10 {
		t.Fatalf("expected exactly 10 points, got %d", len(line))
	}
	for i := 1; i < len(line); i++ {
		if line[i][0] <= line[i-1][0] {
			t.Fatalf("line should advance along +x: %v then %v", line[i-1], line[i])
		}
		if line[i][1] != 5 {
			t.Fatalf("line should stay at y=5, got %v", line[i])
		}
	}
}

func TestTraceStagnantFieldKeepsNothing(t *testing.T) {
	field := uniformField(20, 0, 0)
	bounds := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}

	lines := vectorfield.Trace(field, bounds)

	if len(lines) != 0 {
		t.Fatalf("stagnant field should keep no lines, got %d", len(lines))
	}
}

func TestTraceTerminatesAtBounds(t *testing.T) {
	field := uniformField(20, 1, 0)
	bounds := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}

	lines := vectorfield.Trace(field, bounds,
		vectorfield.WithSeeds([]orb.Point{{0.5, 0.5}}),
		vectorfield.WithStepSize(0.1),
	)

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	for _, p := range lines[0] {
		if !bounds.Contains(p) {
			t.Fatalf("point %v escaped bounds", p)
		}
	}
}

// Lines always terminate within maxSteps and never exceed the length cap by
// more than one step.
func TestTraceTerminationBudgets(t *testing.T) {
	field := uniformField(20, 1, 1)
	bounds := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}}

	const (
		step      = 0.1
		maxSteps  = 50
		lengthCap = 3.0
	)
	lines := vectorfield.Trace(field, bounds,
		vectorfield.WithStepSize(step),
		vectorfield.WithMaxSteps(maxSteps),
		vectorfield.WithLineLength(lengthCap),
	)

	if len(lines) == 0 {
		t.Fatal("expected some retained lines")
	}
	for _, line := range lines {
		if len(line) > maxSteps+1 {
			t.Fatalf("line of %d points exceeds maxSteps %d", len(line), maxSteps)
		}
		length := float64(len(line)-1) * step
		if length > lengthCap+step {
			t.Fatalf("line length %v exceeds cap %v + one step", length, lengthCap)
		}
	}
}

func TestTraceDefaultSeedLatticeDeterministic(t *testing.T) {
	field := uniformField(20, 0.3, -0.7)
	bounds := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}

	a := vectorfield.Trace(field, bounds)
	b := vectorfield.Trace(field, bounds)

	if len(a) != len(b) {
		t.Fatalf("nondeterministic line count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			t.Fatalf("line %d lengths differ", i)
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("line %d point %d differs: %v vs %v", i, j, a[i][j], b[i][j])
			}
		}
	}
}
