package geomodel

import (
	"github.com/paulmach/orb"
)

// Unit conversions shared by the whole engine. Coordinates are opaque 2D
// vectors; when a component needs real-world units these are the factors.
const (
	MetersPerMile     = 1609.344
	SqMilesPerSqMeter = 3.861e-7

	// DegreesPerMile is a flat-earth approximation, good enough for regions
	// a few dozen miles across.
	DegreesPerMile = 1.0 / 69.0

	// DefaultSpeedMPH approximates travel time from straight-line distance.
	DefaultSpeedMPH = 30.0
)

// GridPoint is one sample site of the accessibility grid. Original holds the
// pre-distortion position, set once at creation and never mutated afterward.
type GridPoint struct {
	ID         string    `json:"id"`
	Point      orb.Point `json:"coordinates"`
	Original   orb.Point `json:"original_coordinates"`
	TravelTime float64   `json:"travel_time,omitempty"` // minutes
}

// Displacement returns the distortion offset, distorted minus original.
func (p GridPoint) Displacement() Vector {
	return Vector{
		X: p.Point[0] - p.Original[0],
		Y: p.Point[1] - p.Original[1],
	}
}

// TimeMatrix is a square matrix of pairwise travel times in minutes.
// Invariants: non-negative entries, zero diagonal, M[i][j] == M[j][i].
type TimeMatrix [][]float64

func (m TimeMatrix) Size() int { return len(m) }

// Row returns the travel times from point i to every other point.
func (m TimeMatrix) Row(i int) []float64 { return m[i] }

// Vector is a 2D displacement.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Field is a regular grid of interpolated distortion vectors. Grid positions
// are normalized to [0,1]x[0,1] over the source point bound.
type Field struct {
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Vectors [][]Vector `json:"vectors"` // [y][x]
}

// At returns the vector at cell (x, y). Panics on out-of-range indices, an
// index outside the declared grid is a caller bug, not bad input data.
func (f *Field) At(x, y int) Vector {
	if y < 0 || y >= f.Height || x < 0 || x >= f.Width {
		panic("geomodel: field index out of bounds")
	}
	return f.Vectors[y][x]
}

// Streamline is an ordered path traced through a Field. Retained lines always
// have at least two points.
type Streamline []orb.Point

// IsochroneBand is the accessibility polygon for one time threshold. An empty
// ring signals the band was not computable for that threshold.
type IsochroneBand struct {
	Threshold float64  `json:"threshold"` // minutes
	Ring      orb.Ring `json:"coordinates"`
}

// HeatPoint is a classified heatmap sample.
type HeatPoint struct {
	Point     orb.Point `json:"coordinates"`
	Value     float64   `json:"value"`
	Intensity float64   `json:"intensity"` // normalized to [0,1]
}

// Metrics aggregates connectivity and distortion statistics over a point set.
type Metrics struct {
	Connectivity  []int     `json:"connectivity"`
	Centrality    []float64 `json:"centrality"`
	CoverageArea  float64   `json:"coverage_area_sq_miles"`
	MaxDistortion float64   `json:"max_distortion"`
	AverageTime   float64   `json:"average_time"`
}
