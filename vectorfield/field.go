// Package vectorfield interpolates per-point distortion vectors onto a
// regular grid and integrates streamlines through the result.
package vectorfield

import (
	"github.com/paulmach/orb"

	"github.com/krish-shahh/time-distortion-map/geomodel"
)

// Synthesize interpolates the displacement vectors of points onto a regular
// grid with inverse-distance-squared weighting. Grid positions live in
// [0,1]x[0,1]; source coordinates are normalized into the same square by the
// point set's bounding box before weighting. A grid cell that coincides
// exactly with a source point takes that point's vector verbatim. Cells with
// no contributing weight default to the zero vector.
func Synthesize(points []geomodel.GridPoint, opts ...FieldOption) *geomodel.Field {
	options := loadFieldOptions(opts...)
	size := options.gridSize

	field := &geomodel.Field{
		Width:   size,
		Height:  size,
		Vectors: make([][]geomodel.Vector, size),
	}
	for y := range field.Vectors {
		field.Vectors[y] = make([]geomodel.Vector, size)
	}
	if len(points) == 0 {
		return field
	}

	sources := normalize(points)

	for gy := 0; gy < size; gy++ {
		for gx := 0; gx < size; gx++ {
			pos := orb.Point{
				float64(gx) / float64(size-1),
				float64(gy) / float64(size-1),
			}
			field.Vectors[gy][gx] = interpolate(pos, sources, points)
		}
	}
	return field
}

func interpolate(pos orb.Point, sources []orb.Point, points []geomodel.GridPoint) geomodel.Vector {
	var sumX, sumY, sumW float64
	for i, s := range sources {
		dx := pos[0] - s[0]
		dy := pos[1] - s[1]
		d2 := dx*dx + dy*dy
		if d2 == 0 {
			// Coincident sample wins outright.
			return points[i].Displacement()
		}
		w := 1 / d2
		v := points[i].Displacement()
		sumX += w * v.X
		sumY += w * v.Y
		sumW += w
	}
	if sumW == 0 {
		return geomodel.Vector{}
	}
	return geomodel.Vector{X: sumX / sumW, Y: sumY / sumW}
}

// normalize maps original point positions into [0,1]x[0,1] over their bound.
// A degenerate axis (all points on one line) collapses to 0 on that axis.
func normalize(points []geomodel.GridPoint) []orb.Point {
	bound := points[0].Original.Bound()
	for _, p := range points[1:] {
		bound = bound.Extend(p.Original)
	}
	spanX := bound.Max[0] - bound.Min[0]
	spanY := bound.Max[1] - bound.Min[1]

	out := make([]orb.Point, len(points))
	for i, p := range points {
		var nx, ny float64
		if spanX > 0 {
			nx = (p.Original[0] - bound.Min[0]) / spanX
		}
		if spanY > 0 {
			ny = (p.Original[1] - bound.Min[1]) / spanY
		}
		out[i] = orb.Point{nx, ny}
	}
	return out
}
