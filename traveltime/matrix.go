// Package traveltime converts point pairs into symmetric travel-time
// estimates from straight-line distance and a constant speed.
package traveltime

import (
	"github.com/krish-shahh/time-distortion-map/geomodel"
)

// Matrix builds the NxN travel-time matrix in minutes. Each unordered pair is
// computed once and mirrored, so the matrix is literally symmetric down to
// the last float bit. The diagonal is zero.
func Matrix(points []geomodel.GridPoint, opts ...Option) geomodel.TimeMatrix {
	options := loadOptions(opts...)

	n := len(points)
	m := make(geomodel.TimeMatrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			miles := options.distance(points[i].Point, points[j].Point)
			minutes := miles / options.speedMPH * 60
			m[i][j] = minutes
			m[j][i] = minutes
		}
	}
	return m
}
