// Package distortion displaces grid points by travel-time derived offsets,
// turning geographic positions into an accessibility-warped layout.
package distortion

import (
	"fmt"
	"math"

	"github.com/sourcegraph/conc/pool"

	"github.com/krish-shahh/time-distortion-map/geomodel"
)

// Distort returns a distorted copy of points with TravelTime populated from
// the row means of times. The input slice is never mutated. Panics if the
// matrix dimension does not match the point count: that is a contract
// violation by the caller, not bad input data.
func Distort(points []geomodel.GridPoint, times geomodel.TimeMatrix, opts ...Option) []geomodel.GridPoint {
	if len(points) != times.Size() {
		panic(fmt.Sprintf("distortion: %d points but %dx%d matrix", len(points), times.Size(), times.Size()))
	}
	if len(points) == 0 {
		return nil
	}

	options := loadOptions(opts...)

	switch options.algorithm {
	case ClassicalMDS:
		return distortMDS(points, times, options)
	default:
		return distortHeuristic(points, times, options)
	}
}

// distortHeuristic pushes every point away from the reference point (the
// first point of the list) by (avgTime/60)*factor. Displacement magnitude is
// exactly linear in the factor.
func distortHeuristic(points []geomodel.GridPoint, times geomodel.TimeMatrix, options options) []geomodel.GridPoint {
	ref := points[0].Point
	out := make([]geomodel.GridPoint, len(points))

	p := pool.New().WithMaxGoroutines(options.threads)
	for i := range points {
		p.Go(func() {
			avg := rowMean(times.Row(i))
			scale := avg / 60 * options.factor

			dx := points[i].Point[0] - ref[0]
			dy := points[i].Point[1] - ref[1]
			direction := 0.0
			if dx != 0 || dy != 0 {
				direction = math.Atan2(dy, dx)
			}

			out[i] = points[i]
			out[i].Point = [2]float64{
				points[i].Point[0] + scale*math.Cos(direction),
				points[i].Point[1] + scale*math.Sin(direction),
			}
			out[i].TravelTime = avg
		})
	}
	p.Wait()

	return out
}

func rowMean(row []float64) float64 {
	if len(row) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range row {
		sum += v
	}
	return sum / float64(len(row))
}
