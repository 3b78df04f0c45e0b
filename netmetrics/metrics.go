// Package netmetrics aggregates connectivity, centrality, coverage and
// distortion statistics over a distorted point set.
package netmetrics

import (
	"fmt"
	"math"

	"github.com/fogleman/delaunay"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"

	"github.com/krish-shahh/time-distortion-map/geomodel"
)

// DefaultConnectivityThreshold in minutes.
const DefaultConnectivityThreshold = 20.0

// AreaFunc returns the area of a closed ring in square miles.
type AreaFunc func(ring orb.Ring) float64

// GeoArea treats ring coordinates as (lon, lat) degrees.
func GeoArea(ring orb.Ring) float64 {
	return math.Abs(geo.Area(ring)) * geomodel.SqMilesPerSqMeter
}

// PlanarArea treats ring coordinates as planar miles.
func PlanarArea(ring orb.Ring) float64 {
	return math.Abs(planar.Area(ring))
}

type options struct {
	threshold float64
	area      AreaFunc
}

type Option interface {
	apply(*options)
}

type thresholdOption float64

func (t thresholdOption) apply(o *options) {
	o.threshold = float64(t)
}

// WithConnectivityThreshold overrides the cutoff. Default: 20 minutes.
func WithConnectivityThreshold(minutes float64) Option {
	return thresholdOption(minutes)
}

type areaOption struct {
	fn AreaFunc
}

func (a areaOption) apply(o *options) {
	o.area = a.fn
}

// WithArea overrides the area function. Default: GeoArea.
func WithArea(fn AreaFunc) Option {
	return areaOption{fn: fn}
}

func loadOptions(opts ...Option) options {
	options := options{
		threshold: DefaultConnectivityThreshold,
		area:      GeoArea,
	}
	for _, o := range opts {
		o.apply(&options)
	}
	return options
}

// Compute aggregates metrics from the original/distorted point pair and the
// travel-time matrix. Panics when the three inputs disagree on length: the
// parallel lists are a caller contract. Missing travel times count as 0 in
// the average.
func Compute(original, distorted []geomodel.GridPoint, times geomodel.TimeMatrix, opts ...Option) geomodel.Metrics {
	if len(original) != len(distorted) || len(original) != times.Size() {
		panic(fmt.Sprintf("netmetrics: mismatched inputs: %d original, %d distorted, %d matrix",
			len(original), len(distorted), times.Size()))
	}

	options := loadOptions(opts...)
	n := len(original)

	metrics := geomodel.Metrics{
		Connectivity: make([]int, n),
		Centrality:   make([]float64, n),
	}

	maxConnectivity := 0
	for i := 0; i < n; i++ {
		count := 0
		for j, t := range times.Row(i) {
			if j != i && t < options.threshold {
				count++
			}
		}
		metrics.Connectivity[i] = count
		if count > maxConnectivity {
			maxConnectivity = count
		}
	}
	// All-zero connectivity normalizes to zero, not NaN.
	if maxConnectivity > 0 {
		for i, c := range metrics.Connectivity {
			metrics.Centrality[i] = float64(c) / float64(maxConnectivity)
		}
	}

	var timeSum float64
	for i := 0; i < n; i++ {
		timeSum += distorted[i].TravelTime

		d := planar.Distance(original[i].Original, distorted[i].Point)
		if d > metrics.MaxDistortion {
			metrics.MaxDistortion = d
		}
	}
	if n > 0 {
		metrics.AverageTime = timeSum / float64(n)
	}

	metrics.CoverageArea = CoverageArea(distorted, options.threshold, opts...)

	return metrics
}

// CoverageArea is the convex-hull area of points reachable within threshold
// minutes, in square miles. Fewer than three qualifying points, or a
// degenerate hull, count as zero coverage.
func CoverageArea(points []geomodel.GridPoint, threshold float64, opts ...Option) float64 {
	options := loadOptions(opts...)

	var reachable []delaunay.Point
	for _, p := range points {
		if p.TravelTime <= threshold {
			reachable = append(reachable, delaunay.Point{X: p.Point[0], Y: p.Point[1]})
		}
	}
	if len(reachable) < 3 {
		return 0
	}

	tri, err := delaunay.Triangulate(reachable)
	if err != nil || len(tri.ConvexHull) < 3 {
		return 0
	}

	ring := make(orb.Ring, 0, len(tri.ConvexHull)+1)
	for _, p := range tri.ConvexHull {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	ring = append(ring, ring[0])

	return options.area(ring)
}
