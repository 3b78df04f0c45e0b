// Package gridgen produces point lattices filling a bounded circular region.
package gridgen

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/fogleman/poissondisc"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/krish-shahh/time-distortion-map/geomodel"
)

// Circle lays a regular square lattice over the bounding box of the circle
// and keeps only lattice points within radius of the center. Ids are assigned
// sequentially in row-major lattice order. The resulting count matches the
// requested count up to lattice rounding.
func Circle(center orb.Point, radiusMiles float64, count int) []geomodel.GridPoint {
	if count <= 0 || radiusMiles <= 0 {
		return nil
	}

	radius := radiusMiles * geomodel.DegreesPerMile
	cell := 2 * radius / math.Sqrt(float64(count))

	points := make([]geomodel.GridPoint, 0, count)
	id := 0
	for y := center[1] - radius; y <= center[1]+radius; y += cell {
		for x := center[0] - radius; x <= center[0]+radius; x += cell {
			p := orb.Point{x, y}
			if planar.Distance(p, center) > radius {
				continue
			}
			points = append(points, geomodel.GridPoint{
				ID:       "grid-" + strconv.Itoa(id),
				Point:    p,
				Original: p,
			})
			id++
		}
	}
	return points
}

// poissonSeed fixes the blue-noise sampler source. Identical inputs must
// yield identical grids.
const poissonSeed = 1

// Poisson fills the same circular region with blue-noise samples instead of a
// lattice. Spacing is derived from the requested count so densities are
// comparable with Circle.
func Poisson(center orb.Point, radiusMiles float64, count int) []geomodel.GridPoint {
	if count <= 0 || radiusMiles <= 0 {
		return nil
	}

	radius := radiusMiles * geomodel.DegreesPerMile
	spacing := 2 * radius / math.Sqrt(float64(count))

	samples := poissondisc.Sample(
		center[0]-radius, center[1]-radius,
		center[0]+radius, center[1]+radius,
		spacing, 10, rand.New(rand.NewSource(poissonSeed)),
	)

	points := make([]geomodel.GridPoint, 0, len(samples))
	id := 0
	for _, s := range samples {
		p := orb.Point{s.X, s.Y}
		if planar.Distance(p, center) > radius {
			continue
		}
		points = append(points, geomodel.GridPoint{
			ID:       "grid-" + strconv.Itoa(id),
			Point:    p,
			Original: p,
		})
		id++
	}
	return points
}
