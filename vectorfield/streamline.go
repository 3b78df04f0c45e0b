package vectorfield

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/sourcegraph/conc/pool"

	"github.com/krish-shahh/time-distortion-map/geomodel"
)

// Trace integrates one streamline per seed through field with fixed-step,
// unit-normalized Euler steps. Seeds default to a 10x10 lattice spanning
// bounds. Lines terminate on stagnation, on leaving bounds, on reaching the
// length cap, or unconditionally after maxSteps. Only lines that advanced at
// least one step are kept. Integration is sequential within a line and
// parallel across seeds; output order follows seed order.
func Trace(field *geomodel.Field, bounds orb.Bound, opts ...TraceOption) []geomodel.Streamline {
	options := loadTraceOptions(opts...)

	seeds := options.seeds
	if seeds == nil {
		seeds = seedLattice(bounds, DefaultSeedLattice)
	}

	lines := make([]geomodel.Streamline, len(seeds))
	p := pool.New().WithMaxGoroutines(options.threads)
	for i := range seeds {
		p.Go(func() {
			lines[i] = integrate(field, bounds, seeds[i], options)
		})
	}
	p.Wait()

	kept := lines[:0]
	for _, line := range lines {
		if len(line) > 1 {
			kept = append(kept, line)
		}
	}
	return kept
}

func integrate(field *geomodel.Field, bounds orb.Bound, seed orb.Point, options traceOptions) geomodel.Streamline {
	line := geomodel.Streamline{seed}
	pos := seed

	for step := 0; step < options.maxSteps; step++ {
		v, ok := sample(field, bounds, pos)
		if !ok {
			break
		}

		magnitude := math.Hypot(v.X, v.Y)
		if magnitude < stagnationEpsilon {
			break
		}

		pos = orb.Point{
			pos[0] + options.stepSize*v.X/magnitude,
			pos[1] + options.stepSize*v.Y/magnitude,
		}
		if !bounds.Contains(pos) {
			break
		}

		line = append(line, pos)
		if float64(len(line))*options.stepSize >= options.lineLength {
			break
		}
	}
	return line
}

// sample maps a world position to its grid cell via the bounds-to-resolution
// ratio. Indices outside [0,width-1) x [0,height-1) read as no flow.
func sample(field *geomodel.Field, bounds orb.Bound, pos orb.Point) (geomodel.Vector, bool) {
	spanX := bounds.Max[0] - bounds.Min[0]
	spanY := bounds.Max[1] - bounds.Min[1]
	if spanX <= 0 || spanY <= 0 {
		return geomodel.Vector{}, false
	}

	gx := int((pos[0] - bounds.Min[0]) / spanX * float64(field.Width))
	gy := int((pos[1] - bounds.Min[1]) / spanY * float64(field.Height))
	if gx < 0 || gx >= field.Width-1 || gy < 0 || gy >= field.Height-1 {
		return geomodel.Vector{}, false
	}
	return field.At(gx, gy), true
}

func seedLattice(bounds orb.Bound, n int) []orb.Point {
	seeds := make([]orb.Point, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			seeds = append(seeds, orb.Point{
				bounds.Min[0] + (bounds.Max[0]-bounds.Min[0])*float64(j)/float64(n-1),
				bounds.Min[1] + (bounds.Max[1]-bounds.Min[1])*float64(i)/float64(n-1),
			})
		}
	}
	return seeds
}
