// Package isochrone derives accessibility polygons: for each time threshold,
// the buffered convex hull of the points reachable within it.
package isochrone

import (
	"log/slog"
	"math"

	"github.com/fogleman/delaunay"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/krish-shahh/time-distortion-map/geomodel"
)

// DefaultBufferMargin expands hulls outward, in coordinate units.
const DefaultBufferMargin = 0.1

type options struct {
	margin float64
	logger *slog.Logger
}

type Option interface {
	apply(*options)
}

type marginOption float64

func (m marginOption) apply(o *options) {
	o.margin = float64(m)
}

// WithBufferMargin overrides the outward hull expansion. Default: 0.1.
func WithBufferMargin(margin float64) Option {
	return marginOption(margin)
}

type loggerOption struct {
	log *slog.Logger
}

func (l loggerOption) apply(o *options) {
	o.logger = l.log
}

// WithLogger routes geometry-failure warnings. Default: slog.Default().
func WithLogger(log *slog.Logger) Option {
	return loggerOption{log: log}
}

func loadOptions(opts ...Option) options {
	options := options{
		margin: DefaultBufferMargin,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o.apply(&options)
	}
	return options
}

// Bands computes one band per threshold, in the given order. A threshold with
// fewer than three reachable points, or whose hull degenerates (collinear
// points), yields an empty ring; one failed threshold never aborts the rest.
func Bands(points []geomodel.GridPoint, thresholds []float64, opts ...Option) []geomodel.IsochroneBand {
	options := loadOptions(opts...)

	bands := make([]geomodel.IsochroneBand, 0, len(thresholds))
	for _, t := range thresholds {
		bands = append(bands, band(points, t, options))
	}
	return bands
}

func band(points []geomodel.GridPoint, threshold float64, options options) geomodel.IsochroneBand {
	var reachable []delaunay.Point
	for _, p := range points {
		if p.TravelTime <= threshold {
			reachable = append(reachable, delaunay.Point{X: p.Point[0], Y: p.Point[1]})
		}
	}
	if len(reachable) < 3 {
		return geomodel.IsochroneBand{Threshold: threshold}
	}

	tri, err := delaunay.Triangulate(reachable)
	if err != nil || len(tri.ConvexHull) < 3 {
		options.logger.Warn("isochrone hull failed",
			"threshold", threshold, "points", len(reachable), "error", err)
		return geomodel.IsochroneBand{Threshold: threshold}
	}

	hull := make(orb.Ring, len(tri.ConvexHull))
	for i, p := range tri.ConvexHull {
		hull[i] = orb.Point{p.X, p.Y}
	}
	closed := append(orb.Ring{}, hull...)
	closed = append(closed, closed[0])
	if planar.Area(closed) == 0 {
		options.logger.Warn("isochrone hull degenerate",
			"threshold", threshold, "points", len(reachable))
		return geomodel.IsochroneBand{Threshold: threshold}
	}

	return geomodel.IsochroneBand{
		Threshold: threshold,
		Ring:      buffer(hull, options.margin),
	}
}

// buffer expands the hull outward from its centroid by margin along each
// vertex direction. Vertices coincident with the centroid stay put.
func buffer(hull orb.Ring, margin float64) orb.Ring {
	var cx, cy float64
	for _, p := range hull {
		cx += p[0]
		cy += p[1]
	}
	cx /= float64(len(hull))
	cy /= float64(len(hull))

	out := make(orb.Ring, len(hull))
	for i, p := range hull {
		dx := p[0] - cx
		dy := p[1] - cy
		d := math.Hypot(dx, dy)
		if d == 0 {
			out[i] = p
			continue
		}
		out[i] = orb.Point{
			p[0] + margin*dx/d,
			p[1] + margin*dy/d,
		}
	}
	return out
}
