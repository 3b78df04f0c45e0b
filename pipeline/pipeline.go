// Package pipeline runs the whole accessibility-distortion chain: grid
// generation, travel times, distortion, vector field, streamlines, Voronoi
// tessellation, isochrones, heatmap and network metrics.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/paulmach/orb"

	"github.com/krish-shahh/time-distortion-map/distortion"
	"github.com/krish-shahh/time-distortion-map/geomodel"
	"github.com/krish-shahh/time-distortion-map/gridgen"
	"github.com/krish-shahh/time-distortion-map/heatmap"
	"github.com/krish-shahh/time-distortion-map/isochrone"
	"github.com/krish-shahh/time-distortion-map/netmetrics"
	"github.com/krish-shahh/time-distortion-map/tessellate"
	"github.com/krish-shahh/time-distortion-map/traveltime"
	"github.com/krish-shahh/time-distortion-map/vectorfield"
)

// Stages in execution order, for progress reporting.
var Stages = []string{
	"grid", "travel times", "distortion", "vector field",
	"streamlines", "tessellation", "isochrones", "heatmap", "metrics",
}

// Result is the value output of one run. Every field is produced once and
// safe to share read-only.
type Result struct {
	Config Config `json:"config"`

	Points      []geomodel.GridPoint     `json:"points"`
	Distorted   []geomodel.GridPoint     `json:"distorted"`
	Times       geomodel.TimeMatrix      `json:"times"`
	Field       *geomodel.Field          `json:"field"`
	Streamlines []geomodel.Streamline    `json:"streamlines"`
	Cells       []orb.Ring               `json:"cells"`
	Bands       []geomodel.IsochroneBand `json:"bands"`
	Heat        []geomodel.HeatPoint     `json:"heat"`
	Metrics     geomodel.Metrics         `json:"metrics"`
}

// Progress is called as each stage completes.
type Progress func(stage string, done, total int)

// Runner owns the per-run configuration and logger.
type Runner struct {
	cfg      Config
	log      *slog.Logger
	progress Progress
}

func NewRunner(cfg Config, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{cfg: cfg.withDefaults(), log: log}
}

// OnProgress registers a stage-completion callback.
func (r *Runner) OnProgress(p Progress) {
	r.progress = p
}

// Run executes every stage. The context is checked between stages so an
// enclosing caller can impose a wall-clock budget; the engine itself never
// blocks on I/O.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	cfg := r.cfg
	res := &Result{Config: cfg}
	total := len(Stages)
	step := 0

	advance := func(stage string) {
		step++
		r.log.Debug("pipeline stage complete", "stage", stage, "step", step, "total", total)
		if r.progress != nil {
			r.progress(stage, step, total)
		}
	}

	if cfg.PoissonGrid {
		res.Points = gridgen.Poisson(cfg.Center, cfg.RadiusMiles, cfg.PointCount)
	} else {
		res.Points = gridgen.Circle(cfg.Center, cfg.RadiusMiles, cfg.PointCount)
	}
	advance("grid")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeOpts := []traveltime.Option{traveltime.WithSpeed(cfg.SpeedMPH)}
	if cfg.Planar {
		timeOpts = append(timeOpts, traveltime.WithDistance(traveltime.Planar))
	}
	res.Times = traveltime.Matrix(res.Points, timeOpts...)
	advance("travel times")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Distorted = distortion.Distort(res.Points, res.Times,
		distortion.WithFactor(cfg.Factor),
		distortion.WithAlgorithm(cfg.Algorithm),
		distortion.WithThreads(cfg.Threads),
	)
	advance("distortion")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Field = vectorfield.Synthesize(res.Distorted, vectorfield.WithGridSize(cfg.GridSize))
	advance("vector field")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Streamlines = vectorfield.Trace(res.Field, pointBound(res.Points),
		vectorfield.WithThreads(cfg.Threads))
	advance("streamlines")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Cells = tessellateDistorted(res.Distorted)
	advance("tessellation")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	margin := cfg.BufferMarginMiles
	if !cfg.Planar {
		margin *= geomodel.DegreesPerMile
	}
	res.Bands = isochrone.Bands(res.Distorted, cfg.Thresholds,
		isochrone.WithBufferMargin(margin),
		isochrone.WithLogger(r.log),
	)
	advance("isochrones")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Heat = heatmap.FromTravelTimes(res.Distorted)
	advance("heatmap")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	metricOpts := []netmetrics.Option{
		netmetrics.WithConnectivityThreshold(cfg.ConnectivityThreshold),
	}
	if cfg.Planar {
		metricOpts = append(metricOpts, netmetrics.WithArea(netmetrics.PlanarArea))
	}
	res.Metrics = netmetrics.Compute(res.Points, res.Distorted, res.Times, metricOpts...)
	advance("metrics")

	return res, nil
}

// tessellateDistorted shifts the distorted points into an origin-anchored
// clip rectangle, tessellates, and shifts the cells back.
func tessellateDistorted(points []geomodel.GridPoint) []orb.Ring {
	if len(points) == 0 {
		return nil
	}

	bound := pointBound(points)
	width := bound.Max[0] - bound.Min[0]
	height := bound.Max[1] - bound.Min[1]

	shifted := make([]orb.Point, len(points))
	for i, p := range points {
		shifted[i] = orb.Point{p.Point[0] - bound.Min[0], p.Point[1] - bound.Min[1]}
	}

	cells := tessellate.Voronoi(shifted, width, height)
	for _, ring := range cells {
		for i := range ring {
			ring[i][0] += bound.Min[0]
			ring[i][1] += bound.Min[1]
		}
	}
	return cells
}

func pointBound(points []geomodel.GridPoint) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}
	bound := points[0].Point.Bound()
	for _, p := range points[1:] {
		bound = bound.Extend(p.Point)
	}
	return bound
}
