package pipeline

import (
	"runtime"

	"github.com/paulmach/orb"

	"github.com/krish-shahh/time-distortion-map/distortion"
	"github.com/krish-shahh/time-distortion-map/geomodel"
	"github.com/krish-shahh/time-distortion-map/isochrone"
	"github.com/krish-shahh/time-distortion-map/netmetrics"
)

// Config drives one full pipeline run. Zero values, except Factor, are filled
// from ConfigDefault; every knob maps to a single engine option.
type Config struct {
	Center      orb.Point
	RadiusMiles float64
	PointCount  int
	PoissonGrid bool

	SpeedMPH float64
	// Planar treats coordinates as planar miles instead of (lon, lat).
	Planar bool

	// Factor scales the distortion, range [0,5]. Zero is a valid value and
	// leaves every point undistorted; it is never filled from defaults.
	Factor    float64
	Algorithm distortion.Algorithm

	Thresholds            []float64 // minutes, ascending
	ConnectivityThreshold float64   // minutes
	BufferMarginMiles     float64

	GridSize int
	Threads  int
}

func ConfigDefault() Config {
	return Config{
		Center:      orb.Point{-71.0589, 42.3601}, // Boston
		RadiusMiles: 10,
		PointCount:  100,

		SpeedMPH: geomodel.DefaultSpeedMPH,

		Factor:    1,
		Algorithm: distortion.Heuristic,

		Thresholds:            []float64{10, 20, 30},
		ConnectivityThreshold: netmetrics.DefaultConnectivityThreshold,
		BufferMarginMiles:     isochrone.DefaultBufferMargin,

		GridSize: 20,
		Threads:  runtime.GOMAXPROCS(-1),
	}
}

func (c Config) withDefaults() Config {
	d := ConfigDefault()
	if c.RadiusMiles <= 0 {
		c.RadiusMiles = d.RadiusMiles
	}
	if c.PointCount <= 0 {
		c.PointCount = d.PointCount
	}
	if c.SpeedMPH <= 0 {
		c.SpeedMPH = d.SpeedMPH
	}
	if len(c.Thresholds) == 0 {
		c.Thresholds = d.Thresholds
	}
	if c.ConnectivityThreshold <= 0 {
		c.ConnectivityThreshold = d.ConnectivityThreshold
	}
	if c.BufferMarginMiles <= 0 {
		c.BufferMarginMiles = d.BufferMarginMiles
	}
	if c.GridSize <= 0 {
		c.GridSize = d.GridSize
	}
	if c.Threads <= 0 {
		c.Threads = d.Threads
	}
	return c
}
