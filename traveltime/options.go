package traveltime

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"

	"github.com/krish-shahh/time-distortion-map/geomodel"
)

// DistanceFunc returns the distance between two points in miles.
type DistanceFunc func(a, b orb.Point) float64

// GreatCircle treats coordinates as (lon, lat) degrees.
func GreatCircle(a, b orb.Point) float64 {
	return geo.Distance(a, b) / geomodel.MetersPerMile
}

// Planar treats coordinates as planar positions already measured in miles.
func Planar(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

type options struct {
	speedMPH float64
	distance DistanceFunc
}

type Option interface {
	apply(*options)
}

type speedOption float64

func (s speedOption) apply(o *options) {
	o.speedMPH = float64(s)
}

// WithSpeed overrides the assumed travel speed. Default: 30 mph.
func WithSpeed(mph float64) Option {
	return speedOption(mph)
}

type distanceOption struct {
	fn DistanceFunc
}

func (d distanceOption) apply(o *options) {
	o.distance = d.fn
}

// WithDistance overrides the distance function. Default: GreatCircle.
func WithDistance(fn DistanceFunc) Option {
	return distanceOption{fn: fn}
}

func loadOptions(opts ...Option) options {
	options := options{
		speedMPH: geomodel.DefaultSpeedMPH,
		distance: GreatCircle,
	}
	for _, o := range opts {
		o.apply(&options)
	}
	return options
}
