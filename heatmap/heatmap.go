// Package heatmap normalizes scalar samples into [0,1] intensities.
package heatmap

import (
	"github.com/paulmach/orb"

	"github.com/krish-shahh/time-distortion-map/geomodel"
)

// Sample is one scalar measurement at a position.
type Sample struct {
	Point orb.Point `json:"coordinates"`
	Value float64   `json:"value"`
}

// Classify min/max-normalizes the sample set over its own spread. A constant
// set (max == min) yields intensity 0 for every sample rather than NaN.
func Classify(samples []Sample) []geomodel.HeatPoint {
	if len(samples) == 0 {
		return nil
	}

	min, max := samples[0].Value, samples[0].Value
	for _, s := range samples[1:] {
		if s.Value < min {
			min = s.Value
		}
		if s.Value > max {
			max = s.Value
		}
	}
	spread := max - min

	out := make([]geomodel.HeatPoint, len(samples))
	for i, s := range samples {
		intensity := 0.0
		if spread > 0 {
			intensity = (s.Value - min) / spread
		}
		out[i] = geomodel.HeatPoint{
			Point:     s.Point,
			Value:     s.Value,
			Intensity: intensity,
		}
	}
	return out
}

// FromTravelTimes classifies grid points by their travel time.
func FromTravelTimes(points []geomodel.GridPoint) []geomodel.HeatPoint {
	samples := make([]Sample, len(points))
	for i, p := range points {
		samples[i] = Sample{Point: p.Point, Value: p.TravelTime}
	}
	return Classify(samples)
}
