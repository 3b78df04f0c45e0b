package heatmap_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/krish-shahh/time-distortion-map/geomodel"
	"github.com/krish-shahh/time-distortion-map/heatmap"
)

func TestClassifyNormalizesOverSpread(t *testing.T) {
	samples := []heatmap.Sample{
		{Point: orb.Point{0, 0}, Value: 10},
		{Point: orb.Point{1, 0}, Value: 20},
		{Point: orb.Point{2, 0}, Value: 30},
		{Point: orb.Point{3, 0}, Value: 40},
	}

	heat := heatmap.Classify(samples)

	want := []float64{0, 1.0 / 3, 2.0 / 3, 1}
	for i, h := range heat {
		if math.Abs(h.Intensity-want[i]) > 1e-9 {
			t.Fatalf("sample %d intensity %v, expected %v", i, h.Intensity, want[i])
		}
		if h.Value != samples[i].Value || h.Point != samples[i].Point {
			t.Fatalf("sample %d lost its value or position: %+v", i, h)
		}
	}
}

func TestClassifyConstantValues(t *testing.T) {
	samples := []heatmap.Sample{
		{Value: 7}, {Value: 7}, {Value: 7},
	}

	for i, h := range heatmap.Classify(samples) {
		if h.Intensity != 0 {
			t.Fatalf("constant sample %d intensity %v, expected 0", i, h.Intensity)
		}
	}
}

func TestClassifyEmpty(t *testing.T) {
	if heat := heatmap.Classify(nil); heat != nil {
		t.Fatalf("expected nil, got %v", heat)
	}
}

func TestFromTravelTimes(t *testing.T) {
	points := []geomodel.GridPoint{
		{Point: orb.Point{0, 0}, TravelTime: 5},
		{Point: orb.Point{1, 1}, TravelTime: 25},
	}

	heat := heatmap.FromTravelTimes(points)

	if heat[0].Intensity != 0 || heat[1].Intensity != 1 {
		t.Fatalf("expected intensities 0 and 1, got %v and %v",
			heat[0].Intensity, heat[1].Intensity)
	}
}

func FuzzClassify(f *testing.F) {
	f.Add(1.0, 2.0, 3.0)
	f.Add(0.0, 0.0, 0.0)
	f.Add(-5.0, 100.0, 42.5)

	f.Fuzz(func(t *testing.T, a, b, c float64) {
		for _, v := range []float64{a, b, c} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Skip()
			}
		}
		if math.IsInf(max(a, b, c)-min(a, b, c), 0) {
			t.Skip()
		}

		heat := heatmap.Classify([]heatmap.Sample{
			{Value: a}, {Value: b}, {Value: c},
		})

		for i, h := range heat {
			if math.IsNaN(h.Intensity) || h.Intensity < 0 || h.Intensity > 1 {
				t.Fatalf("sample %d intensity %v out of [0,1]", i, h.Intensity)
			}
		}
	})
}
