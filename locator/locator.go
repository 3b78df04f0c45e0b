// Package locator answers nearest-grid-point queries over a computed
// distortion dataset.
package locator

import (
	"log/slog"
	"math"

	"github.com/krish-shahh/time-distortion-map/geomodel"
	"github.com/krish-shahh/time-distortion-map/kdbush"
)

const defaultSearchRadius = 0.5

const nodeSize = 256

// Locator indexes distorted grid points for radius-limited nearest lookups.
type Locator struct {
	tree *kdbush.KDBush[*geomodel.GridPoint]

	searchRadius float64
	logger       *slog.Logger
}

// New builds a locator over the distorted positions of points.
func New(points []geomodel.GridPoint, opts ...Option) *Locator {
	options := loadOptions(opts...)

	indexed := make([]kdbush.Point[*geomodel.GridPoint], len(points))
	for i := range points {
		indexed[i] = kdbush.Point[*geomodel.GridPoint]{
			X:    points[i].Point[0],
			Y:    points[i].Point[1],
			Data: &points[i],
		}
	}
	options.logger.Debug("locator index built",
		"points", len(points), "search_radius", options.searchRadius)

	return &Locator{
		tree:         kdbush.NewBush(indexed, nodeSize),
		searchRadius: options.searchRadius,
		logger:       options.logger,
	}
}

// Find returns the nearest grid point within the configured search radius.
func (l *Locator) Find(x, y float64) (geomodel.GridPoint, bool) {
	return l.FindInRadius(x, y, l.searchRadius)
}

// FindInRadius returns the nearest grid point within radius of (x, y).
func (l *Locator) FindInRadius(x, y, radius float64) (geomodel.GridPoint, bool) {
	var found *geomodel.GridPoint
	best := math.Inf(1)

	l.tree.Within(x, y, radius, func(p kdbush.Point[*geomodel.GridPoint]) bool {
		dx := p.X - x
		dy := p.Y - y
		d := dx*dx + dy*dy
		if d < best {
			found = p.Data
			best = d
		}
		return true
	})

	if found == nil {
		return geomodel.GridPoint{}, false
	}
	return *found, true
}
