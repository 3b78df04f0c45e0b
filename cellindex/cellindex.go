// Package cellindex resolves which Voronoi cell contains a query point via a
// quadtree over cell bounding boxes with an exact containment check.
package cellindex

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/qtree"
)

// CellIndex maps points to the Voronoi cell (site index) enclosing them.
type CellIndex struct {
	mu        sync.RWMutex
	idCounter uint64
	cells     []cell
	qt        qtree.QTree
}

type cell struct {
	Site int
	Ring orb.Ring
}

func New() *CellIndex {
	return &CellIndex{}
}

// FromCells indexes the non-empty rings of a tessellation; site is the ring's
// position in the input slice.
func FromCells(rings []orb.Ring) *CellIndex {
	ci := New()
	for site, ring := range rings {
		ci.Insert(site, ring)
	}
	return ci
}

// Insert adds one cell. Rings with fewer than three vertices cannot contain a
// point and are ignored.
func (ci *CellIndex) Insert(site int, ring orb.Ring) {
	if len(ring) < 3 {
		return
	}
	bound := ring.Bound()

	ci.mu.Lock()
	defer ci.mu.Unlock()

	ci.cells = append(ci.cells, cell{Site: site, Ring: ring})
	ci.qt.Insert(bound.Min, bound.Max, ci.idCounter)
	ci.idCounter++
}

// Query returns the site index of the cell containing point.
func (ci *CellIndex) Query(point orb.Point) (int, bool) {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	site := 0
	found := false

	ci.qt.Search(point, point, func(_, _ [2]float64, data interface{}) bool {
		id := data.(uint64)

		if ringContains(ci.cells[id].Ring, point) {
			site = ci.cells[id].Site
			found = true
			return false
		}
		return true
	})

	return site, found
}

// ringContains closes the implicitly-closed ring before the planar test.
func ringContains(ring orb.Ring, point orb.Point) bool {
	closed := append(append(orb.Ring{}, ring...), ring[0])
	return planar.RingContains(closed, point)
}
