// Package tessellate partitions a point set into Voronoi cells clipped to a
// rectangle. Cells are derived from the Delaunay dual: each site's cell is
// the clip rectangle intersected with the bisector half-planes of its
// Delaunay neighbors, which tiles the rectangle exactly.
package tessellate

import (
	"sort"

	"github.com/fogleman/delaunay"
	"github.com/paulmach/orb"
)

// Voronoi returns one polygon ring per input point, clipped to the rectangle
// (0,0)-(width,height). Rings are implicitly closed (first != last). A point
// whose cell is degenerate (duplicate site) or fully outside the rectangle
// gets an empty ring; the batch never fails as a whole.
func Voronoi(points []orb.Point, width, height float64) []orb.Ring {
	cells := make([]orb.Ring, len(points))
	if len(points) == 0 || width <= 0 || height <= 0 {
		return cells
	}

	rect := orb.Ring{
		{0, 0},
		{width, 0},
		{width, height},
		{0, height},
	}

	if len(points) == 1 {
		cells[0] = rect
		return cells
	}

	neighbors := neighborSets(points)

	for i := range points {
		if firstDuplicate(points, i) {
			continue
		}
		cell := rect
		for _, j := range neighbors[i] {
			cell = clipHalfPlane(cell, points[i], points[j])
			if len(cell) == 0 {
				break
			}
		}
		if len(cell) >= 3 {
			cells[i] = cell
		}
	}
	return cells
}

// neighborSets returns, for every site, the sites whose bisectors can bound
// its Voronoi cell. The Delaunay neighbors are exactly that set; when the
// triangulation degenerates (fewer than three sites, or all collinear) every
// other site is used instead, which is correct just slower.
func neighborSets(points []orb.Point) [][]int {
	n := len(points)

	tri, err := triangulate(points)
	if err == nil && len(tri.Triangles) > 0 {
		sets := make([]map[int]struct{}, n)
		for i := range sets {
			sets[i] = make(map[int]struct{})
		}
		for t := 0; t < len(tri.Triangles); t += 3 {
			a, b, c := tri.Triangles[t], tri.Triangles[t+1], tri.Triangles[t+2]
			link(sets, a, b)
			link(sets, b, c)
			link(sets, c, a)
		}

		out := make([][]int, n)
		for i, set := range sets {
			for j := range set {
				out[i] = append(out[i], j)
			}
			// Clip order affects float rounding; keep it stable across runs.
			sort.Ints(out[i])
		}
		return out
	}

	out := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j != i {
				out[i] = append(out[i], j)
			}
		}
	}
	return out
}

func triangulate(points []orb.Point) (*delaunay.Triangulation, error) {
	dpoints := make([]delaunay.Point, len(points))
	for i, p := range points {
		dpoints[i] = delaunay.Point{X: p[0], Y: p[1]}
	}
	return delaunay.Triangulate(dpoints)
}

func link(sets []map[int]struct{}, a, b int) {
	sets[a][b] = struct{}{}
	sets[b][a] = struct{}{}
}

// firstDuplicate reports whether an earlier site occupies the same position;
// only the first of a coincident group keeps a cell.
func firstDuplicate(points []orb.Point, i int) bool {
	for j := 0; j < i; j++ {
		if points[j] == points[i] {
			return true
		}
	}
	return false
}

// clipHalfPlane cuts ring to the side of the site/other bisector closer to
// site (Sutherland-Hodgman against one line). The signed distance along the
// site->other axis is linear, so edge crossings interpolate exactly.
func clipHalfPlane(ring orb.Ring, site, other orb.Point) orb.Ring {
	if len(ring) == 0 {
		return nil
	}

	mx := (site[0] + other[0]) / 2
	my := (site[1] + other[1]) / 2
	nx := other[0] - site[0]
	ny := other[1] - site[1]

	side := func(p orb.Point) float64 {
		return (p[0]-mx)*nx + (p[1]-my)*ny
	}

	var out orb.Ring
	for i := range ring {
		cur := ring[i]
		next := ring[(i+1)%len(ring)]
		curSide := side(cur)
		nextSide := side(next)

		if curSide <= 0 {
			out = append(out, cur)
		}
		if (curSide < 0 && nextSide > 0) || (curSide > 0 && nextSide < 0) {
			t := curSide / (curSide - nextSide)
			out = append(out, orb.Point{
				cur[0] + t*(next[0]-cur[0]),
				cur[1] + t*(next[1]-cur[1]),
			})
		}
	}
	return out
}
