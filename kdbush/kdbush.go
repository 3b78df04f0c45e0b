// Package kdbush is a flat, static 2D spatial index over a fixed point set.
// Built once, queried many times; no inserts after construction.
package kdbush

import "math"

// Point carries a position and an arbitrary payload.
type Point[T any] struct {
	X, Y float64
	Data T
}

type KDBush[T any] struct {
	NodeSize int
	Points   []Point[T]

	idxs   []int
	coords []float64
}

func NewBush[T any](points []Point[T], nodeSize int) *KDBush[T] {
	b := KDBush[T]{}
	b.buildIndex(points, nodeSize)
	return &b
}

// Range finds all items within the bounding box and returns indices into the
// original points slice.
func (bush *KDBush[T]) Range(minX, minY, maxX, maxY float64) []int {
	stack := []int{0, len(bush.idxs) - 1, 0}
	result := []int{}
	var x, y float64

	for len(stack) > 0 {
		axis := stack[len(stack)-1]
		right := stack[len(stack)-2]
		left := stack[len(stack)-3]
		stack = stack[:len(stack)-3]

		if right-left <= bush.NodeSize {
			for i := left; i <= right; i++ {
				x = bush.coords[2*i]
				y = bush.coords[2*i+1]
				if x >= minX && x <= maxX && y >= minY && y <= maxY {
					result = append(result, bush.idxs[i])
				}
			}
			continue
		}

		m := (left + right) / 2
		x = bush.coords[2*m]
		y = bush.coords[2*m+1]

		if x >= minX && x <= maxX && y >= minY && y <= maxY {
			result = append(result, bush.idxs[m])
		}

		nextAxis := (axis + 1) % 2
		if (axis == 0 && minX <= x) || (axis != 0 && minY <= y) {
			stack = append(stack, left, m-1, nextAxis)
		}
		if (axis == 0 && maxX >= x) || (axis != 0 && maxY >= y) {
			stack = append(stack, m+1, right, nextAxis)
		}
	}
	return result
}

// Within visits every point inside the radius around (qx, qy) until the
// handler returns false.
func (bush *KDBush[T]) Within(qx, qy float64, radius float64, handler func(p Point[T]) bool) {
	stack := []int{0, len(bush.idxs) - 1, 0}
	r2 := radius * radius

	for len(stack) > 0 {
		axis := stack[len(stack)-1]
		right := stack[len(stack)-2]
		left := stack[len(stack)-3]
		stack = stack[:len(stack)-3]

		if right-left <= bush.NodeSize {
			for i := left; i <= right; i++ {
				if distSq(bush.coords[2*i], bush.coords[2*i+1], qx, qy) <= r2 {
					if !handler(bush.Points[bush.idxs[i]]) {
						return
					}
				}
			}
			continue
		}

		m := (left + right) / 2
		x := bush.coords[2*m]
		y := bush.coords[2*m+1]

		if distSq(x, y, qx, qy) <= r2 {
			if !handler(bush.Points[bush.idxs[m]]) {
				return
			}
		}

		nextAxis := (axis + 1) % 2
		if (axis == 0 && qx-radius <= x) || (axis != 0 && qy-radius <= y) {
			stack = append(stack, left, m-1, nextAxis)
		}
		if (axis == 0 && qx+radius >= x) || (axis != 0 && qy+radius >= y) {
			stack = append(stack, m+1, right, nextAxis)
		}
	}
}

func (bush *KDBush[T]) buildIndex(points []Point[T], nodeSize int) {
	bush.NodeSize = nodeSize
	bush.Points = points

	bush.idxs = make([]int, len(points))
	bush.coords = make([]float64, 2*len(points))
	for i, v := range points {
		bush.idxs[i] = i
		bush.coords[i*2] = v.X
		bush.coords[i*2+1] = v.Y
	}

	kdsort(bush.idxs, bush.coords, bush.NodeSize, 0, len(bush.idxs)-1, 0)
}

// kdsort recursively median-splits the index, alternating axes.
func kdsort(idxs []int, coords []float64, nodeSize, left, right, depth int) {
	if right-left <= nodeSize {
		return
	}

	m := (left + right) / 2
	sselect(idxs, coords, m, left, right, depth%2)

	kdsort(idxs, coords, nodeSize, left, m-1, depth+1)
	kdsort(idxs, coords, nodeSize, m+1, right, depth+1)
}

// sselect partially sorts so the k-th item lands in its sorted position
// (Floyd-Rivest selection on one axis).
func sselect(idxs []int, coords []float64, k, left, right, axis int) {
	for right > left {
		if right-left > 600 {
			n := float64(right - left + 1)
			m := float64(k - left + 1)
			z := math.Log(n)
			s := 0.5 * math.Exp(2*z/3)
			sd := 0.5 * math.Sqrt(z*s*(n-s)/n) * math.Copysign(1, m-n/2)
			newLeft := max(left, int(math.Floor(float64(k)-m*s/n+sd)))
			newRight := min(right, int(math.Floor(float64(k)+(n-m)*s/n+sd)))
			sselect(idxs, coords, k, newLeft, newRight, axis)
		}

		t := coords[2*k+axis]
		i := left
		j := right

		swapItem(idxs, coords, left, k)
		if coords[2*right+axis] > t {
			swapItem(idxs, coords, left, right)
		}

		for i < j {
			swapItem(idxs, coords, i, j)
			i++
			j--
			for coords[2*i+axis] < t {
				i++
			}
			for coords[2*j+axis] > t {
				j--
			}
		}

		if coords[2*left+axis] == t {
			swapItem(idxs, coords, left, j)
		} else {
			j++
			swapItem(idxs, coords, j, right)
		}

		if j <= k {
			left = j + 1
		}
		if k <= j {
			right = j - 1
		}
	}
}

func swapItem(idxs []int, coords []float64, i, j int) {
	idxs[i], idxs[j] = idxs[j], idxs[i]
	coords[2*i], coords[2*j] = coords[2*j], coords[2*i]
	coords[2*i+1], coords[2*j+1] = coords[2*j+1], coords[2*i+1]
}

func distSq(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}
