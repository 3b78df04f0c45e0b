package distortion

import (
	"math"

	"github.com/krish-shahh/time-distortion-map/geomodel"
)

// distortMDS runs classical multidimensional scaling on the travel-time
// matrix: square the dissimilarities, double-center, eigendecompose and embed
// every point on the top-2 eigenvectors scaled by sqrt(eigenvalue). The
// embedding is translation-free, so it is re-anchored on the original
// centroid and blended as original + factor*(embedded - original); factor 0
// is the identity for both strategies.
func distortMDS(points []geomodel.GridPoint, times geomodel.TimeMatrix, options options) []geomodel.GridPoint {
	n := len(points)

	b := doubleCenter(times)
	values, vectors := jacobiEigen(b)

	i1, i2 := topTwo(values)
	s1 := math.Sqrt(math.Max(values[i1], 0))
	s2 := math.Sqrt(math.Max(values[i2], 0))

	var cx, cy float64
	for _, p := range points {
		cx += p.Original[0]
		cy += p.Original[1]
	}
	cx /= float64(n)
	cy /= float64(n)

	out := make([]geomodel.GridPoint, n)
	for i := range points {
		ex := cx + vectors[i][i1]*s1
		ey := cy + vectors[i][i2]*s2

		out[i] = points[i]
		out[i].Point = [2]float64{
			points[i].Point[0] + options.factor*(ex-points[i].Point[0]),
			points[i].Point[1] + options.factor*(ey-points[i].Point[1]),
		}
		out[i].TravelTime = rowMean(times.Row(i))
	}
	return out
}

// doubleCenter builds B = -0.5 * H * D^2 * H without materializing H, using
// b_ij = -0.5*(d2_ij - rowMean_i - rowMean_j + grandMean).
func doubleCenter(times geomodel.TimeMatrix) [][]float64 {
	n := times.Size()

	d2 := make([][]float64, n)
	rowMeans := make([]float64, n)
	grand := 0.0
	for i := 0; i < n; i++ {
		d2[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			v := times[i][j] * times[i][j]
			d2[i][j] = v
			rowMeans[i] += v
		}
		rowMeans[i] /= float64(n)
		grand += rowMeans[i]
	}
	grand /= float64(n)

	b := make([][]float64, n)
	for i := 0; i < n; i++ {
		b[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			b[i][j] = -0.5 * (d2[i][j] - rowMeans[i] - rowMeans[j] + grand)
		}
	}
	return b
}

const (
	jacobiTolerance = 1e-10
	jacobiMaxSweeps = 100
)

// jacobiEigen diagonalizes a symmetric matrix with cyclic Jacobi rotations.
// Returns eigenvalues and row-indexed eigenvector components: vectors[i][k]
// is the i-th component of the k-th eigenvector.
func jacobiEigen(a [][]float64) ([]float64, [][]float64) {
	n := len(a)

	q := make([][]float64, n)
	for i := range q {
		q[i] = make([]float64, n)
		q[i][i] = 1
	}

	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		off := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				off += a[i][j] * a[i][j]
			}
		}
		if off < jacobiTolerance {
			break
		}

		for p := 0; p < n; p++ {
			for r := p + 1; r < n; r++ {
				if math.Abs(a[p][r]) < jacobiTolerance/float64(n*n) {
					continue
				}

				theta := (a[r][r] - a[p][p]) / (2 * a[p][r])
				t := math.Copysign(1/(math.Abs(theta)+math.Sqrt(theta*theta+1)), theta)
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				app, arr, apr := a[p][p], a[r][r], a[p][r]
				for i := 0; i < n; i++ {
					if i != p && i != r {
						aip, air := a[i][p], a[i][r]
						a[i][p] = c*aip - s*air
						a[p][i] = a[i][p]
						a[i][r] = s*aip + c*air
						a[r][i] = a[i][r]
					}
				}
				a[p][p] = c*c*app - 2*c*s*apr + s*s*arr
				a[r][r] = s*s*app + 2*c*s*apr + c*c*arr
				a[p][r] = 0
				a[r][p] = 0

				for i := 0; i < n; i++ {
					qip, qir := q[i][p], q[i][r]
					q[i][p] = c*qip - s*qir
					q[i][r] = s*qip + c*qir
				}
			}
		}
	}

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = a[i][i]
	}
	return values, q
}

// topTwo returns the indices of the two largest values. For n == 1 both
// indices collapse to 0, which embeds a single point on one axis.
func topTwo(values []float64) (int, int) {
	first, second := 0, 0
	for i, v := range values {
		if v > values[first] {
			second = first
			first = i
		} else if i != first && (second == first || v > values[second]) {
			second = i
		}
	}
	if second == first && len(values) > 1 {
		if first == 0 {
			second = 1
		} else {
			second = 0
		}
	}
	return first, second
}
