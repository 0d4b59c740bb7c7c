package distance

import (
	"errors"

	"ttp-solver-service/internal/domain"
	"ttp-solver-service/internal/ports"
)

// Matrix builds the full symmetric distance matrix for coords.
// Only the upper triangle is computed; the diagonal stays zero.
func Matrix(coords []domain.Coordinates, metric ports.DistanceMetric) ([][]float64, error) {
	if metric == nil {
		return nil, errors.New("distance matrix: metric is nil")
	}

	n := len(coords)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := metric.Distance(coords[i], coords[j])
			out[i][j] = d
			out[j][i] = d
		}
	}

	return out, nil
}

// FromUpperTriangle expands the row-major strict upper triangle of an n x n
// matrix (n(n-1)/2 values) into a full symmetric matrix.
func FromUpperTriangle(n int, values []float64) ([][]float64, error) {
	if n < 0 {
		return nil, errors.New("upper triangle: negative dimension")
	}
	if want := n * (n - 1) / 2; len(values) != want {
		return nil, errors.New("upper triangle: wrong number of values")
	}

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}

	k := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out[i][j] = values[k]
			out[j][i] = values[k]
			k++
		}
	}

	return out, nil
}
