package services

import (
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"ttp-solver-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// squareInstance is the unit square with 0-1-2-3 around the perimeter.
func squareInstance(t *testing.T, items []domain.Item, capacity int, maxSpeed, minSpeed float64) *domain.Instance {
	t.Helper()
	d := math.Sqrt2
	inst, err := domain.NewInstance(domain.InstanceParams{
		Name: "square",
		Distances: [][]float64{
			{0, 1, d, 1},
			{1, 0, 1, d},
			{d, 1, 0, 1},
			{1, d, 1, 0},
		},
		Items:        items,
		Capacity:     capacity,
		MaxSpeed:     maxSpeed,
		MinSpeed:     minSpeed,
		RentingRatio: 1,
	})
	require.NoError(t, err)
	return inst
}

// randomEuclideanInstance places n cities uniformly in a 100x100 square and
// scatters m items over them.
func randomEuclideanInstance(t *testing.T, n, m int, seed int64) *domain.Instance {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = rng.Float64() * 100
		ys[i] = rng.Float64() * 100
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Hypot(xs[i]-xs[j], ys[i]-ys[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	items := make([]domain.Item, m)
	total := 0
	for k := range items {
		items[k] = domain.Item{
			Profit: rng.Intn(100),
			Weight: rng.Intn(50),
			City:   1 + rng.Intn(max(n-1, 1)),
		}
		if n == 1 {
			items[k].City = 0
		}
		total += items[k].Weight
	}

	inst, err := domain.NewInstance(domain.InstanceParams{
		Name:         "random",
		Distances:    dist,
		Items:        items,
		Capacity:     total / 3,
		MaxSpeed:     1,
		MinSpeed:     0.1,
		RentingRatio: 0.5,
	})
	require.NoError(t, err)
	return inst
}

// stubHeuristic returns a fixed solution or error.
type stubHeuristic struct {
	name  string
	sol   *domain.Solution
	err   error
	calls int
}

func (s *stubHeuristic) Name() string { return s.name }

func (s *stubHeuristic) Solve(*domain.Instance) (*domain.Solution, error) {
	s.calls++
	return s.sol, s.err
}
