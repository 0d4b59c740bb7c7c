package services

import (
	"fmt"
	"math"
	"math/rand"

	"ttp-solver-service/internal/domain"
)

// SequentialTour visits the cities in index order. It is the deterministic baseline.
func SequentialTour(inst *domain.Instance) []int {
	tour := make([]int, inst.Dimension)
	for i := range tour {
		tour[i] = i
	}
	return tour
}

// RandomTour returns a uniformly random permutation with city 0 kept first.
func RandomTour(inst *domain.Instance, rng *rand.Rand) []int {
	tour := SequentialTour(inst)
	shuffleTail(tour, 1, rng)
	return tour
}

// NearestNeighborTour builds a tour greedily from start, always moving to the
// closest unvisited city.
//
// Candidates are scanned in index order with a strict comparison, so on equal
// distances the lowest index wins.
func NearestNeighborTour(inst *domain.Instance, start int) ([]int, error) {
	n := inst.Dimension
	if start < 0 || start >= n {
		return nil, fmt.Errorf("nearest neighbor tour: start=%d dimension=%d: %w", start, n, domain.ErrStartOutOfRange)
	}

	tour := make([]int, 0, n)
	visited := make([]bool, n)

	current := start
	tour = append(tour, current)
	visited[current] = true

	for len(tour) < n {
		minDist := math.Inf(1)
		nearest := -1

		row := inst.Distances[current]
		for j := 0; j < n; j++ {
			if !visited[j] && row[j] < minDist {
				minDist = row[j]
				nearest = j
			}
		}

		if nearest == -1 {
			return nil, fmt.Errorf("nearest neighbor tour: no reachable city from %d", current)
		}

		tour = append(tour, nearest)
		visited[nearest] = true
		current = nearest
	}

	return tour, nil
}

// ProbabilisticNearestNeighborTour extends the tour by sampling the next city
// from a softmax over negative distances:
//
//	P(c) ∝ exp(-d(current, c) / temperature)
//
// One uniform draw in [0,1) per step is matched against the cumulative
// probabilities (roulette wheel). Low temperatures concentrate the mass on the
// nearest city, high temperatures flatten it towards a uniform choice.
//
// Weights are taken relative to the nearest candidate, which leaves the
// distribution unchanged but keeps it well defined when exp underflows.
func ProbabilisticNearestNeighborTour(inst *domain.Instance, start int, temperature float64, rng *rand.Rand) ([]int, error) {
	if err := ValidateTemperature(temperature); err != nil {
		return nil, fmt.Errorf("probabilistic nearest neighbor tour: %w", err)
	}

	n := inst.Dimension
	if start < 0 || start >= n {
		return nil, fmt.Errorf("probabilistic nearest neighbor tour: start=%d dimension=%d: %w", start, n, domain.ErrStartOutOfRange)
	}

	tour := make([]int, 0, n)
	visited := make([]bool, n)
	candidates := make([]int, 0, n)
	weights := make([]float64, 0, n)

	current := start
	tour = append(tour, current)
	visited[current] = true

	for len(tour) < n {
		candidates = candidates[:0]
		weights = weights[:0]

		row := inst.Distances[current]
		minDist := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			candidates = append(candidates, j)
			if row[j] < minDist {
				minDist = row[j]
			}
		}

		sum := 0.0
		for _, c := range candidates {
			w := math.Exp(-(row[c] - minDist) / temperature)
			weights = append(weights, w)
			sum += w
		}

		next := rouletteSelect(candidates, weights, sum, rng.Float64())

		tour = append(tour, next)
		visited[next] = true
		current = next
	}

	return tour, nil
}

// rouletteSelect returns the first candidate whose cumulative probability
// exceeds r. Rounding can leave the total slightly under 1, in which case the
// last candidate is chosen.
func rouletteSelect(candidates []int, weights []float64, sum float64, r float64) int {
	cumulative := 0.0
	for i, c := range candidates {
		cumulative += weights[i] / sum
		if r < cumulative {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

// ValidateTemperature rejects non-positive, NaN and infinite temperatures.
func ValidateTemperature(temperature float64) error {
	if !(temperature > 0) || math.IsInf(temperature, 0) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidTemperature, temperature)
	}
	return nil
}
