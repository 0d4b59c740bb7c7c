package services

import (
	"errors"
	"fmt"

	"ttp-solver-service/internal/domain"
)

// DefaultTwoOptMaxPasses bounds the number of full neighbourhood scans.
const DefaultTwoOptMaxPasses = 100

// ErrInterrupted is returned by TwoOpt when its Done channel closes mid-search.
var ErrInterrupted = errors.New("two-opt: search interrupted")

// TwoOptOptions configures TwoOpt. The zero value uses the defaults.
type TwoOptOptions struct {
	// MaxPasses is a hard cap on full scans; 0 means DefaultTwoOptMaxPasses.
	MaxPasses int
	// Selector recomputes the picking plan after each reversal; nil means
	// RatioGreedySelection.
	Selector ItemSelector
	// Done stops the search before the next scan row once closed. The solution
	// is left consistent: every move so far was either kept or fully undone.
	Done <-chan struct{}
}

// TwoOptStats summarizes one local-search run.
type TwoOptStats struct {
	Passes      int
	Accepted    int
	Evaluations int
}

// TwoOpt improves sol in place by first-improvement segment reversal.
//
// For every pair of positions 1 <= i < j < n the segment tour[i..j] is
// reversed, the selection is recomputed for the new order and the solution is
// re-evaluated from scratch. A move is kept only when the objective strictly
// increases; otherwise the tour, the selection and every derived metric are
// restored exactly. The scan continues on the mutated tour.
//
// Passes repeat until one makes no improvement or MaxPasses passes have run,
// so the returned objective is never below the input's. Position 0 is the
// fixed anchor and never moves. A closed Done channel ends the search early
// with ErrInterrupted.
//
// Complexity: O(passes · n² · (n + m)) with m items.
func TwoOpt(inst *domain.Instance, sol *domain.Solution, opts TwoOptOptions) (TwoOptStats, error) {
	var stats TwoOptStats

	if sol == nil {
		return stats, errors.New("two-opt: solution must be non-nil")
	}
	if !domain.IsPermutation(sol.Tour, inst.Dimension) {
		return stats, fmt.Errorf("two-opt: tour is not a permutation of %d cities", inst.Dimension)
	}
	if len(sol.Selection) != inst.NumItems() {
		return stats, fmt.Errorf("two-opt: selection has %d flags, instance has %d items", len(sol.Selection), inst.NumItems())
	}

	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultTwoOptMaxPasses
	}
	selector := opts.Selector
	if selector == nil {
		selector = RatioGreedySelection
	}

	n := len(sol.Tour)
	for stats.Passes < maxPasses {
		stats.Passes++
		improved, err := twoOptPass(inst, sol, n, selector, opts.Done, &stats)
		if err != nil {
			return stats, err
		}
		if !improved {
			break
		}
	}

	return stats, nil
}

// twoOptPass scans every segment once and reports whether any move was kept.
func twoOptPass(inst *domain.Instance, sol *domain.Solution, n int, selector ItemSelector, done <-chan struct{}, stats *TwoOptStats) (bool, error) {
	improved := false

	for i := 1; i < n-1; i++ {
		select {
		case <-done:
			return improved, ErrInterrupted
		default:
		}

		for j := i + 1; j < n; j++ {
			prevSelection := sol.Selection
			prevEval := sol.Evaluation

			reverseSegment(sol.Tour, i, j)
			sol.Selection = selector(inst, sol.Tour)
			EvaluateSolution(inst, sol)
			stats.Evaluations++

			if sol.Objective > prevEval.Objective {
				improved = true
				stats.Accepted++
				continue
			}

			reverseSegment(sol.Tour, i, j)
			sol.Selection = prevSelection
			sol.Evaluation = prevEval
		}
	}

	return improved, nil
}

// reverseSegment reverses tour[i..j] in place.
func reverseSegment(tour []int, i, j int) {
	for i < j {
		tour[i], tour[j] = tour[j], tour[i]
		i++
		j--
	}
}
