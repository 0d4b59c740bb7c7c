package domain

import "math"

// Evaluation holds the metrics derived from a (tour, selection) pair.
// The four values are always computed together and never patched by hand.
type Evaluation struct {
	Profit    float64
	Time      float64
	Weight    int
	Objective float64
}

// Represents a candidate answer for one instance.
// A Solution is owned by the heuristic that builds it. Its derived metrics are
// only ever written by the evaluation engine.
type Solution struct {
	Tour      []int
	Selection []bool
	Evaluation
}

// NewSolution returns an unset solution whose objective is -Inf, so any
// evaluated solution dominates it.
func NewSolution() *Solution {
	return &Solution{Evaluation: Evaluation{Objective: math.Inf(-1)}}
}

// Clone returns a deep copy.
func (s *Solution) Clone() *Solution {
	if s == nil {
		return nil
	}
	return &Solution{
		Tour:       append([]int(nil), s.Tour...),
		Selection:  append([]bool(nil), s.Selection...),
		Evaluation: s.Evaluation,
	}
}

// SelectedCount returns how many items the solution collects.
func (s *Solution) SelectedCount() int {
	n := 0
	for _, picked := range s.Selection {
		if picked {
			n++
		}
	}
	return n
}

// IsValid reports whether the solution respects the knapsack capacity, covers
// every city exactly once and has one selection flag per item.
func (s *Solution) IsValid(inst *Instance) bool {
	if s == nil || inst == nil {
		return false
	}
	if s.Weight > inst.Capacity {
		return false
	}
	if len(s.Selection) != len(inst.Items) {
		return false
	}
	return IsPermutation(s.Tour, inst.Dimension)
}

// IsPermutation reports whether tour contains every city in [0, n) exactly once.
func IsPermutation(tour []int, n int) bool {
	if len(tour) != n {
		return false
	}
	seen := make([]bool, n)
	for _, c := range tour {
		if c < 0 || c >= n || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}
