package services

import (
	"math"

	"ttp-solver-service/internal/domain"
)

// Evaluate computes profit, travel time, carried weight and objective for a
// full tour and an item selection.
//
// The tour is walked as a cycle. The speed on each leg depends on the weight
// carried when leaving its origin; items at the destination only count for the
// legs that follow. Evaluate has no side effects and is always a full
// recomputation, so repeated calls inside local search never accumulate drift.
//
// Overweight selections can push the speed to zero or below; the leg time is
// then +Inf instead of a division by a non-positive speed. Such solutions are
// invalid and never reported as best.
func Evaluate(inst *domain.Instance, tour []int, selection []bool) domain.Evaluation {
	var ev domain.Evaluation

	for i, picked := range selection {
		if picked && i < len(inst.Items) {
			ev.Profit += float64(inst.Items[i].Profit)
			ev.Weight += inst.Items[i].Weight
		}
	}

	slope := inst.VelocitySlope()
	n := len(tour)
	carried := 0

	for i := 0; i < n; i++ {
		from := tour[i]
		to := tour[(i+1)%n]

		velocity := inst.MaxSpeed - slope*float64(carried)
		if velocity <= 0 {
			ev.Time = math.Inf(1)
		} else {
			ev.Time += inst.Distances[from][to] / velocity
		}

		for _, k := range inst.ItemsAt(to) {
			if k < len(selection) && selection[k] {
				carried += inst.Items[k].Weight
			}
		}
	}

	ev.Objective = ev.Profit - ev.Time*inst.RentingRatio
	if math.IsNaN(ev.Objective) {
		// +Inf time with a zero renting ratio
		ev.Objective = math.Inf(-1)
	}
	return ev
}

// EvaluateSolution recomputes the derived metrics of sol in place.
func EvaluateSolution(inst *domain.Instance, sol *domain.Solution) {
	sol.Evaluation = Evaluate(inst, sol.Tour, sol.Selection)
}
