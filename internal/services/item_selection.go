package services

import (
	"math"
	"slices"

	"ttp-solver-service/internal/domain"
)

// ItemSelector chooses the items to collect for a given tour.
// Local search re-runs the selector after every tour change.
type ItemSelector func(inst *domain.Instance, tour []int) []bool

// EmptySelection collects nothing.
func EmptySelection(inst *domain.Instance) []bool {
	return make([]bool, inst.NumItems())
}

// RatioGreedySelection fills the knapsack in decreasing profit/weight order.
//
// Zero-weight items have an infinite ratio and always come first; they never
// consume capacity. With zero capacity every item with a positive weight is
// left behind. Ties keep the item order of the instance.
func RatioGreedySelection(inst *domain.Instance, tour []int) []bool {
	order := itemOrder(inst)
	ratio := make([]float64, inst.NumItems())
	for i, it := range inst.Items {
		ratio[i] = itemRatio(it)
	}

	slices.SortStableFunc(order, func(a, b int) int {
		return compareDesc(ratio[a], ratio[b])
	})

	return greedyFill(inst, order)
}

// ProfitGreedySelection fills the knapsack in decreasing absolute profit order.
// Ties keep the item order of the instance.
func ProfitGreedySelection(inst *domain.Instance, tour []int) []bool {
	order := itemOrder(inst)

	slices.SortStableFunc(order, func(a, b int) int {
		return compareDesc(float64(inst.Items[a].Profit), float64(inst.Items[b].Profit))
	})

	return greedyFill(inst, order)
}

func itemRatio(it domain.Item) float64 {
	if it.Weight == 0 {
		return math.Inf(1)
	}
	return float64(it.Profit) / float64(it.Weight)
}

func itemOrder(inst *domain.Instance) []int {
	order := make([]int, inst.NumItems())
	for i := range order {
		order[i] = i
	}
	return order
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// greedyFill takes items in the given order while the cumulative weight stays
// within capacity. Items that do not fit are skipped, later lighter ones may
// still be taken.
func greedyFill(inst *domain.Instance, order []int) []bool {
	selection := make([]bool, inst.NumItems())
	carried := 0
	for _, k := range order {
		w := inst.Items[k].Weight
		if carried+w <= inst.Capacity {
			selection[k] = true
			carried += w
		}
	}
	return selection
}
