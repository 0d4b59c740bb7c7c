package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttp-solver-service/internal/domain"
)

// pickingInstance: ratios A=10/6, B=3, C=4, D=+Inf (weight 0).
func pickingInstance(t *testing.T, capacity int) *domain.Instance {
	t.Helper()
	items := []domain.Item{
		{Profit: 10, Weight: 6, City: 1},
		{Profit: 9, Weight: 3, City: 2},
		{Profit: 8, Weight: 2, City: 3},
		{Profit: 1, Weight: 0, City: 1},
	}
	return squareInstance(t, items, capacity, 1, 0.1)
}

func TestRatioGreedySelection(t *testing.T) {
	inst := pickingInstance(t, 8)

	// D (free), C (2), B (5); A would reach 11.
	got := RatioGreedySelection(inst, SequentialTour(inst))
	assert.Equal(t, []bool{false, true, true, true}, got)
}

func TestProfitGreedySelectionSkipsAndContinues(t *testing.T) {
	inst := pickingInstance(t, 8)

	// A (6), B would reach 9 and is skipped, C (8), D (free).
	got := ProfitGreedySelection(inst, SequentialTour(inst))
	assert.Equal(t, []bool{true, false, true, true}, got)
}

func TestGreedySelectionZeroCapacity(t *testing.T) {
	inst := pickingInstance(t, 0)
	tour := SequentialTour(inst)

	want := []bool{false, false, false, true}
	assert.Equal(t, want, RatioGreedySelection(inst, tour))
	assert.Equal(t, want, ProfitGreedySelection(inst, tour))
}

func TestGreedySelectionTiesKeepInstanceOrder(t *testing.T) {
	items := []domain.Item{
		{Profit: 4, Weight: 2, City: 1},
		{Profit: 4, Weight: 2, City: 2},
		{Profit: 4, Weight: 2, City: 3},
	}
	inst := squareInstance(t, items, 4, 1, 0.1)
	tour := SequentialTour(inst)

	assert.Equal(t, []bool{true, true, false}, RatioGreedySelection(inst, tour))
	assert.Equal(t, []bool{true, true, false}, ProfitGreedySelection(inst, tour))
}

func TestGreedySelectionExactFit(t *testing.T) {
	inst, err := domain.NewInstance(domain.InstanceParams{
		Distances:    [][]float64{{0, 3}, {3, 0}},
		Items:        []domain.Item{{Profit: 10, Weight: 5, City: 1}},
		Capacity:     5,
		MaxSpeed:     1,
		MinSpeed:     0.5,
		RentingRatio: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, []bool{true}, RatioGreedySelection(inst, []int{0, 1}))
}

func TestGreedySelectionNeverExceedsCapacity(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		inst := randomEuclideanInstance(t, 10, 40, seed)
		tour := SequentialTour(inst)

		for _, sel := range [][]bool{
			RatioGreedySelection(inst, tour),
			ProfitGreedySelection(inst, tour),
		} {
			require.Len(t, sel, inst.NumItems())
			ev := Evaluate(inst, tour, sel)
			assert.LessOrEqual(t, ev.Weight, inst.Capacity, "seed=%d", seed)
		}
	}
}

func TestEmptySelection(t *testing.T) {
	inst := pickingInstance(t, 8)
	sel := EmptySelection(inst)
	assert.Len(t, sel, 4)
	assert.NotContains(t, sel, true)
}
