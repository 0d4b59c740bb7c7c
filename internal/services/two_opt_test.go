package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttp-solver-service/internal/domain"
)

func evaluatedSolution(inst *domain.Instance, tour []int, selection []bool) *domain.Solution {
	sol := domain.NewSolution()
	sol.Tour = tour
	sol.Selection = selection
	EvaluateSolution(inst, sol)
	return sol
}

func TestTwoOptUncrossesSquare(t *testing.T) {
	inst := squareInstance(t, nil, 10, 1, 1)
	sol := evaluatedSolution(inst, []int{0, 2, 1, 3}, []bool{})
	require.InDelta(t, 2+2*math.Sqrt2, sol.Time, 1e-12)

	stats, err := TwoOpt(inst, sol, TwoOptOptions{})
	require.NoError(t, err)

	assert.Positive(t, stats.Accepted)
	assert.InDelta(t, 4.0, sol.Time, 1e-12)
	assert.InDelta(t, -4.0, sol.Objective, 1e-12)
	assert.Equal(t, 0, sol.Tour[0])
}

func TestTwoOptEqualObjectiveIsRejected(t *testing.T) {
	inst := squareInstance(t, nil, 10, 1, 1)
	sol := evaluatedSolution(inst, []int{0, 1, 2, 3}, []bool{})
	before := sol.Clone()

	stats, err := TwoOpt(inst, sol, TwoOptOptions{})
	require.NoError(t, err)

	// Reversing 1..3 gives an equally long tour; it must not be taken.
	assert.Equal(t, 0, stats.Accepted)
	assert.Equal(t, 1, stats.Passes)
	assert.Equal(t, before.Tour, sol.Tour)
	assert.Equal(t, before.Evaluation, sol.Evaluation)
}

func TestTwoOptTwoCitiesIsNoOp(t *testing.T) {
	inst, err := domain.NewInstance(domain.InstanceParams{
		Distances:    [][]float64{{0, 3}, {3, 0}},
		Items:        []domain.Item{{Profit: 10, Weight: 5, City: 1}},
		Capacity:     5,
		MaxSpeed:     1,
		MinSpeed:     0.5,
		RentingRatio: 1,
	})
	require.NoError(t, err)

	sol, err := LocalSearch2Opt{}.Solve(inst)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, sol.Tour)
	assert.Equal(t, []bool{true}, sol.Selection)
	// 0->1 at speed 1, 1->0 fully loaded at speed 0.5.
	assert.InDelta(t, 9.0, sol.Time, 1e-12)
	assert.InDelta(t, 1.0, sol.Objective, 1e-12)

	stats, err := TwoOpt(inst, sol, TwoOptOptions{})
	require.NoError(t, err)
	assert.Equal(t, TwoOptStats{Passes: 1}, stats)
}

// orderSensitiveInstance is a 5-city tour problem without items, so the
// objective is minus the tour length. From the identity tour the first
// improving move is (1,3) while the best one is (2,4); scanning on after the
// first move and restarting after it lead to different tours.
func orderSensitiveInstance(t *testing.T) *domain.Instance {
	t.Helper()
	inst, err := domain.NewInstance(domain.InstanceParams{
		Name: "order-sensitive",
		Distances: [][]float64{
			{0, 6, 2, 5, 6},
			{6, 0, 9, 8, 9},
			{2, 9, 0, 4, 5},
			{5, 8, 4, 0, 9},
			{6, 9, 5, 9, 0},
		},
		MaxSpeed:     1,
		MinSpeed:     1,
		RentingRatio: 1,
	})
	require.NoError(t, err)
	return inst
}

func TestTwoOptFirstImprovementContinuesScan(t *testing.T) {
	inst := orderSensitiveInstance(t)
	sol := evaluatedSolution(inst, []int{0, 1, 2, 3, 4}, []bool{})
	require.Equal(t, -34.0, sol.Objective)

	stats, err := TwoOpt(inst, sol, TwoOptOptions{MaxPasses: 1})
	require.NoError(t, err)

	// (1,2) ties and is rejected, (1,3) is kept giving 0 3 2 1 4, and the same
	// pass then keeps (3,4).
	assert.Equal(t, []int{0, 3, 2, 4, 1}, sol.Tour)
	assert.Equal(t, TwoOptStats{Passes: 1, Accepted: 2, Evaluations: 6}, stats)
	assert.Equal(t, -29.0, sol.Objective)
}

func TestTwoOptRunsUntilStablePass(t *testing.T) {
	inst := orderSensitiveInstance(t)
	sol := evaluatedSolution(inst, []int{0, 1, 2, 3, 4}, []bool{})

	stats, err := TwoOpt(inst, sol, TwoOptOptions{})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 3, 2, 4, 1}, sol.Tour)
	assert.Equal(t, TwoOptStats{Passes: 2, Accepted: 2, Evaluations: 12}, stats)
}

func TestTwoOptStopsWhenDone(t *testing.T) {
	inst := orderSensitiveInstance(t)
	sol := evaluatedSolution(inst, []int{0, 1, 2, 3, 4}, []bool{})
	before := sol.Clone()

	done := make(chan struct{})
	close(done)

	stats, err := TwoOpt(inst, sol, TwoOptOptions{Done: done})
	require.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, TwoOptStats{Passes: 1}, stats)
	assert.Equal(t, before.Tour, sol.Tour)
	assert.Equal(t, before.Evaluation, sol.Evaluation)
}

func TestTwoOptNeverWorsensAndStaysConsistent(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		inst := randomEuclideanInstance(t, 12, 25, seed)
		tour := RandomTour(inst, NewRand(seed))
		sol := evaluatedSolution(inst, tour, RatioGreedySelection(inst, tour))
		before := sol.Objective

		_, err := TwoOpt(inst, sol, TwoOptOptions{})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, sol.Objective, before, "seed=%d", seed)
		assert.True(t, sol.IsValid(inst), "seed=%d", seed)
		assert.Equal(t, 0, sol.Tour[0])
		assert.Equal(t, Evaluate(inst, sol.Tour, sol.Selection), sol.Evaluation, "seed=%d", seed)
	}
}

func TestTwoOptRespectsPassCap(t *testing.T) {
	inst := randomEuclideanInstance(t, 15, 20, 42)
	tour := RandomTour(inst, NewRand(42))
	sol := evaluatedSolution(inst, tour, RatioGreedySelection(inst, tour))

	stats, err := TwoOpt(inst, sol, TwoOptOptions{MaxPasses: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Passes)

	n := inst.Dimension
	assert.Equal(t, (n-1)*(n-2)/2, stats.Evaluations)
}

func TestTwoOptUsesSelectorAfterEveryMove(t *testing.T) {
	inst := randomEuclideanInstance(t, 8, 10, 9)
	tour := SequentialTour(inst)
	sol := evaluatedSolution(inst, tour, ProfitGreedySelection(inst, tour))

	calls := 0
	selector := func(inst *domain.Instance, tour []int) []bool {
		calls++
		return ProfitGreedySelection(inst, tour)
	}

	stats, err := TwoOpt(inst, sol, TwoOptOptions{Selector: selector})
	require.NoError(t, err)
	assert.Equal(t, stats.Evaluations, calls)
}

func TestTwoOptRejectsMalformedSolution(t *testing.T) {
	inst := pickingInstance(t, 8)

	_, err := TwoOpt(inst, nil, TwoOptOptions{})
	assert.Error(t, err)

	_, err = TwoOpt(inst, evaluatedSolution(inst, []int{0, 1, 1, 3}, make([]bool, 4)), TwoOptOptions{})
	assert.Error(t, err)

	_, err = TwoOpt(inst, evaluatedSolution(inst, []int{0, 1, 2, 3}, make([]bool, 2)), TwoOptOptions{})
	assert.Error(t, err)
}

func TestReverseSegment(t *testing.T) {
	tour := []int{0, 1, 2, 3, 4, 5}
	reverseSegment(tour, 1, 4)
	assert.Equal(t, []int{0, 4, 3, 2, 1, 5}, tour)

	reverseSegment(tour, 2, 2)
	assert.Equal(t, []int{0, 4, 3, 2, 1, 5}, tour)
}
