package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareParams() InstanceParams {
	d := math.Sqrt2
	return InstanceParams{
		Name: "square",
		Distances: [][]float64{
			{0, 1, d, 1},
			{1, 0, 1, d},
			{d, 1, 0, 1},
			{1, d, 1, 0},
		},
		Items: []Item{
			{Profit: 10, Weight: 5, City: 1},
			{Profit: 4, Weight: 2, City: 1},
			{Profit: 7, Weight: 3, City: 3},
		},
		Capacity:     10,
		MaxSpeed:     1,
		MinSpeed:     0.1,
		RentingRatio: 1,
	}
}

func TestNewInstanceBuildsCityIndex(t *testing.T) {
	inst, err := NewInstance(squareParams())
	require.NoError(t, err)

	assert.Equal(t, 4, inst.Dimension)
	assert.Equal(t, 3, inst.NumItems())
	assert.Equal(t, []int{0, 1}, inst.ItemsAt(1))
	assert.Equal(t, []int{2}, inst.ItemsAt(3))
	assert.Empty(t, inst.ItemsAt(0))
	assert.Nil(t, inst.ItemsAt(99))
	assert.Equal(t, 10, inst.TotalItemWeight())

	for i, it := range inst.Items {
		assert.Equal(t, i, it.Index)
	}
}

func TestNewInstanceCopiesInput(t *testing.T) {
	p := squareParams()
	inst, err := NewInstance(p)
	require.NoError(t, err)

	p.Distances[0][1] = 42
	p.Items[0].Profit = 99

	assert.Equal(t, 1.0, inst.Distances[0][1])
	assert.Equal(t, 10, inst.Items[0].Profit)
}

func TestInstanceValidateRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *InstanceParams)
		want   error
	}{
		{"empty", func(p *InstanceParams) { p.Distances = nil }, ErrInvalidDimension},
		{"ragged row", func(p *InstanceParams) { p.Distances[2] = []float64{0, 1} }, ErrNonSquare},
		{"asymmetric", func(p *InstanceParams) { p.Distances[0][1] = 2 }, ErrAsymmetric},
		{"negative distance", func(p *InstanceParams) {
			p.Distances[0][1] = -1
			p.Distances[1][0] = -1
		}, ErrNegativeDistance},
		{"diagonal", func(p *InstanceParams) { p.Distances[2][2] = 3 }, ErrNonZeroDiagonal},
		{"nan", func(p *InstanceParams) { p.Distances[0][3] = math.NaN() }, ErrNonFiniteDistance},
		{"negative capacity", func(p *InstanceParams) { p.Capacity = -1 }, ErrNegativeCapacity},
		{"zero min speed", func(p *InstanceParams) { p.MinSpeed = 0 }, ErrInvalidSpeed},
		{"max below min", func(p *InstanceParams) { p.MaxSpeed = 0.05 }, ErrInvalidSpeed},
		{"negative renting", func(p *InstanceParams) { p.RentingRatio = -0.5 }, ErrNegativeRentingRatio},
		{"negative weight", func(p *InstanceParams) { p.Items[1].Weight = -3 }, ErrNegativeItem},
		{"negative profit", func(p *InstanceParams) { p.Items[2].Profit = -3 }, ErrNegativeItem},
		{"city out of range", func(p *InstanceParams) { p.Items[0].City = 4 }, ErrItemCityOutOfRange},
		{"negative city", func(p *InstanceParams) { p.Items[0].City = -1 }, ErrItemCityOutOfRange},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := squareParams()
			tc.mutate(&p)
			_, err := NewInstance(p)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestVelocitySlope(t *testing.T) {
	inst, err := NewInstance(squareParams())
	require.NoError(t, err)
	assert.InDelta(t, 0.09, inst.VelocitySlope(), 1e-12)
	assert.False(t, inst.HasDegenerateSpeed())

	p := squareParams()
	p.Capacity = 0
	zero, err := NewInstance(p)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero.VelocitySlope())

	p = squareParams()
	p.MinSpeed = p.MaxSpeed
	flat, err := NewInstance(p)
	require.NoError(t, err)
	assert.True(t, flat.HasDegenerateSpeed())
	assert.Equal(t, 0.0, flat.VelocitySlope())
}

func TestSolutionValidity(t *testing.T) {
	inst, err := NewInstance(squareParams())
	require.NoError(t, err)

	empty := NewSolution()
	assert.True(t, math.IsInf(empty.Objective, -1))
	assert.False(t, empty.IsValid(inst))

	sol := &Solution{
		Tour:       []int{0, 1, 2, 3},
		Selection:  []bool{true, false, true},
		Evaluation: Evaluation{Weight: 8},
	}
	assert.True(t, sol.IsValid(inst))
	assert.Equal(t, 2, sol.SelectedCount())

	over := sol.Clone()
	over.Weight = 11
	assert.False(t, over.IsValid(inst))

	dup := sol.Clone()
	dup.Tour[3] = 1
	assert.False(t, dup.IsValid(inst))
	assert.Equal(t, []int{0, 1, 2, 3}, sol.Tour, "clone must not alias the tour")

	short := sol.Clone()
	short.Selection = short.Selection[:2]
	assert.False(t, short.IsValid(inst))
}

func TestIsPermutation(t *testing.T) {
	assert.True(t, IsPermutation([]int{2, 0, 1}, 3))
	assert.False(t, IsPermutation([]int{0, 1}, 3))
	assert.False(t, IsPermutation([]int{0, 1, 3}, 3))
	assert.False(t, IsPermutation([]int{0, 0, 1}, 3))
	assert.True(t, IsPermutation([]int{0}, 1))
}
