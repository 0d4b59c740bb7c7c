package domain

import (
	"fmt"
	"math"
)

// Instance is the read-only description of a Traveling Thief Problem.
//
// An Instance is built once by NewInstance and shared by every heuristic of a
// run; nothing in the solver mutates it after construction.
type Instance struct {
	Name         string
	Dimension    int
	Distances    [][]float64
	Items        []Item
	Capacity     int
	MaxSpeed     float64
	MinSpeed     float64
	RentingRatio float64

	itemsByCity [][]int
}

// InstanceParams carries the raw values a reader collected before validation.
type InstanceParams struct {
	Name         string
	Distances    [][]float64
	Items        []Item
	Capacity     int
	MaxSpeed     float64
	MinSpeed     float64
	RentingRatio float64
}

// NewInstance validates p and returns an immutable Instance.
// Item indices are renumbered to their position in p.Items.
func NewInstance(p InstanceParams) (*Instance, error) {
	items := make([]Item, len(p.Items))
	copy(items, p.Items)
	for i := range items {
		items[i].Index = i
	}

	dist := make([][]float64, len(p.Distances))
	for i, row := range p.Distances {
		dist[i] = append([]float64(nil), row...)
	}

	inst := &Instance{
		Name:         p.Name,
		Dimension:    len(dist),
		Distances:    dist,
		Items:        items,
		Capacity:     p.Capacity,
		MaxSpeed:     p.MaxSpeed,
		MinSpeed:     p.MinSpeed,
		RentingRatio: p.RentingRatio,
	}

	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("new instance %q: %w", p.Name, err)
	}

	inst.itemsByCity = make([][]int, inst.Dimension)
	for _, it := range inst.Items {
		inst.itemsByCity[it.City] = append(inst.itemsByCity[it.City], it.Index)
	}

	return inst, nil
}

// Validate checks every structural invariant of the instance.
// The first violation found is returned, wrapped with its location.
func (inst *Instance) Validate() error {
	n := inst.Dimension
	if n < 1 {
		return ErrInvalidDimension
	}
	if len(inst.Distances) != n {
		return fmt.Errorf("%w: got %d rows, want %d", ErrNonSquare, len(inst.Distances), n)
	}
	for i, row := range inst.Distances {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrNonSquare, i, len(row), n)
		}
	}

	for i := 0; i < n; i++ {
		if inst.Distances[i][i] != 0 {
			return fmt.Errorf("%w: d[%d][%d]=%v", ErrNonZeroDiagonal, i, i, inst.Distances[i][i])
		}
		for j := i + 1; j < n; j++ {
			dij := inst.Distances[i][j]
			dji := inst.Distances[j][i]
			if math.IsNaN(dij) || math.IsInf(dij, 0) || math.IsNaN(dji) || math.IsInf(dji, 0) {
				return fmt.Errorf("%w: d[%d][%d]", ErrNonFiniteDistance, i, j)
			}
			if dij < 0 || dji < 0 {
				return fmt.Errorf("%w: d[%d][%d]", ErrNegativeDistance, i, j)
			}
			if dij != dji {
				return fmt.Errorf("%w: d[%d][%d]=%v, d[%d][%d]=%v", ErrAsymmetric, i, j, dij, j, i, dji)
			}
		}
	}

	if inst.Capacity < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCapacity, inst.Capacity)
	}
	if !(inst.MinSpeed > 0) || inst.MaxSpeed < inst.MinSpeed || math.IsInf(inst.MaxSpeed, 0) {
		return fmt.Errorf("%w: max=%v min=%v", ErrInvalidSpeed, inst.MaxSpeed, inst.MinSpeed)
	}
	if !(inst.RentingRatio >= 0) || math.IsInf(inst.RentingRatio, 0) {
		return fmt.Errorf("%w: %v", ErrNegativeRentingRatio, inst.RentingRatio)
	}

	for i, it := range inst.Items {
		if it.Weight < 0 || it.Profit < 0 {
			return fmt.Errorf("%w: item %d weight=%d profit=%d", ErrNegativeItem, i, it.Weight, it.Profit)
		}
		if it.City < 0 || it.City >= n {
			return fmt.Errorf("%w: item %d city=%d dimension=%d", ErrItemCityOutOfRange, i, it.City, n)
		}
	}

	return nil
}

// NumItems returns the number of items in the instance.
func (inst *Instance) NumItems() int { return len(inst.Items) }

// ItemsAt returns the indices of the items located at city.
// The returned slice is shared and must not be modified.
func (inst *Instance) ItemsAt(city int) []int {
	if city < 0 || city >= len(inst.itemsByCity) {
		return nil
	}
	return inst.itemsByCity[city]
}

// VelocitySlope is the speed lost per unit of carried weight.
// With zero capacity no weight can ever be carried, so the slope is zero.
func (inst *Instance) VelocitySlope() float64 {
	if inst.Capacity == 0 {
		return 0
	}
	return (inst.MaxSpeed - inst.MinSpeed) / float64(inst.Capacity)
}

// HasDegenerateSpeed reports a constant-speed instance that still has a knapsack.
// It is legal, but weight then has no effect on travel time.
func (inst *Instance) HasDegenerateSpeed() bool {
	return inst.MaxSpeed == inst.MinSpeed && inst.Capacity != 0
}

// TotalItemWeight sums the weight of every item, selected or not.
func (inst *Instance) TotalItemWeight() int {
	total := 0
	for _, it := range inst.Items {
		total += it.Weight
	}
	return total
}
