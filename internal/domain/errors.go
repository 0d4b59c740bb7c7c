package domain

import "errors"

// Instance validation failures. Readers and the API wrap these with the
// offending index or value, so callers should match with errors.Is.
var (
	ErrInvalidDimension     = errors.New("dimension must be at least 1")
	ErrNonSquare            = errors.New("distance matrix must be dimension x dimension")
	ErrAsymmetric           = errors.New("distance matrix must be symmetric")
	ErrNegativeDistance     = errors.New("distances must be non-negative")
	ErrNonZeroDiagonal      = errors.New("distance from a city to itself must be zero")
	ErrNonFiniteDistance    = errors.New("distances must be finite")
	ErrNegativeCapacity     = errors.New("capacity must be non-negative")
	ErrInvalidSpeed         = errors.New("speeds must satisfy max_speed >= min_speed > 0")
	ErrNegativeRentingRatio = errors.New("renting ratio must be non-negative")
	ErrNegativeItem         = errors.New("item weight and profit must be non-negative")
	ErrItemCityOutOfRange   = errors.New("item city out of range")
)

// Heuristic parameter failures.
var (
	ErrInvalidTemperature = errors.New("temperature must be a finite positive number")
	ErrStartOutOfRange    = errors.New("start city out of range")
)

// ErrInstanceNotFound is returned by instance stores for an unknown name.
var ErrInstanceNotFound = errors.New("instance not found")
