package ports

import "ttp-solver-service/internal/domain"

// Contract for turning two node coordinates into a travel distance.
type DistanceMetric interface {
	// Return the distance between a and b. Must be symmetric and non-negative.
	Distance(a, b domain.Coordinates) float64
}
