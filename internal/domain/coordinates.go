package domain

// Immutable planar node coordinates as they appear in a TTP benchmark file.
type Coordinates struct {
	X float64
	Y float64
}
