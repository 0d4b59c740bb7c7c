package domain

// Represents a single collectible item.
// An Item lives at exactly one city and can only be picked up when the thief
// visits that city. Weight and Profit are integral, as in the benchmark files.
type Item struct {
	Index  int
	Profit int
	Weight int
	City   int
}
