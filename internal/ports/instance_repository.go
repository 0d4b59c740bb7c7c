package ports

import (
	"context"

	"ttp-solver-service/internal/domain"
)

// Summary row of a stored instance.
type InstanceInfo struct {
	Name      string
	Dimension int
	NumItems  int
	Capacity  int
}

// Port: a boundary for loading TTP instances from a data source.
type InstanceRepository interface {
	// List every stored instance, ordered by name.
	ListInstances(ctx context.Context) ([]InstanceInfo, error)
	// Load one instance. Returns domain.ErrInstanceNotFound for unknown names.
	GetInstance(ctx context.Context, name string) (*domain.Instance, error)
}
