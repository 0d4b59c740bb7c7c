package distance

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"ttp-solver-service/internal/domain"
	"ttp-solver-service/internal/ports"
)

// ErrUnsupportedEdgeWeightType is returned for an EDGE_WEIGHT_TYPE with no metric.
var ErrUnsupportedEdgeWeightType = errors.New("unsupported edge weight type")

// Edge weight types understood by MetricFor.
const (
	TypeCeil2D  = "CEIL_2D"
	TypeEuc2D   = "EUC_2D"
	TypeExact2D = "EXACT_2D"
)

// Euclidean rounded up, as used by the TTP benchmark instances.
type Ceil2D struct{}

func (Ceil2D) Distance(a, b domain.Coordinates) float64 {
	return math.Ceil(euclid(a, b))
}

// Euclidean rounded to the nearest integer (TSPLIB nint).
type Euc2D struct{}

func (Euc2D) Distance(a, b domain.Coordinates) float64 {
	return math.Floor(euclid(a, b) + 0.5)
}

// Plain Euclidean distance without rounding.
type Exact2D struct{}

func (Exact2D) Distance(a, b domain.Coordinates) float64 {
	return euclid(a, b)
}

func euclid(a, b domain.Coordinates) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// MetricFor maps an EDGE_WEIGHT_TYPE keyword to its metric.
// Matching ignores case and surrounding blanks.
func MetricFor(edgeWeightType string) (ports.DistanceMetric, error) {
	switch strings.ToUpper(strings.TrimSpace(edgeWeightType)) {
	case TypeCeil2D:
		return Ceil2D{}, nil
	case TypeEuc2D:
		return Euc2D{}, nil
	case TypeExact2D:
		return Exact2D{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEdgeWeightType, edgeWeightType)
	}
}
