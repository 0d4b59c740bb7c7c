package reader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"ttp-solver-service/internal/adapters/distance"
	"ttp-solver-service/internal/domain"
)

// Document is the JSON encoding of an instance. It is the request payload of
// the HTTP API and the row payload of the instance store.
//
// Either Distances or Coordinates must be given. Coordinates are turned into
// distances with EdgeWeightType, CEIL_2D when empty.
//
// The city_limit and item_limit tags need a validator from NewValidator.
type Document struct {
	Name           string         `json:"name,omitempty"`
	Distances      [][]float64    `json:"distances,omitempty" validate:"omitempty,city_limit"`
	Coordinates    []Point        `json:"coordinates,omitempty" validate:"omitempty,city_limit,dive"`
	EdgeWeightType string         `json:"edge_weight_type,omitempty" validate:"omitempty,oneof=CEIL_2D EUC_2D EXACT_2D"`
	Items          []DocumentItem `json:"items" validate:"item_limit,dive"`
	Capacity       int            `json:"capacity" validate:"gte=0"`
	MaxSpeed       float64        `json:"max_speed" validate:"gt=0"`
	MinSpeed       float64        `json:"min_speed" validate:"gt=0,ltefield=MaxSpeed"`
	RentingRatio   float64        `json:"renting_ratio" validate:"gte=0"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type DocumentItem struct {
	Profit int `json:"profit" validate:"gte=0"`
	Weight int `json:"weight" validate:"gte=0"`
	City   int `json:"city" validate:"gte=0"`
}

// ErrTooLarge marks an instance over the configured size limits.
var ErrTooLarge = errors.New("instance too large")

// SizeLimits caps the cities and items of one instance. Zero fields fall back
// to MaxDimension and MaxItems.
type SizeLimits struct {
	MaxDimension int
	MaxItems     int
}

func (l SizeLimits) dimension() int {
	if l.MaxDimension <= 0 || l.MaxDimension > MaxDimension {
		return MaxDimension
	}
	return l.MaxDimension
}

func (l SizeLimits) items() int {
	if l.MaxItems <= 0 || l.MaxItems > MaxItems {
		return MaxItems
	}
	return l.MaxItems
}

// Check reports ErrTooLarge when inst exceeds l.
func (l SizeLimits) Check(inst *domain.Instance) error {
	if inst.Dimension > l.dimension() {
		return fmt.Errorf("%w: %d cities, limit %d", ErrTooLarge, inst.Dimension, l.dimension())
	}
	if inst.NumItems() > l.items() {
		return fmt.Errorf("%w: %d items, limit %d", ErrTooLarge, inst.NumItems(), l.items())
	}
	return nil
}

// NewValidator returns a validator that enforces l through the city_limit and
// item_limit tags of Document.
func NewValidator(l SizeLimits) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "city_limit", maxLen(l.dimension()))
	mustRegister(v, "item_limit", maxLen(l.items()))
	return v
}

func maxLen(limit int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return fl.Field().Len() <= limit
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("reader: register %s: %v", tag, err))
	}
}

// Instance validates the document and builds the domain instance.
// defaultName is used when the document has no name.
func (d *Document) Instance(defaultName string) (*domain.Instance, error) {
	if d == nil {
		return nil, errors.New("document is nil")
	}

	p := domain.InstanceParams{
		Name:         d.Name,
		Distances:    d.Distances,
		Capacity:     d.Capacity,
		MaxSpeed:     d.MaxSpeed,
		MinSpeed:     d.MinSpeed,
		RentingRatio: d.RentingRatio,
	}
	if p.Name == "" {
		p.Name = defaultName
	}

	switch {
	case len(d.Distances) > MaxDimension || len(d.Coordinates) > MaxDimension:
		return nil, fmt.Errorf("%w: more than %d cities", ErrMalformed, MaxDimension)
	case len(d.Items) > MaxItems:
		return nil, fmt.Errorf("%w: more than %d items", ErrMalformed, MaxItems)
	case len(d.Distances) > 0 && len(d.Coordinates) > 0:
		return nil, fmt.Errorf("%w: give distances or coordinates, not both", ErrMalformed)
	case len(d.Coordinates) > 0:
		edgeType := d.EdgeWeightType
		if edgeType == "" {
			edgeType = distance.TypeCeil2D
		}
		metric, err := distance.MetricFor(edgeType)
		if err != nil {
			return nil, err
		}
		coords := make([]domain.Coordinates, len(d.Coordinates))
		for i, pt := range d.Coordinates {
			coords[i] = domain.Coordinates{X: pt.X, Y: pt.Y}
		}
		if p.Distances, err = distance.Matrix(coords, metric); err != nil {
			return nil, err
		}
	}

	p.Items = make([]domain.Item, len(d.Items))
	for i, it := range d.Items {
		p.Items[i] = domain.Item{Profit: it.Profit, Weight: it.Weight, City: it.City}
	}

	return domain.NewInstance(p)
}

// FromInstance encodes inst with its full distance matrix.
func FromInstance(inst *domain.Instance) Document {
	d := Document{
		Name:         inst.Name,
		Distances:    inst.Distances,
		Items:        make([]DocumentItem, len(inst.Items)),
		Capacity:     inst.Capacity,
		MaxSpeed:     inst.MaxSpeed,
		MinSpeed:     inst.MinSpeed,
		RentingRatio: inst.RentingRatio,
	}
	for i, it := range inst.Items {
		d.Items[i] = DocumentItem{Profit: it.Profit, Weight: it.Weight, City: it.City}
	}
	return d
}

// DecodeJSON parses a single Document from r.
func DecodeJSON(r io.Reader, defaultName string) (*domain.Instance, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w: %v", ErrMalformed, err)
	}

	inst, err := doc.Instance(defaultName)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return inst, nil
}
