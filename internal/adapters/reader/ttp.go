package reader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ttp-solver-service/internal/adapters/distance"
	"ttp-solver-service/internal/domain"
)

// Header keys of the TTP benchmark format.
const (
	keyProblemName    = "PROBLEM NAME"
	keyDimension      = "DIMENSION"
	keyNumberOfItems  = "NUMBER OF ITEMS"
	keyCapacity       = "CAPACITY OF KNAPSACK"
	keyMinSpeed       = "MIN SPEED"
	keyMaxSpeed       = "MAX SPEED"
	keyRentingRatio   = "RENTING RATIO"
	keyEdgeWeightType = "EDGE_WEIGHT_TYPE"

	sectionNodes = "NODE_COORD_SECTION"
	sectionItems = "ITEMS SECTION"
)

type ttpSection int

const (
	inHeader ttpSection = iota
	inNodes
	inItems
)

// DecodeTTP parses the TTP benchmark format: a "KEY: value" header, a
// NODE_COORD_SECTION of "index x y" rows and an ITEMS SECTION of
// "index profit weight node" rows. Node and item indices are 1-based.
// Distances are computed from the coordinates with the declared
// EDGE_WEIGHT_TYPE, CEIL_2D when absent.
func DecodeTTP(r io.Reader, defaultName string) (*domain.Instance, error) {
	var (
		p            = domain.InstanceParams{Name: defaultName}
		dimension    = -1
		numItems     = -1
		edgeType     = distance.TypeCeil2D
		coords       []domain.Coordinates
		coordSeen    []bool
		itemSeen     []bool
		section      = inHeader
		lineNo       int
		headerFields = map[string]bool{}
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)

		switch {
		case upper == "EOF":
			section = inHeader
			continue
		case strings.HasPrefix(upper, sectionNodes):
			if dimension < 0 {
				return nil, malformed(lineNo, "%s before %s", sectionNodes, keyDimension)
			}
			coords = make([]domain.Coordinates, dimension)
			coordSeen = make([]bool, dimension)
			section = inNodes
			continue
		case strings.HasPrefix(upper, sectionItems):
			if numItems < 0 {
				return nil, malformed(lineNo, "%s before %s", sectionItems, keyNumberOfItems)
			}
			p.Items = make([]domain.Item, numItems)
			itemSeen = make([]bool, numItems)
			section = inItems
			continue
		}

		switch section {
		case inHeader:
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				return nil, malformed(lineNo, "expected KEY: value, got %q", line)
			}
			key = strings.ToUpper(strings.TrimSpace(key))
			value = strings.TrimSpace(value)
			headerFields[key] = true

			var err error
			switch key {
			case keyProblemName:
				if value != "" {
					p.Name = value
				}
			case keyDimension:
				dimension, err = strconv.Atoi(value)
			case keyNumberOfItems:
				numItems, err = strconv.Atoi(value)
			case keyCapacity:
				p.Capacity, err = strconv.Atoi(value)
			case keyMinSpeed:
				p.MinSpeed, err = strconv.ParseFloat(value, 64)
			case keyMaxSpeed:
				p.MaxSpeed, err = strconv.ParseFloat(value, 64)
			case keyRentingRatio:
				p.RentingRatio, err = strconv.ParseFloat(value, 64)
			case keyEdgeWeightType:
				edgeType = value
			}
			if err != nil {
				return nil, malformed(lineNo, "%s: %v", key, err)
			}
			if (key == keyDimension && dimension < 0) || (key == keyNumberOfItems && numItems < 0) {
				return nil, malformed(lineNo, "%s must be non-negative", key)
			}
			if key == keyDimension && dimension > MaxDimension {
				return nil, malformed(lineNo, "%s %d exceeds %d", key, dimension, MaxDimension)
			}
			if key == keyNumberOfItems && numItems > MaxItems {
				return nil, malformed(lineNo, "%s %d exceeds %d", key, numItems, MaxItems)
			}

		case inNodes:
			f := strings.Fields(line)
			if len(f) < 3 {
				return nil, malformed(lineNo, "node row needs index x y, got %q", line)
			}
			idx, err := strconv.Atoi(f[0])
			if err != nil || idx < 1 || idx > dimension {
				return nil, malformed(lineNo, "node index %q out of range 1..%d", f[0], dimension)
			}
			x, errX := strconv.ParseFloat(f[1], 64)
			y, errY := strconv.ParseFloat(f[2], 64)
			if errX != nil || errY != nil {
				return nil, malformed(lineNo, "node %d: bad coordinates %q %q", idx, f[1], f[2])
			}
			if coordSeen[idx-1] {
				return nil, malformed(lineNo, "node %d listed twice", idx)
			}
			coords[idx-1] = domain.Coordinates{X: x, Y: y}
			coordSeen[idx-1] = true

		case inItems:
			f := strings.Fields(line)
			if len(f) < 4 {
				return nil, malformed(lineNo, "item row needs index profit weight node, got %q", line)
			}
			vals := make([]int, 4)
			for i := range vals {
				v, err := strconv.Atoi(f[i])
				if err != nil {
					return nil, malformed(lineNo, "item field %d: %v", i+1, err)
				}
				vals[i] = v
			}
			idx := vals[0]
			if idx < 1 || idx > numItems {
				return nil, malformed(lineNo, "item index %d out of range 1..%d", idx, numItems)
			}
			if itemSeen[idx-1] {
				return nil, malformed(lineNo, "item %d listed twice", idx)
			}
			p.Items[idx-1] = domain.Item{Profit: vals[1], Weight: vals[2], City: vals[3] - 1}
			itemSeen[idx-1] = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("decode ttp: scan: %w", err)
	}

	for _, key := range []string{keyDimension, keyNumberOfItems, keyCapacity, keyMinSpeed, keyMaxSpeed, keyRentingRatio} {
		if !headerFields[key] {
			return nil, fmt.Errorf("decode ttp: %w: missing %s", ErrMalformed, key)
		}
	}
	if coords == nil && dimension > 0 {
		return nil, fmt.Errorf("decode ttp: %w: missing %s", ErrMalformed, sectionNodes)
	}
	if missing := firstUnset(coordSeen); missing >= 0 {
		return nil, fmt.Errorf("decode ttp: %w: node %d has no coordinates", ErrMalformed, missing+1)
	}
	if p.Items == nil && numItems > 0 {
		return nil, fmt.Errorf("decode ttp: %w: missing %s", ErrMalformed, sectionItems)
	}
	if missing := firstUnset(itemSeen); missing >= 0 {
		return nil, fmt.Errorf("decode ttp: %w: item %d not listed", ErrMalformed, missing+1)
	}

	metric, err := distance.MetricFor(edgeType)
	if err != nil {
		return nil, fmt.Errorf("decode ttp: %w", err)
	}
	p.Distances, err = distance.Matrix(coords, metric)
	if err != nil {
		return nil, fmt.Errorf("decode ttp: %w", err)
	}

	inst, err := domain.NewInstance(p)
	if err != nil {
		return nil, fmt.Errorf("decode ttp: %w", err)
	}
	return inst, nil
}

func malformed(line int, format string, args ...any) error {
	return fmt.Errorf("decode ttp: line %d: %w: %s", line, ErrMalformed, fmt.Sprintf(format, args...))
}

func firstUnset(seen []bool) int {
	for i, ok := range seen {
		if !ok {
			return i
		}
	}
	return -1
}
