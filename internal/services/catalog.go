package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownHeuristic is returned for a key the catalog does not know.
var ErrUnknownHeuristic = errors.New("unknown heuristic")

// Heuristic keys accepted by Catalog.Build.
const (
	KeySequentialEmpty = "sequential-empty"
	KeyNNGreedy        = "nn-greedy"
	KeyRandomGreedy    = "random-greedy"
	KeyNN2Opt          = "nn-2opt"
	KeyNNHighProfit    = "nn-high-profit"
	KeyPNN2Opt         = "pnn-2opt"
)

// DefaultTemperatures are the softmax temperatures used when none are given.
var DefaultTemperatures = []float64{0.3, 0.5, 1.0, 2.0}

// DefaultHeuristicKeys is the line-up used when none is requested:
// plain 2-opt followed by the probabilistic variant at every temperature.
var DefaultHeuristicKeys = []string{KeyNN2Opt, KeyPNN2Opt}

// Catalog builds heuristics from keys with reproducible random streams.
type Catalog struct {
	// Seed is the base seed; each stochastic heuristic gets its own derived stream.
	Seed int64
	// Temperatures expands KeyPNN2Opt into one heuristic per value.
	Temperatures []float64
	// TwoOpt is passed to every 2-opt based heuristic.
	TwoOpt TwoOptOptions
}

// Keys lists every key the catalog understands.
func (c Catalog) Keys() []string {
	return []string{KeySequentialEmpty, KeyNNGreedy, KeyRandomGreedy, KeyNN2Opt, KeyNNHighProfit, KeyPNN2Opt}
}

// Build returns the heuristics for keys in order. An empty key list selects
// DefaultHeuristicKeys.
func (c Catalog) Build(keys []string) ([]Heuristic, error) {
	if len(keys) == 0 {
		keys = DefaultHeuristicKeys
	}
	temps := c.Temperatures
	if len(temps) == 0 {
		temps = DefaultTemperatures
	}

	var (
		out    []Heuristic
		stream uint64
	)
	nextRand := func() int64 {
		stream++
		return DeriveSeed(c.seed(), stream)
	}

	for _, raw := range keys {
		key := strings.ToLower(strings.TrimSpace(raw))
		switch key {
		case KeySequentialEmpty:
			out = append(out, SequentialNoItems{})
		case KeyNNGreedy:
			out = append(out, NearestNeighborGreedy{})
		case KeyRandomGreedy:
			out = append(out, NewRandomTourGreedy(NewRand(nextRand())))
		case KeyNN2Opt:
			out = append(out, LocalSearch2Opt{Options: c.TwoOpt})
		case KeyNNHighProfit:
			out = append(out, HighProfitPicking{})
		case KeyPNN2Opt:
			for _, t := range temps {
				h, err := NewProbabilisticNearestNeighbor2Opt(t, NewRand(nextRand()), c.TwoOpt)
				if err != nil {
					return nil, fmt.Errorf("build heuristic %q: %w", key, err)
				}
				out = append(out, h)
			}
		default:
			return nil, fmt.Errorf("build heuristic %q: %w", raw, ErrUnknownHeuristic)
		}
	}

	return out, nil
}

func (c Catalog) seed() int64 {
	if c.Seed == 0 {
		return defaultSeed
	}
	return c.Seed
}
