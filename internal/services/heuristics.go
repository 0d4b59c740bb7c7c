package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"ttp-solver-service/internal/domain"
)

// Heuristic produces one solution for an instance and reports a stable name.
// Implementations own their random source; they never share state with each
// other and never modify the instance.
type Heuristic interface {
	Name() string
	Solve(inst *domain.Instance) (*domain.Solution, error)
}

// Keyed is implemented by the catalog heuristics. Unlike the name, the key
// does not vary with parameters such as the temperature.
type Keyed interface {
	Key() string
}

// SequentialNoItems is the baseline: cities in index order, nothing collected.
type SequentialNoItems struct{}

func (SequentialNoItems) Key() string { return KeySequentialEmpty }
func (SequentialNoItems) Name() string { return "Sequential Tour + No Items" }

func (SequentialNoItems) Solve(inst *domain.Instance) (*domain.Solution, error) {
	sol := domain.NewSolution()
	sol.Tour = SequentialTour(inst)
	sol.Selection = EmptySelection(inst)
	EvaluateSolution(inst, sol)
	return sol, nil
}

// NearestNeighborGreedy pairs a nearest-neighbor tour with ratio-greedy picking.
type NearestNeighborGreedy struct{}

func (NearestNeighborGreedy) Key() string { return KeyNNGreedy }
func (NearestNeighborGreedy) Name() string { return "Nearest Neighbor + Greedy Picking" }

func (NearestNeighborGreedy) Solve(inst *domain.Instance) (*domain.Solution, error) {
	tour, err := NearestNeighborTour(inst, 0)
	if err != nil {
		return nil, err
	}

	sol := domain.NewSolution()
	sol.Tour = tour
	sol.Selection = RatioGreedySelection(inst, tour)
	EvaluateSolution(inst, sol)
	return sol, nil
}

// RandomTourGreedy pairs a uniformly random tour with ratio-greedy picking.
type RandomTourGreedy struct {
	rng *rand.Rand
}

// NewRandomTourGreedy returns the heuristic drawing from rng, or from the
// default seed when rng is nil.
func NewRandomTourGreedy(rng *rand.Rand) *RandomTourGreedy {
	if rng == nil {
		rng = NewRand(0)
	}
	return &RandomTourGreedy{rng: rng}
}

func (h *RandomTourGreedy) Key() string { return KeyRandomGreedy }
func (h *RandomTourGreedy) Name() string { return "Random Tour + Greedy Picking" }

func (h *RandomTourGreedy) Solve(inst *domain.Instance) (*domain.Solution, error) {
	if h.rng == nil {
		return nil, errors.New("random tour: no random source, use NewRandomTourGreedy")
	}

	sol := domain.NewSolution()
	sol.Tour = RandomTour(inst, h.rng)
	sol.Selection = RatioGreedySelection(inst, sol.Tour)
	EvaluateSolution(inst, sol)
	return sol, nil
}

// HighProfitPicking pairs a nearest-neighbor tour with profit-greedy picking.
type HighProfitPicking struct{}

func (HighProfitPicking) Key() string { return KeyNNHighProfit }
func (HighProfitPicking) Name() string { return "Nearest Neighbor + High Profit Picking" }

func (HighProfitPicking) Solve(inst *domain.Instance) (*domain.Solution, error) {
	tour, err := NearestNeighborTour(inst, 0)
	if err != nil {
		return nil, err
	}

	sol := domain.NewSolution()
	sol.Tour = tour
	sol.Selection = ProfitGreedySelection(inst, tour)
	EvaluateSolution(inst, sol)
	return sol, nil
}

// LocalSearch2Opt starts from nearest-neighbor + ratio-greedy and improves the
// tour with TwoOpt.
type LocalSearch2Opt struct {
	Options TwoOptOptions
}

func (h LocalSearch2Opt) Key() string { return KeyNN2Opt }
func (h LocalSearch2Opt) Name() string { return "2-Opt Local Search + Greedy Picking" }

func (h LocalSearch2Opt) Solve(inst *domain.Instance) (*domain.Solution, error) {
	tour, err := NearestNeighborTour(inst, 0)
	if err != nil {
		return nil, err
	}

	sol := domain.NewSolution()
	sol.Tour = tour
	sol.Selection = RatioGreedySelection(inst, tour)
	EvaluateSolution(inst, sol)

	if _, err := TwoOpt(inst, sol, h.Options); err != nil {
		return nil, fmt.Errorf("%s: %w", h.Name(), err)
	}
	return sol, nil
}

// ProbabilisticNearestNeighbor2Opt samples a tour with the softmax
// nearest-neighbor rule at a fixed temperature, picks ratio-greedy and then
// improves the tour with TwoOpt.
type ProbabilisticNearestNeighbor2Opt struct {
	temperature float64
	rng         *rand.Rand
	options     TwoOptOptions
}

// NewProbabilisticNearestNeighbor2Opt validates the temperature up front so a
// bad configuration fails before any run starts.
func NewProbabilisticNearestNeighbor2Opt(temperature float64, rng *rand.Rand, opts TwoOptOptions) (*ProbabilisticNearestNeighbor2Opt, error) {
	if err := ValidateTemperature(temperature); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(0)
	}
	return &ProbabilisticNearestNeighbor2Opt{temperature: temperature, rng: rng, options: opts}, nil
}

func (h *ProbabilisticNearestNeighbor2Opt) Name() string {
	return "Probabilistic NN (T=" + strconv.FormatFloat(h.temperature, 'g', -1, 64) + ") + 2-Opt"
}

func (h *ProbabilisticNearestNeighbor2Opt) Key() string { return KeyPNN2Opt }

// Temperature returns the configured softmax temperature.
func (h *ProbabilisticNearestNeighbor2Opt) Temperature() float64 { return h.temperature }

func (h *ProbabilisticNearestNeighbor2Opt) Solve(inst *domain.Instance) (*domain.Solution, error) {
	tour, err := ProbabilisticNearestNeighborTour(inst, 0, h.temperature, h.rng)
	if err != nil {
		return nil, err
	}

	sol := domain.NewSolution()
	sol.Tour = tour
	sol.Selection = RatioGreedySelection(inst, tour)
	EvaluateSolution(inst, sol)

	if _, err := TwoOpt(inst, sol, h.options); err != nil {
		return nil, fmt.Errorf("%s: %w", h.Name(), err)
	}
	return sol, nil
}
