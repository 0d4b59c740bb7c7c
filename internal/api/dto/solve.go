package dto

import (
	"math"
	"time"

	"ttp-solver-service/internal/adapters/reader"
	"ttp-solver-service/internal/domain"
	"ttp-solver-service/internal/services"
)

type SolveOptions struct {
	Heuristics   []string  `json:"heuristics,omitempty" validate:"omitempty,max=32,dive,required"`
	Temperatures []float64 `json:"temperatures,omitempty" validate:"omitempty,max=32,dive,gt=0"`
	Seed         int64     `json:"seed,omitempty"`
	MaxPasses    int       `json:"max_passes,omitempty" validate:"gte=0,lte=10000"`
}

func (o SolveOptions) Service() services.SolveOptions {
	return services.SolveOptions{
		Heuristics:   o.Heuristics,
		Temperatures: o.Temperatures,
		Seed:         o.Seed,
		MaxPasses:    o.MaxPasses,
	}
}

type SolveRequest struct {
	Instance *reader.Document `json:"instance" validate:"required"`
	SolveOptions
}

type InstanceSummaryResponse struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	NumItems  int    `json:"num_items"`
	Capacity  int    `json:"capacity"`
}

// Non-finite metrics (an overweight solution has infinite time) encode as null.
type RunResponse struct {
	Heuristic     string   `json:"heuristic"`
	Key           string   `json:"key,omitempty"`
	Valid         bool     `json:"valid"`
	Error         string   `json:"error,omitempty"`
	ElapsedMS     float64  `json:"elapsed_ms"`
	Objective     *float64 `json:"objective"`
	Profit        *float64 `json:"profit"`
	Time          *float64 `json:"time"`
	Weight        int      `json:"weight"`
	Tour          []int    `json:"tour,omitempty"`
	SelectedItems []int    `json:"selected_items,omitempty"`
}

type ReportResponse struct {
	Instance InstanceSummaryResponse `json:"instance"`
	Results  []RunResponse           `json:"results"`
	Best     *RunResponse            `json:"best"`
	Error    string                  `json:"error,omitempty"`
}

func NewReportResponse(r *services.Report) ReportResponse {
	res := ReportResponse{
		Instance: InstanceSummaryResponse{
			Name:      r.Instance.Name,
			Dimension: r.Instance.Dimension,
			NumItems:  r.Instance.NumItems,
			Capacity:  r.Instance.Capacity,
		},
		Results: make([]RunResponse, 0, len(r.Results)),
	}

	for i := range r.Results {
		res.Results = append(res.Results, newRunResponse(r.Results[i]))
		if r.Best == &r.Results[i] {
			best := res.Results[len(res.Results)-1]
			res.Best = &best
		}
	}

	return res
}

func newRunResponse(rr services.RunResult) RunResponse {
	out := RunResponse{
		Heuristic: rr.Heuristic,
		Key:       rr.Key,
		Valid:     rr.Valid,
		ElapsedMS: float64(rr.Elapsed) / float64(time.Millisecond),
	}
	if rr.Err != nil {
		out.Error = rr.Err.Error()
	}

	sol := rr.Solution
	if sol == nil {
		return out
	}
	out.Objective = finite(sol.Objective)
	out.Profit = finite(sol.Profit)
	out.Time = finite(sol.Time)
	out.Weight = sol.Weight
	out.Tour = sol.Tour
	out.SelectedItems = selectedItems(sol)
	return out
}

func selectedItems(sol *domain.Solution) []int {
	out := make([]int, 0, sol.SelectedCount())
	for k, picked := range sol.Selection {
		if picked {
			out = append(out, k)
		}
	}
	return out
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
