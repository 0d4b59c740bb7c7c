package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ttp-solver-service/internal/domain"
)

// ErrNoValidSolution is returned by Experiment.Run when every heuristic failed
// or produced an invalid solution. The report is still returned.
var ErrNoValidSolution = errors.New("no valid solution found")

// RunResult is the outcome of one heuristic. Key is the catalog key, empty
// for heuristics that do not implement Keyed.
type RunResult struct {
	Heuristic string
	Key       string
	Solution  *domain.Solution
	Valid     bool
	Err       error
	Elapsed   time.Duration
}

// InstanceSummary describes the instance a report refers to.
type InstanceSummary struct {
	Name      string
	Dimension int
	NumItems  int
	Capacity  int
}

// Report collects every run of an experiment and the winner among valid runs.
// Best is nil when no run produced a valid solution.
type Report struct {
	Instance InstanceSummary
	Results  []RunResult
	Best     *RunResult
}

// Experiment runs an ordered list of heuristics over one instance and keeps the
// valid solution with the strictly greatest objective.
type Experiment struct {
	inst       *domain.Instance
	heuristics []Heuristic
	logger     *slog.Logger
	observer   func(RunResult)
	now        func() time.Time
}

// ExperimentOption customizes an Experiment.
type ExperimentOption func(*Experiment)

// WithLogger sets the progress logger. The default is slog.Default().
func WithLogger(l *slog.Logger) ExperimentOption {
	return func(e *Experiment) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers a callback invoked after every heuristic run.
func WithObserver(fn func(RunResult)) ExperimentOption {
	return func(e *Experiment) { e.observer = fn }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) ExperimentOption {
	return func(e *Experiment) {
		if now != nil {
			e.now = now
		}
	}
}

func NewExperiment(inst *domain.Instance, opts ...ExperimentOption) *Experiment {
	e := &Experiment{
		inst:   inst,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Add appends heuristics in execution order.
func (e *Experiment) Add(hs ...Heuristic) {
	e.heuristics = append(e.heuristics, hs...)
}

// Heuristics returns the configured heuristics in execution order.
func (e *Experiment) Heuristics() []Heuristic {
	return append([]Heuristic(nil), e.heuristics...)
}

// Run validates the instance, runs every heuristic once and selects the best
// valid solution. An invalid instance aborts before any heuristic runs.
func (e *Experiment) Run() (*Report, error) {
	return e.RunContext(context.Background())
}

// RunContext is Run with cancellation checked between heuristics. A cancelled
// context returns the partial report together with ctx.Err().
func (e *Experiment) RunContext(ctx context.Context) (*Report, error) {
	if e.inst == nil {
		return nil, errors.New("run experiment: instance must be non-nil")
	}
	if err := e.inst.Validate(); err != nil {
		return nil, fmt.Errorf("run experiment: invalid instance %q: %w", e.inst.Name, err)
	}
	if e.inst.HasDegenerateSpeed() {
		e.logger.Warn("max speed equals min speed; carried weight has no effect on travel time",
			"instance", e.inst.Name, "capacity", e.inst.Capacity)
	}

	report := &Report{
		Instance: InstanceSummary{
			Name:      e.inst.Name,
			Dimension: e.inst.Dimension,
			NumItems:  e.inst.NumItems(),
			Capacity:  e.inst.Capacity,
		},
		Results: make([]RunResult, 0, len(e.heuristics)),
	}

	e.logger.Info("running experiment",
		"instance", e.inst.Name,
		"cities", e.inst.Dimension,
		"items", e.inst.NumItems(),
		"capacity", e.inst.Capacity,
		"heuristics", len(e.heuristics),
	)

	bestIdx := -1
	for _, h := range e.heuristics {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("run experiment %q: %w", e.inst.Name, err)
		}

		res := e.runOne(h)
		report.Results = append(report.Results, res)

		if e.observer != nil {
			e.observer(res)
		}

		if !res.Valid {
			continue
		}
		if bestIdx == -1 || res.Solution.Objective > report.Results[bestIdx].Solution.Objective {
			bestIdx = len(report.Results) - 1
		}
	}

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("run experiment %q: %w", e.inst.Name, err)
	}

	if bestIdx == -1 {
		e.logger.Warn("no valid solution found", "instance", e.inst.Name)
		return report, fmt.Errorf("run experiment %q: %w", e.inst.Name, ErrNoValidSolution)
	}

	report.Best = &report.Results[bestIdx]
	e.logger.Info("best solution",
		"heuristic", report.Best.Heuristic,
		"objective", report.Best.Solution.Objective,
		"profit", report.Best.Solution.Profit,
		"time", report.Best.Solution.Time,
		"weight", report.Best.Solution.Weight,
	)

	return report, nil
}

func (e *Experiment) runOne(h Heuristic) RunResult {
	name := h.Name()
	start := e.now()

	sol, err := h.Solve(e.inst)
	res := RunResult{
		Heuristic: name,
		Key:       heuristicKey(h),
		Solution:  sol,
		Err:       err,
		Elapsed:   e.now().Sub(start),
	}

	if errors.Is(err, ErrInterrupted) {
		e.logger.Warn("heuristic interrupted", "heuristic", name, "dur_ms", res.Elapsed.Milliseconds())
		return res
	}
	if err != nil {
		e.logger.Error("heuristic failed", "heuristic", name, "err", err)
		return res
	}
	if sol == nil {
		res.Err = fmt.Errorf("heuristic %q returned no solution", name)
		e.logger.Error("heuristic failed", "heuristic", name, "err", res.Err)
		return res
	}

	if !domain.IsPermutation(sol.Tour, e.inst.Dimension) || len(sol.Selection) != e.inst.NumItems() {
		e.logger.Warn("heuristic returned a malformed solution",
			"heuristic", name, "tour_len", len(sol.Tour), "selection_len", len(sol.Selection))
		return res
	}

	// metrics are never taken on trust from the heuristic
	checked := sol.Clone()
	EvaluateSolution(e.inst, checked)
	if checked.Evaluation != sol.Evaluation {
		e.logger.Warn("heuristic reported stale metrics", "heuristic", name,
			"reported_objective", sol.Objective, "objective", checked.Objective)
	}
	res.Solution = checked
	sol = checked

	res.Valid = sol.IsValid(e.inst)
	e.logger.Info("heuristic finished",
		"heuristic", name,
		"objective", sol.Objective,
		"profit", sol.Profit,
		"time", sol.Time,
		"weight", sol.Weight,
		"capacity", e.inst.Capacity,
		"valid", res.Valid,
		"dur_ms", res.Elapsed.Milliseconds(),
	)

	return res
}

func heuristicKey(h Heuristic) string {
	if k, ok := h.(Keyed); ok {
		return k.Key()
	}
	return ""
}
