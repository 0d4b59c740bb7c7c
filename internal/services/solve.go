package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"ttp-solver-service/internal/domain"
	"ttp-solver-service/internal/platform/obs"
)

// SolveOptions selects the heuristic line-up for one request. Zero fields fall
// back to the solver defaults.
type SolveOptions struct {
	Heuristics   []string
	Temperatures []float64
	Seed         int64
	MaxPasses    int
}

// Solver runs experiments for callers that share one process: the CLI and the
// HTTP handlers. Each call builds fresh heuristics, so concurrent calls never
// share a random stream. At most MaxConcurrent experiments run at once.
type Solver struct {
	defaults SolveOptions
	logger   *slog.Logger
	observer func(RunResult)
	sem      *semaphore.Weighted
	timeout  time.Duration
}

type SolverOption func(*Solver)

func WithSolverLogger(l *slog.Logger) SolverOption {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunObserver is called after every heuristic run of every experiment.
func WithRunObserver(fn func(RunResult)) SolverOption {
	return func(s *Solver) { s.observer = fn }
}

// WithMaxConcurrent bounds the number of experiments running at once.
func WithMaxConcurrent(n int) SolverOption {
	return func(s *Solver) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithTimeout bounds each Solve call, including the wait for a slot. 2-opt
// notices the deadline between scan rows.
func WithTimeout(d time.Duration) SolverOption {
	return func(s *Solver) { s.timeout = d }
}

func NewSolver(defaults SolveOptions, opts ...SolverOption) *Solver {
	s := &Solver{
		defaults: defaults,
		logger:   slog.Default(),
		sem:      semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve merges opts over the solver defaults.
func (s *Solver) Resolve(opts SolveOptions) SolveOptions {
	out := opts
	if len(out.Heuristics) == 0 {
		out.Heuristics = s.defaults.Heuristics
	}
	if len(out.Temperatures) == 0 {
		out.Temperatures = s.defaults.Temperatures
	}
	if out.Seed == 0 {
		out.Seed = s.defaults.Seed
	}
	if out.MaxPasses == 0 {
		out.MaxPasses = s.defaults.MaxPasses
	}
	return out
}

// Heuristics builds the line-up for opts without running it, so bad keys and
// temperatures can be rejected before any work starts.
func (s *Solver) Heuristics(opts SolveOptions) ([]Heuristic, error) {
	return s.build(opts, nil)
}

func (s *Solver) build(opts SolveOptions, done <-chan struct{}) ([]Heuristic, error) {
	opts = s.Resolve(opts)
	catalog := Catalog{
		Seed:         opts.Seed,
		Temperatures: opts.Temperatures,
		TwoOpt:       TwoOptOptions{MaxPasses: opts.MaxPasses, Done: done},
	}
	return catalog.Build(opts.Heuristics)
}

// Solve runs the resolved line-up on inst. On ErrNoValidSolution the report
// is returned alongside the error. A cancelled or expired ctx interrupts 2-opt
// and Solve returns the partial report with the context error.
func (s *Solver) Solve(ctx context.Context, inst *domain.Instance, opts SolveOptions) (_ *Report, err error) {
	defer obs.Time(ctx, "solver.Solve")(&err)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	hs, err := s.build(opts, ctx.Done())
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("solve: wait for slot: %w", err)
	}
	defer s.sem.Release(1)

	logger := s.logger
	if id := obs.RequestID(ctx); id != "" {
		logger = logger.With("req_id", id)
	}

	e := NewExperiment(inst, WithLogger(logger), WithObserver(s.observer))
	e.Add(hs...)

	return e.RunContext(ctx)
}
