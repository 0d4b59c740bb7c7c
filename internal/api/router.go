package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ttp-solver-service/internal/adapters/reader"
	"ttp-solver-service/internal/api/handlers"
	"ttp-solver-service/internal/platform/metrics"
	"ttp-solver-service/internal/ports"
	"ttp-solver-service/internal/services"
)

// Deps are the collaborators of the HTTP API. Repo, Cache and Metrics may be
// nil; the matching routes or features are then disabled.
type Deps struct {
	Solver       *services.Solver
	Repo         ports.InstanceRepository
	Cache        ports.ReportCache
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	MaxBodyBytes int64
	// Limits caps the instances accepted for solving. Zero fields allow up to
	// reader.MaxDimension cities and reader.MaxItems items.
	Limits reader.SizeLimits
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger, deps.Metrics))
	r.Use(middleware.Recoverer)

	solveHandler := &handlers.SolveHandler{
		Solver:       deps.Solver,
		Cache:        deps.Cache,
		Metrics:      deps.Metrics,
		Validate:     reader.NewValidator(deps.Limits),
		Limits:       deps.Limits,
		MaxBodyBytes: deps.MaxBodyBytes,
	}

	r.Get("/health", handlers.Health)
	r.Post("/solve", solveHandler.Solve)

	if deps.Repo != nil {
		instanceHandler := &handlers.InstanceHandler{Repo: deps.Repo, Solve: solveHandler}
		r.Route("/instances", func(r chi.Router) {
			r.Get("/", instanceHandler.List)
			r.Post("/{name}/solve", instanceHandler.SolveStored)
		})
	}

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return r
}
