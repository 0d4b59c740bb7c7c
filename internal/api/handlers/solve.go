package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"ttp-solver-service/internal/adapters/cache"
	"ttp-solver-service/internal/adapters/reader"
	"ttp-solver-service/internal/api/dto"
	"ttp-solver-service/internal/domain"
	"ttp-solver-service/internal/platform/metrics"
	"ttp-solver-service/internal/ports"
	"ttp-solver-service/internal/services"
)

// SolveHandler runs experiments on instances posted in the request body.
// Cache and Metrics are optional. Validate must come from reader.NewValidator
// built with the same Limits.
type SolveHandler struct {
	Solver       *services.Solver
	Cache        ports.ReportCache
	Metrics      *metrics.Metrics
	Validate     *validator.Validate
	Limits       reader.SizeLimits
	MaxBodyBytes int64
}

func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var req dto.SolveRequest
	if err := decodeJSON(w, r, h.MaxBodyBytes, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	inst, err := req.Instance.Instance("request")
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid instance: "+err.Error())
		return
	}

	key, err := cache.Key(struct {
		Instance any
		Options  services.SolveOptions
	}{req.Instance, h.Solver.Resolve(req.Service())})
	if err != nil {
		slog.ErrorContext(r.Context(), "solve: cache key", "err", err)
		key = ""
	}

	h.serve(w, r, key, inst, req.Service())
}

// serve answers from the cache when possible, otherwise runs the solver and
// caches the encoded response.
func (h *SolveHandler) serve(w http.ResponseWriter, r *http.Request, key string, inst *domain.Instance, opts services.SolveOptions) {
	ctx := r.Context()

	if body, ok := h.lookup(ctx, key); ok {
		w.Header().Set("X-Cache", "hit")
		writeRaw(w, r, http.StatusOK, body)
		return
	}

	report, err := h.Solver.Solve(ctx, inst, opts)
	switch {
	case errors.Is(err, services.ErrUnknownHeuristic), errors.Is(err, domain.ErrInvalidTemperature):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, services.ErrNoValidSolution):
		res := dto.NewReportResponse(report)
		res.Error = err.Error()
		writeJSON(w, r, http.StatusUnprocessableEntity, res)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
		return
	case err != nil:
		slog.ErrorContext(ctx, "solve failed", "instance", inst.Name, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	body, err := json.Marshal(dto.NewReportResponse(report))
	if err != nil {
		slog.ErrorContext(ctx, "solve: encode report", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.store(ctx, key, body)
	w.Header().Set("X-Cache", "miss")
	writeRaw(w, r, http.StatusOK, body)
}

func (h *SolveHandler) lookup(ctx context.Context, key string) ([]byte, bool) {
	if h.Cache == nil || key == "" {
		return nil, false
	}

	body, ok, err := h.Cache.Get(ctx, key)
	switch {
	case err != nil:
		h.observeCache(metrics.CacheError)
		slog.WarnContext(ctx, "report cache lookup failed", "err", err)
		return nil, false
	case ok:
		h.observeCache(metrics.CacheHit)
		return body, true
	default:
		h.observeCache(metrics.CacheMiss)
		return nil, false
	}
}

func (h *SolveHandler) store(ctx context.Context, key string, body []byte) {
	if h.Cache == nil || key == "" {
		return
	}
	if err := h.Cache.Set(ctx, key, body); err != nil {
		slog.WarnContext(ctx, "report cache store failed", "err", err)
	}
}

func (h *SolveHandler) observeCache(result string) {
	if h.Metrics != nil {
		h.Metrics.ObserveCache(result)
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("field %s fails %q", fe.Namespace(), fe.Tag())
	}
	return err.Error()
}
