package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ttp-solver-service/internal/adapters/cache"
	"ttp-solver-service/internal/adapters/reader"
	"ttp-solver-service/internal/api/dto"
	"ttp-solver-service/internal/domain"
	"ttp-solver-service/internal/ports"
	"ttp-solver-service/internal/services"
)

// InstanceHandler exposes the stored instance library.
type InstanceHandler struct {
	Repo  ports.InstanceRepository
	Solve *SolveHandler
}

func (h *InstanceHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.Repo.ListInstances(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "list instances failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListInstancesResponse{
		Instances: make([]dto.InstanceSummaryResponse, 0, len(infos)),
	}
	for _, info := range infos {
		res.Instances = append(res.Instances, dto.InstanceSummaryResponse{
			Name:      info.Name,
			Dimension: info.Dimension,
			NumItems:  info.NumItems,
			Capacity:  info.Capacity,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// SolveStored runs the solver on a stored instance. The body is optional and
// carries only solve options.
func (h *InstanceHandler) SolveStored(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "instance name is required")
		return
	}

	var opts dto.SolveOptions
	if err := decodeJSON(w, r, h.Solve.MaxBodyBytes, &opts); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, r, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}
	if err := h.Solve.Validate.Struct(opts); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	inst, err := h.Repo.GetInstance(r.Context(), name)
	if errors.Is(err, domain.ErrInstanceNotFound) {
		writeError(w, r, http.StatusNotFound, "instance not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "load instance failed", "instance", name, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.Solve.Limits.Check(inst); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid instance: "+err.Error())
		return
	}

	// The payload is part of the key so an upserted instance misses the cache.
	key, err := cache.Key(struct {
		Stored   string
		Instance reader.Document
		Options  services.SolveOptions
	}{name, reader.FromInstance(inst), h.Solve.Solver.Resolve(opts.Service())})
	if err != nil {
		slog.ErrorContext(r.Context(), "solve stored: cache key", "err", err)
		key = ""
	}

	h.Solve.serve(w, r, key, inst, opts.Service())
}
