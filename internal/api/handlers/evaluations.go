package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"magnetic-field-service/internal/api/dto"
	"magnetic-field-service/internal/domain"
	"magnetic-field-service/internal/ports"
	"magnetic-field-service/internal/services"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 64 << 20

// EvaluationHandler runs field evaluations and serves stored runs.
// Cache and Repo may be nil; listing and saving then report the store
// as unavailable.
type EvaluationHandler struct {
	Evaluator services.Evaluator
	Cache     ports.FieldCache
	Repo      ports.RunRepository
}

// Collection serves /evaluations: POST evaluates, GET lists stored runs.
func (h *EvaluationHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.Evaluate(w, r)
	case http.MethodGet:
		h.List(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *EvaluationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluationRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.Save && h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "run store is not configured")
		return
	}

	wire, err := domain.NewWirePath(dto.Points(req.Wire))
	if err != nil {
		writeInputError(w, r, "wire", err)
		return
	}
	target, err := domain.NewTargetField(dto.Points(req.Targets))
	if err != nil {
		writeInputError(w, r, "targets", err)
		return
	}

	current := 1.0
	if req.Current != nil {
		current = *req.Current
	}

	ev := h.Evaluator
	if req.Strict != nil {
		ev.Strict = *req.Strict
	}
	if req.Epsilon != nil {
		if *req.Epsilon < 0 {
			writeError(w, r, http.StatusBadRequest, "epsilon must be non-negative")
			return
		}
		ev.Epsilon = *req.Epsilon
	}

	svcReq := services.ComputeFieldRequest{
		Wire:    wire,
		Target:  target,
		Current: current,
		Save:    req.Save,
	}

	run, err := services.ComputeField(r.Context(), svcReq, &ev, h.Cache, h.Repo)
	if err != nil {
		var serr *domain.SingularPointError
		switch {
		case errors.As(err, &serr):
			writeError(w, r, http.StatusUnprocessableEntity, serr.Error())
		case services.IsGeometryError(err):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			log.Error().Err(err).Msg("compute field failed")
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, dto.EvaluationResponse{
		RunID:    run.ID,
		Current:  run.Current,
		Segments: run.Segments,
		Targets:  run.Targets,
		Cached:   run.Cached,
		Vectors:  dto.Vectors(run.Vectors),
	})
}

func (h *EvaluationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "run store is not configured")
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.Repo.ListRuns(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list runs failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRunsResponse{Runs: make([]dto.RunSummaryResponse, 0, len(runs))}
	for _, run := range runs {
		res.Runs = append(res.Runs, dto.Summary(run))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Get serves /evaluations/{id}.
func (h *EvaluationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "run store is not configured")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, r, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	run, err := h.Repo.GetRun(r.Context(), id)
	if errors.Is(err, domain.ErrRunNotFound) {
		writeError(w, r, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("run_id", id).Msg("get run failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RunResponse{
		RunSummaryResponse: dto.Summary(run),
		Locations:          dto.Vectors(run.Locations),
		Vectors:            dto.Vectors(run.Vectors),
	})
}

// writeInputError reports a rejected wire or target list. Oversized inputs
// get 413; every other constructor failure is a bad request.
func writeInputError(w http.ResponseWriter, r *http.Request, field string, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, domain.ErrAllocation) {
		status = http.StatusRequestEntityTooLarge
	}
	writeError(w, r, status, field+": "+err.Error())
}
