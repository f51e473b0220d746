package handlers

import (
	"net/http"
	"runtime"

	"magnetic-field-service/internal/api/dto"
	"magnetic-field-service/internal/ports"
)

// HealthHandler reports liveness and which optional stores are wired in.
type HealthHandler struct {
	Cache   ports.FieldCache
	Repo    ports.RunRepository
	Workers int
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	workers := h.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	writeJSON(w, r, http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		RunStore: h.Repo != nil,
		Cache:    h.Cache != nil,
		Workers:  workers,
	})
}
