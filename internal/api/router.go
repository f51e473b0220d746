package api

import (
	"magnetic-field-service/internal/api/handlers"
	"magnetic-field-service/internal/ports"
	"magnetic-field-service/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// cache and repo may be nil.
func NewRouter(ev services.Evaluator, cache ports.FieldCache, repo ports.RunRepository) http.Handler {
	mux := http.NewServeMux()

	evalHandler := &handlers.EvaluationHandler{
		Evaluator: ev,
		Cache:     cache,
		Repo:      repo,
	}

	mux.Handle("/health", &handlers.HealthHandler{
		Cache:   cache,
		Repo:    repo,
		Workers: ev.Workers,
	})
	mux.HandleFunc("/evaluations", evalHandler.Collection)
	mux.HandleFunc("/evaluations/{id}", evalHandler.Get)

	return loggingMiddleware(mux)
}
