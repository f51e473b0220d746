package dto

import (
	"magnetic-field-service/internal/domain"
	"time"
)

type EvaluationRequest struct {
	Wire    [][3]float64 `json:"wire"`
	Targets [][3]float64 `json:"targets"`
	Current *float64     `json:"current"`
	Strict  *bool        `json:"strict"`
	Epsilon *float64     `json:"epsilon"`
	Save    bool         `json:"save"`
}

type EvaluationResponse struct {
	RunID    int64    `json:"run_id,omitempty"`
	Current  float64  `json:"current"`
	Segments int      `json:"segments"`
	Targets  int      `json:"targets"`
	Cached   bool     `json:"cached"`
	Vectors  []Vector `json:"vectors"`
}

type RunSummaryResponse struct {
	RunID     int64     `json:"run_id"`
	Current   float64   `json:"current"`
	Segments  int       `json:"segments"`
	Targets   int       `json:"targets"`
	Strict    bool      `json:"strict"`
	WireHash  string    `json:"wire_hash"`
	CreatedAt time.Time `json:"created_at"`
}

type RunResponse struct {
	RunSummaryResponse
	Locations []Vector `json:"locations"`
	Vectors   []Vector `json:"vectors"`
}

type ListRunsResponse struct {
	Runs []RunSummaryResponse `json:"runs"`
}

// Points converts request triples to domain points.
func Points(in [][3]float64) []domain.Point {
	out := make([]domain.Point, len(in))
	for i, v := range in {
		out[i] = domain.Point{X: v[0], Y: v[1], Z: v[2]}
	}
	return out
}

// Vectors converts domain points to response triples.
func Vectors(in []domain.Point) []Vector {
	out := make([]Vector, len(in))
	for i, p := range in {
		out[i] = Vector{Float(p.X), Float(p.Y), Float(p.Z)}
	}
	return out
}

// Summary maps a stored run to its list form.
func Summary(r *domain.FieldRun) RunSummaryResponse {
	return RunSummaryResponse{
		RunID:     r.ID,
		Current:   r.Current,
		Segments:  r.Segments,
		Targets:   r.Targets,
		Strict:    r.Strict,
		WireHash:  r.WireHash,
		CreatedAt: r.CreatedAt,
	}
}

type HealthResponse struct {
	Status   string `json:"status"`
	RunStore bool   `json:"run_store"`
	Cache    bool   `json:"cache"`
	Workers  int    `json:"workers"`
}
