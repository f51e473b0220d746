package ports

import (
	"context"
	"magnetic-field-service/internal/domain"
)

// Port: a boundary for persisting and retrieving completed evaluations.
type RunRepository interface {
	// Persist a run and return its assigned identifier.
	SaveRun(ctx context.Context, run *domain.FieldRun) (int64, error)
	// Retrieve one run including its locations and vectors.
	GetRun(ctx context.Context, id int64) (*domain.FieldRun, error)
	// List the most recent runs without their point data.
	ListRuns(ctx context.Context, limit int) ([]*domain.FieldRun, error)
}
