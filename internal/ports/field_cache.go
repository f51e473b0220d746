package ports

import (
	"context"
	"magnetic-field-service/internal/domain"
)

// Contract for caching computed field vectors by evaluation key.
type FieldCache interface {
	// Return cached vectors for key; ok is false on a miss.
	Get(ctx context.Context, key string) (vectors []domain.Point, ok bool, err error)
	// Store vectors under key.
	Put(ctx context.Context, key string, vectors []domain.Point) error
}
