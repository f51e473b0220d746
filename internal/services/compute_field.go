package services

import (
	"context"
	"errors"
	"fmt"
	"magnetic-field-service/internal/domain"
	"magnetic-field-service/internal/platform/obs"
	"magnetic-field-service/internal/ports"
	"time"

	"github.com/rs/zerolog/log"
)

type ComputeFieldRequest struct {
	Wire    *domain.WirePath
	Target  *domain.TargetField
	Current float64
	// Save persists the run when a repository is configured.
	Save bool
}

// ComputeField evaluates one wire/target/current batch end to end.
//
// The cache and repository are optional (nil disables them). Cache failures
// are logged and treated as misses; the evaluation itself never depends on
// the cache being reachable. Persistence failures are returned because the
// caller asked for the run to be stored.
func ComputeField(
	ctx context.Context,
	req ComputeFieldRequest,
	ev *Evaluator,
	cache ports.FieldCache,
	repo ports.RunRepository,
) (_ *domain.FieldRun, err error) {
	defer obs.Time(ctx, "field.ComputeField")(&err)

	if req.Wire == nil || req.Target == nil {
		return nil, fmt.Errorf("compute field: %w: wire and target are required", domain.ErrInvalidGeometry)
	}
	if ev == nil {
		ev = &Evaluator{}
	}

	run := &domain.FieldRun{
		Current:   req.Current,
		Segments:  req.Wire.Segments(),
		Targets:   req.Target.Size(),
		Strict:    ev.Strict,
		WireHash:  WireHash(req.Wire),
		CreatedAt: time.Now().UTC(),
		Locations: req.Target.Locations,
	}

	key := CacheKey(req.Wire, req.Target, req.Current, ev)
	if cache != nil {
		vectors, ok, cerr := cache.Get(ctx, key)
		switch {
		case cerr != nil:
			log.Warn().Err(cerr).Str("key", key).Msg("field cache lookup failed")
		case ok && len(vectors) == req.Target.Size():
			copy(req.Target.FieldVectors, vectors)
			run.Cached = true
		case ok:
			log.Warn().
				Str("key", key).
				Int("cached", len(vectors)).
				Int("want", req.Target.Size()).
				Msg("field cache entry has wrong size, recomputing")
		}
	}

	if !run.Cached {
		if err := ev.Evaluate(ctx, req.Target, req.Wire, req.Current); err != nil {
			return nil, fmt.Errorf("compute field: %w", err)
		}

		if cache != nil {
			if cerr := cache.Put(ctx, key, req.Target.FieldVectors); cerr != nil {
				log.Warn().Err(cerr).Str("key", key).Msg("field cache store failed")
			}
		}
	}

	run.Vectors = make([]domain.Point, req.Target.Size())
	copy(run.Vectors, req.Target.FieldVectors)

	if req.Save {
		if repo == nil {
			return nil, errors.New("compute field: save requested but no run repository is configured")
		}
		id, err := repo.SaveRun(ctx, run)
		if err != nil {
			return nil, fmt.Errorf("compute field: save run: %w", err)
		}
		run.ID = id
	}

	return run, nil
}
