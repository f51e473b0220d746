package services

import (
	"context"
	"errors"
	"fmt"
	"magnetic-field-service/internal/domain"
	"magnetic-field-service/internal/platform/obs"

	"golang.org/x/sync/errgroup"
)

// MagneticConstant is μ0/4π in SI units (T·m/A). Lengths are meters and
// current is amperes regardless of the input file.
const MagneticConstant = 1.0e-7

// Targets checked between context polls.
const ctxCheckInterval = 256

// Evaluator computes the Biot–Savart field of a discretized wire.
//
// Each segment contributes K·(dl × r')/|r'|³ evaluated at its midpoint,
// where dl spans the segment and r' points from the midpoint to the target.
// Segments are summed in path order per target, so results are bit-identical
// whatever the worker count.
//
// The zero value evaluates sequentially and lets a target that coincides
// with a segment midpoint produce ±Inf/NaN components.
type Evaluator struct {
	// Workers is the number of goroutines sharing the targets; <= 1 runs inline.
	Workers int
	// Strict rejects any target within Epsilon of a segment midpoint.
	Strict bool
	// Epsilon is the strict-mode singularity radius in meters.
	Epsilon float64
}

// Evaluate fills target.FieldVectors with the field produced by current
// flowing along wire.
//
// Vectors are computed into scratch storage and copied into the target only
// on success, so a failed evaluation leaves the target untouched.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	target *domain.TargetField,
	wire *domain.WirePath,
	current float64,
) (err error) {
	defer obs.Time(ctx, "field.Evaluate")(&err)

	if target == nil || wire == nil {
		return fmt.Errorf("evaluate: %w: target and wire must be non-nil", domain.ErrInvalidGeometry)
	}
	if err := wire.Validate(); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	if err := target.Validate(); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	if e.Strict && e.Epsilon < 0 {
		return fmt.Errorf("evaluate: strict epsilon must be non-negative, got %g", e.Epsilon)
	}

	out := make([]domain.Point, target.Size())

	workers := e.Workers
	if workers > target.Size() {
		workers = target.Size()
	}

	if workers <= 1 {
		err = e.evaluateRange(ctx, out, target.Locations, wire.Coordinates, current, 0, len(out))
	} else {
		err = e.evaluateParallel(ctx, out, target.Locations, wire.Coordinates, current, workers)
	}
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	copy(target.FieldVectors, out)
	return nil
}

// evaluateParallel splits [0, len(out)) into contiguous chunks, one per worker.
// Workers write disjoint slots of out and need no further synchronization.
func (e *Evaluator) evaluateParallel(
	ctx context.Context,
	out []domain.Point,
	locations []domain.Point,
	coords []domain.Point,
	current float64,
	workers int,
) error {
	g, gctx := errgroup.WithContext(ctx)

	// Ceiling division: every target lands in exactly one chunk.
	chunkSize := (len(out) + workers - 1) / workers

	for start := 0; start < len(out); start += chunkSize {
		end := start + chunkSize
		if end > len(out) {
			end = len(out)
		}

		g.Go(func() error {
			return e.evaluateRange(gctx, out, locations, coords, current, start, end)
		})
	}

	return g.Wait()
}

func (e *Evaluator) evaluateRange(
	ctx context.Context,
	out []domain.Point,
	locations []domain.Point,
	coords []domain.Point,
	current float64,
	start, end int,
) error {
	for i := start; i < end; i++ {
		if (i-start)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		b, err := e.fieldAt(i, locations[i], coords)
		if err != nil {
			return err
		}
		out[i] = b.Scale(current)
	}
	return nil
}

// fieldAt sums the per-ampere contribution of every segment at loc.
func (e *Evaluator) fieldAt(i int, loc domain.Point, coords []domain.Point) (domain.Point, error) {
	var bx, by, bz float64

	for j := 0; j < len(coords)-1; j++ {
		l1 := coords[j]
		l2 := coords[j+1]

		mid := l1.Midpoint(l2)
		dl := l2.Sub(l1)
		rp := loc.Sub(mid)

		r := domain.Distance(rp, domain.Point{})
		if e.Strict && r <= e.Epsilon {
			return domain.Point{}, &domain.SingularPointError{Target: i, Segment: j, Distance: r}
		}
		factor := MagneticConstant / (r * r * r)

		c := dl.Cross(rp)
		bx += float64(c.X * factor)
		by += float64(c.Y * factor)
		bz += float64(c.Z * factor)
	}

	return domain.Point{X: bx, Y: by, Z: bz}, nil
}

// Evaluate runs a sequential, non-strict evaluation.
func Evaluate(target *domain.TargetField, wire *domain.WirePath, current float64) error {
	return (&Evaluator{}).Evaluate(context.Background(), target, wire, current)
}

// IsGeometryError reports whether err is a precondition failure rather
// than a singular point or cancellation.
func IsGeometryError(err error) bool {
	return errors.Is(err, domain.ErrInvalidGeometry)
}
