package services

import (
	"errors"
	"fmt"
	"magnetic-field-service/internal/domain"
	"math"
)

// LinearYField places n observation points on the y axis (x = z = 0).
//
// The first point sits at yMin and each subsequent point advances by
// (yMax-yMin)/n through repeated addition, so yMax itself is not included.
func LinearYField(n int, yMin, yMax float64) (*domain.TargetField, error) {
	if n < 1 {
		return nil, fmt.Errorf("linear y field: %w: need at least 1 point, got %d", domain.ErrInvalidGeometry, n)
	}
	if err := domain.CheckCount(n); err != nil {
		return nil, fmt.Errorf("linear y field: %w", err)
	}

	locations := make([]domain.Point, n)
	y := yMin
	dy := (yMax - yMin) / float64(n)
	for i := range locations {
		locations[i] = domain.Point{X: 0, Y: y, Z: 0}
		y += dy
	}

	return domain.NewTargetField(locations)
}

// PlanarXYField lays out a rows x cols grid on the plane z = zPosition.
// Point i sits in row i/cols and column i%cols; both axes span their full
// [min, max] range. A dimension of size 1 is pinned to its min value.
func PlanarXYField(rows, cols int, xMin, xMax, yMin, yMax, zPosition float64) (*domain.TargetField, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf(
			"planar xy field: %w: need at least 1 row and column, got %dx%d",
			domain.ErrInvalidGeometry, rows, cols,
		)
	}
	if rows > domain.MaxPoints/cols {
		return nil, fmt.Errorf("planar xy field: %w: %dx%d grid", domain.ErrAllocation, rows, cols)
	}

	size := rows * cols
	locations := make([]domain.Point, size)
	for i := range locations {
		row := i / cols
		col := i % cols

		x := xMin
		if cols > 1 {
			x = xMin + float64(col)*(xMax-xMin)/float64(cols-1)
		}
		y := yMin
		if rows > 1 {
			y = yMin + float64(row)*(yMax-yMin)/float64(rows-1)
		}

		locations[i] = domain.Point{X: x, Y: y, Z: zPosition}
	}

	return domain.NewTargetField(locations)
}

// LinearWire builds a straight wire along the x axis split into the given
// number of equal segments (segments+1 points). Points advance by repeated
// addition of (xMax-xMin)/segments starting at xMin.
func LinearWire(segments int, xMin, xMax float64) (*domain.WirePath, error) {
	if segments < 1 {
		return nil, fmt.Errorf("linear wire: %w: need at least 1 segment, got %d", domain.ErrInvalidGeometry, segments)
	}
	if err := domain.CheckCount(segments + 1); err != nil {
		return nil, fmt.Errorf("linear wire: %w", err)
	}

	coords := make([]domain.Point, segments+1)
	dx := (xMax - xMin) / float64(segments)
	x := xMin
	for i := range coords {
		coords[i] = domain.Point{X: x, Y: 0, Z: 0}
		x += dx
	}

	return domain.NewWirePath(coords)
}

// SinusoidalWire samples y = mag·sin(k·x) at points evenly spaced x values
// from xMin to xMax inclusive, on the plane z = zValue. The wave number k
// fits the given number of wavelengths into [xMin, xMax]. The phase is
// measured from x = 0, not from xMin.
func SinusoidalWire(points int, mag, xMin, xMax, zValue, wavelengths float64) (*domain.WirePath, error) {
	if points < 2 {
		return nil, fmt.Errorf("sinusoidal wire: %w: need at least 2 points, got %d", domain.ErrInvalidGeometry, points)
	}
	if err := domain.CheckCount(points); err != nil {
		return nil, fmt.Errorf("sinusoidal wire: %w", err)
	}
	if wavelengths == 0 || xMax == xMin {
		return nil, errors.New("sinusoidal wire: wavelengths and x range must be non-zero")
	}

	lambda := (xMax - xMin) / wavelengths
	k := 2 * math.Pi / lambda

	coords := make([]domain.Point, points)
	for i := range coords {
		x := xMin + float64(i)*(xMax-xMin)/float64(points-1)
		coords[i] = domain.Point{X: x, Y: mag * math.Sin(k*x), Z: zValue}
	}

	return domain.NewWirePath(coords)
}
