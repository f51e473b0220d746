package domain

import "fmt"

// Ordered polyline approximating a current-carrying conductor.
// Consecutive coordinates bound one straight segment each, so a path
// of n points has n-1 segments. The path is read-only during evaluation.
type WirePath struct {
	Coordinates []Point
}

// NewWirePath builds a path from at least two points.
// The slice is copied so later caller mutation cannot affect the path.
func NewWirePath(points []Point) (*WirePath, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("new wire path: %w: need at least 2 points, got %d", ErrInvalidGeometry, len(points))
	}
	if err := CheckCount(len(points)); err != nil {
		return nil, fmt.Errorf("new wire path: %w", err)
	}

	coords := make([]Point, len(points))
	copy(coords, points)
	return &WirePath{Coordinates: coords}, nil
}

// Number of straight segments in the path.
func (w *WirePath) Segments() int {
	if w == nil || len(w.Coordinates) == 0 {
		return 0
	}
	return len(w.Coordinates) - 1
}

// Validate checks the path still has at least one segment.
func (w *WirePath) Validate() error {
	if w.Segments() < 1 {
		return fmt.Errorf("%w: wire path has no segments", ErrInvalidGeometry)
	}
	return nil
}
