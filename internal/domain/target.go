package domain

import "fmt"

// Observation points paired 1:1 with computed field vectors.
// Locations[i] and FieldVectors[i] always refer to the same point; the
// evaluator is the only writer of FieldVectors.
type TargetField struct {
	Locations    []Point
	FieldVectors []Point
}

// NewTargetField builds a field over the given locations with zeroed vectors.
func NewTargetField(locations []Point) (*TargetField, error) {
	if len(locations) < 1 {
		return nil, fmt.Errorf("new target field: %w: need at least 1 point", ErrInvalidGeometry)
	}
	if err := CheckCount(len(locations)); err != nil {
		return nil, fmt.Errorf("new target field: %w", err)
	}

	locs := make([]Point, len(locations))
	copy(locs, locations)
	return &TargetField{
		Locations:    locs,
		FieldVectors: make([]Point, len(locs)),
	}, nil
}

// Number of observation points.
func (t *TargetField) Size() int {
	if t == nil {
		return 0
	}
	return len(t.Locations)
}

// Validate checks the field is non-empty and both sequences line up.
func (t *TargetField) Validate() error {
	if t.Size() < 1 {
		return fmt.Errorf("%w: target field has no points", ErrInvalidGeometry)
	}
	if len(t.Locations) != len(t.FieldVectors) {
		return fmt.Errorf(
			"%w: target field has %d locations but %d field vectors",
			ErrInvalidGeometry, len(t.Locations), len(t.FieldVectors),
		)
	}
	return nil
}

// Reset zeroes every field vector.
func (t *TargetField) Reset() {
	for i := range t.FieldVectors {
		t.FieldVectors[i] = Point{}
	}
}
