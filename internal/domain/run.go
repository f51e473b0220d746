package domain

import "time"

// Represents one completed evaluation: the inputs that matter for
// reproducing it and the resulting vectors, in target order.
// Runs are persisted by a RunRepository and served back by the API.
type FieldRun struct {
	ID        int64
	Current   float64
	Segments  int
	Targets   int
	Strict    bool
	WireHash  string
	CreatedAt time.Time
	Locations []Point
	Vectors   []Point
	Cached    bool
}
