package domain

import (
	"errors"
	"fmt"
)

// MaxPoints bounds the point count accepted from files, generators and requests.
const MaxPoints = 1 << 26

var (
	// ErrInvalidGeometry reports a wire without segments or an empty target field.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrParse reports a malformed input file.
	ErrParse = errors.New("parse error")
	// ErrAllocation reports a structure too large to allocate.
	ErrAllocation = errors.New("allocation failure")
	// ErrSingularPoint reports a target closer to a segment midpoint than the strict epsilon.
	ErrSingularPoint = errors.New("singular point")
	// ErrRunNotFound reports a lookup for a run id that was never stored.
	ErrRunNotFound = errors.New("run not found")
)

// ParseError describes where an input file stopped making sense.
type ParseError struct {
	Path string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	s := fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// SingularPointError is returned by strict evaluation.
type SingularPointError struct {
	Target   int
	Segment  int
	Distance float64
}

func (e *SingularPointError) Error() string {
	return fmt.Sprintf(
		"target %d lies %g m from the midpoint of segment %d",
		e.Target, e.Distance, e.Segment,
	)
}

func (e *SingularPointError) Is(target error) bool { return target == ErrSingularPoint }

// CheckCount validates a declared point count before anything is allocated.
func CheckCount(n int) error {
	if n > MaxPoints {
		return fmt.Errorf("%w: %d points exceeds limit of %d", ErrAllocation, n, MaxPoints)
	}
	return nil
}
