package fileio

import (
	"bufio"
	"fmt"
	"io"
	"magnetic-field-service/internal/domain"
	"math"
	"strconv"
)

// Output layout switches.
type WriteOptions struct {
	// Coords repeats the target location before each field vector.
	Coords bool
	// Index prefixes each row with its zero-based index.
	Index bool
}

// WriteResults prints the evaluation output:
//
//	line 1:  current, fixed-point with 10 decimals
//	line 2:  number of result rows
//	line 3+: [index ][tx,ty,tz,]fx,fy,fz
//
// Values use %.10e; non-finite values print as inf, -inf, nan and -nan,
// keeping the NaN sign bit.
func WriteResults(w io.Writer, target *domain.TargetField, current float64, opts WriteOptions) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%4.10f\n", current)
	fmt.Fprintf(bw, "%d\n", target.Size())

	for i := range target.Locations {
		if opts.Index {
			fmt.Fprintf(bw, "%4d ", i)
		}
		if opts.Coords {
			writeTriple(bw, target.Locations[i])
			bw.WriteByte(',')
		}
		writeTriple(bw, target.FieldVectors[i])
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// WritePoints writes points in the input grammar with enough digits to
// read back the identical float64 values.
func WritePoints(w io.Writer, points []domain.Point) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d\n", len(points))
	for _, p := range points {
		bw.WriteString(strconv.FormatFloat(p.X, 'g', 17, 64))
		bw.WriteByte(',')
		bw.WriteString(strconv.FormatFloat(p.Y, 'g', 17, 64))
		bw.WriteByte(',')
		bw.WriteString(strconv.FormatFloat(p.Z, 'g', 17, 64))
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write points: %w", err)
	}
	return nil
}

func writeTriple(w *bufio.Writer, p domain.Point) {
	w.WriteString(formatSci(p.X))
	w.WriteByte(',')
	w.WriteString(formatSci(p.Y))
	w.WriteByte(',')
	w.WriteString(formatSci(p.Z))
}

func formatSci(v float64) string {
	switch {
	case math.IsNaN(v) && math.Signbit(v):
		return "-nan"
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'e', 10, 64)
}
