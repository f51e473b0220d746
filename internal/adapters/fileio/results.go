package fileio

import (
	"bufio"
	"fmt"
	"io"
	"magnetic-field-service/internal/domain"
	"strconv"
	"strings"
)

// One row of evaluation output.
type ResultRow struct {
	// Index is -1 when the output was written without row indices.
	Index    int
	Location *domain.Point
	Field    domain.Point
}

// Parsed evaluation output.
type Results struct {
	Current float64
	Rows    []ResultRow
}

// Locations returns the echoed target locations, or nil when any row
// was written without coordinates.
func (r *Results) Locations() []domain.Point {
	out := make([]domain.Point, 0, len(r.Rows))
	for _, row := range r.Rows {
		if row.Location == nil {
			return nil
		}
		out = append(out, *row.Location)
	}
	return out
}

// ReadResults parses output produced by WriteResults. Row indices and
// echoed coordinates are detected per row.
func ReadResults(r io.Reader, name string) (*Results, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	next := func() (string, bool) {
		for sc.Scan() {
			lineNo++
			line := strings.TrimSpace(sc.Text())
			if line != "" {
				return line, true
			}
		}
		return "", false
	}

	line, ok := next()
	if !ok {
		return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: "missing current line", Err: sc.Err()}
	}
	current, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: "invalid current", Err: err}
	}

	line, ok = next()
	if !ok {
		return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: "missing count line", Err: sc.Err()}
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 {
		return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: fmt.Sprintf("invalid count %q", line), Err: err}
	}
	if err := domain.CheckCount(n); err != nil {
		return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: "count too large", Err: err}
	}

	res := &Results{Current: current, Rows: make([]ResultRow, 0, n)}
	for len(res.Rows) < n {
		line, ok := next()
		if !ok {
			return nil, &domain.ParseError{
				Path: name,
				Line: lineNo,
				Msg:  fmt.Sprintf("expected %d rows, found %d", n, len(res.Rows)),
				Err:  sc.Err(),
			}
		}

		row, err := parseRow(line)
		if err != nil {
			return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: "invalid row", Err: err}
		}
		res.Rows = append(res.Rows, row)
	}

	return res, nil
}

func parseRow(line string) (ResultRow, error) {
	row := ResultRow{Index: -1}

	if head, rest, found := strings.Cut(line, " "); found {
		idx, err := strconv.Atoi(head)
		if err != nil {
			return row, fmt.Errorf("invalid index %q: %w", head, err)
		}
		row.Index = idx
		line = strings.TrimSpace(rest)
	}

	fields := strings.Split(line, ",")
	vals, err := parseFloats(fields)
	if err != nil {
		return row, err
	}

	switch len(vals) {
	case 3:
		row.Field = domain.Point{X: vals[0], Y: vals[1], Z: vals[2]}
	case 6:
		row.Location = &domain.Point{X: vals[0], Y: vals[1], Z: vals[2]}
		row.Field = domain.Point{X: vals[3], Y: vals[4], Z: vals[5]}
	default:
		return row, fmt.Errorf("expected 3 or 6 comma-separated values, got %d", len(vals))
	}
	return row, nil
}
