package fileio

import (
	"bufio"
	"fmt"
	"io"
	"magnetic-field-service/internal/domain"
	"math"
	"os"
	"strconv"
	"strings"
)

// ReadPoints parses the shared wire/target grammar:
//
//	line 1:       positive integer count N
//	lines 2..N+1: comma-separated x,y,z
//
// Whitespace around values is ignored, blank lines are skipped, and anything
// after the N-th point is not read. Any failure returns a *domain.ParseError
// and no points.
func ReadPoints(r io.Reader, name string) ([]domain.Point, error) {
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

	header, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: "read count", Err: err}
		}
		return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: "missing count line"}
	}

	n, err := strconv.Atoi(header)
	if err != nil {
		return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: fmt.Sprintf("invalid count %q", header), Err: err}
	}
	if n <= 0 {
		return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: fmt.Sprintf("count must be positive, got %d", n)}
	}
	if err := domain.CheckCount(n); err != nil {
		return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: "count too large", Err: err}
	}

	points := make([]domain.Point, 0, n)
	for len(points) < n {
		line, ok := next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: "read point", Err: err}
			}
			return nil, &domain.ParseError{
				Path: name,
				Line: lineNo,
				Msg:  fmt.Sprintf("expected %d points, found %d", n, len(points)),
			}
		}

		p, err := parseTriple(line)
		if err != nil {
			return nil, &domain.ParseError{Path: name, Line: lineNo, Msg: "invalid point", Err: err}
		}
		points = append(points, p)
	}

	return points, nil
}

func parseTriple(line string) (domain.Point, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return domain.Point{}, fmt.Errorf("expected 3 comma-separated values, got %d", len(fields))
	}

	vals, err := parseFloats(fields)
	if err != nil {
		return domain.Point{}, err
	}
	return domain.Point{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func parseFloats(fields []string) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if strings.EqualFold(f, "-nan") {
			vals[i] = math.Copysign(math.NaN(), -1)
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// ReadWirePath loads a wire path file. The file must describe at least
// two points.
func ReadWirePath(path string) (*domain.WirePath, error) {
	points, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wire path: %w", err)
	}

	wire, err := domain.NewWirePath(points)
	if err != nil {
		return nil, fmt.Errorf("read wire path %q: %w", path, err)
	}
	return wire, nil
}

// ReadTargetField loads a target field file with zeroed field vectors.
func ReadTargetField(path string) (*domain.TargetField, error) {
	points, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read target field: %w", err)
	}

	field, err := domain.NewTargetField(points)
	if err != nil {
		return nil, fmt.Errorf("read target field %q: %w", path, err)
	}
	return field, nil
}

func readFile(path string) ([]domain.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	return ReadPoints(f, path)
}
