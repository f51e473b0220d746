// Package codec holds the binary encoding shared by the cache and run store.
package codec

import (
	"fmt"
	"magnetic-field-service/internal/domain"

	"github.com/fxamacker/cbor/v2"
)

// EncodePoints encodes points as a CBOR array of [x, y, z] arrays.
// Float widths are preserved so values decode to identical float64s;
// NaN and ±Inf survive the round trip.
func EncodePoints(points []domain.Point) ([]byte, error) {
	rows := make([][3]float64, len(points))
	for i, p := range points {
		rows[i] = [3]float64{p.X, p.Y, p.Z}
	}

	b, err := cbor.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode points: %w", err)
	}
	return b, nil
}

// DecodePoints reverses EncodePoints.
func DecodePoints(data []byte) ([]domain.Point, error) {
	var rows [][3]float64
	if err := cbor.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}

	points := make([]domain.Point, len(rows))
	for i, r := range rows {
		points[i] = domain.Point{X: r[0], Y: r[1], Z: r[2]}
	}
	return points, nil
}
