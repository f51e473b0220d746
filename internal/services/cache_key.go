package services

import (
	"encoding/binary"
	"encoding/hex"
	"magnetic-field-service/internal/domain"
	"math"

	"github.com/cespare/xxhash/v2"
)

const cacheKeyPrefix = "bsfield:v1:"

// CacheKey derives a stable key from everything that affects the result:
// the exact bits of every wire and target coordinate, the current, and
// the strict-mode settings.
func CacheKey(wire *domain.WirePath, target *domain.TargetField, current float64, ev *Evaluator) string {
	h := xxhash.New()
	buf := make([]byte, 0, 64)

	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(wire.Coordinates)))
	_, _ = h.Write(buf)
	writePoints(h, wire.Coordinates)

	buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(len(target.Locations)))
	_, _ = h.Write(buf)
	writePoints(h, target.Locations)

	buf = binary.LittleEndian.AppendUint64(buf[:0], math.Float64bits(current))
	strict := uint64(0)
	if ev != nil && ev.Strict {
		strict = 1
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(ev.Epsilon))
	}
	buf = binary.LittleEndian.AppendUint64(buf, strict)
	_, _ = h.Write(buf)

	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// WireHash identifies a wire path independent of targets and current.
func WireHash(wire *domain.WirePath) string {
	h := xxhash.New()
	writePoints(h, wire.Coordinates)
	return hex.EncodeToString(h.Sum(nil))
}

func writePoints(h *xxhash.Digest, points []domain.Point) {
	buf := make([]byte, 0, 24)
	for _, p := range points {
		buf = binary.LittleEndian.AppendUint64(buf[:0], math.Float64bits(p.X))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Y))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Z))
		_, _ = h.Write(buf)
	}
}
