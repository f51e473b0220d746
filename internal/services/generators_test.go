package services

import (
	"math"
	"testing"

	"magnetic-field-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearYField(t *testing.T) {
	field, err := LinearYField(4, 0, 1)
	require.NoError(t, err)

	require.Equal(t, 4, field.Size())
	want := []float64{0, 0.25, 0.5, 0.75}
	for i, loc := range field.Locations {
		assert.Equal(t, domain.Point{Y: want[i]}, loc)
		assert.Equal(t, domain.Point{}, field.FieldVectors[i])
	}

	_, err = LinearYField(0, 0, 1)
	require.ErrorIs(t, err, domain.ErrInvalidGeometry)
	_, err = LinearYField(domain.MaxPoints+1, 0, 1)
	require.ErrorIs(t, err, domain.ErrAllocation)
}

func TestPlanarXYField(t *testing.T) {
	field, err := PlanarXYField(2, 3, -1, 1, 0, 4, 0.5)
	require.NoError(t, err)

	want := []domain.Point{
		{X: -1, Y: 0, Z: 0.5}, {X: 0, Y: 0, Z: 0.5}, {X: 1, Y: 0, Z: 0.5},
		{X: -1, Y: 4, Z: 0.5}, {X: 0, Y: 4, Z: 0.5}, {X: 1, Y: 4, Z: 0.5},
	}
	assert.Equal(t, want, field.Locations)
	assert.Len(t, field.FieldVectors, 6)

	single, err := PlanarXYField(1, 1, 2, 3, 4, 5, 6)
	require.NoError(t, err)
	assert.Equal(t, []domain.Point{{X: 2, Y: 4, Z: 6}}, single.Locations)

	_, err = PlanarXYField(0, 3, -1, 1, -1, 1, 0)
	require.ErrorIs(t, err, domain.ErrInvalidGeometry)
	_, err = PlanarXYField(1<<14, 1<<14, -1, 1, -1, 1, 0)
	require.ErrorIs(t, err, domain.ErrAllocation)
}

func TestLinearWire(t *testing.T) {
	wire, err := LinearWire(4, 0, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, wire.Segments())
	for i, p := range wire.Coordinates {
		assert.Equal(t, domain.Point{X: float64(i) * 0.25}, p)
	}

	_, err = LinearWire(0, 0, 1)
	require.ErrorIs(t, err, domain.ErrInvalidGeometry)
}

func TestSinusoidalWire(t *testing.T) {
	wire, err := SinusoidalWire(5, 2, 0, 1, 0.1, 1)
	require.NoError(t, err)

	require.Len(t, wire.Coordinates, 5)
	assert.Equal(t, 4, wire.Segments())

	first, last := wire.Coordinates[0], wire.Coordinates[4]
	assert.Equal(t, 0.0, first.X)
	assert.Equal(t, 1.0, last.X)
	assert.InDelta(t, 2.0, wire.Coordinates[1].Y, 1e-12)
	assert.InDelta(t, -2.0, wire.Coordinates[3].Y, 1e-12)
	for _, p := range wire.Coordinates {
		assert.Equal(t, 0.1, p.Z)
		assert.False(t, math.IsNaN(p.Y))
	}

	_, err = SinusoidalWire(1, 2, 0, 1, 0, 1)
	require.ErrorIs(t, err, domain.ErrInvalidGeometry)
	_, err = SinusoidalWire(5, 2, 0, 1, 0, 0)
	require.Error(t, err)
}
