package geo

import (
	"math"
	"testing"

	"github.com/seamarks/poisync/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDegreesToSemicircles(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		want int32
	}{
		{"zero", 0, 0},
		{"north pole", 90, 1 << 30},
		{"south pole", -90, -(1 << 30)},
		{"antimeridian wraps", 180, math.MinInt32},
		{"west antimeridian", -180, math.MinInt32},
		{"truncates toward zero positive", 1e-9, 0},
		{"truncates toward zero negative", -1e-9, 0},
		{"fort lauderdale", 26.1, 311385128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DegreesToSemicircles(tt.deg))
		})
	}
}

func TestSemicirclesRoundTrip(t *testing.T) {
	for _, deg := range []float64{-89.999, -45.5, -0.0001, 0, 12.345678, 26.1, 89.5, 179.999} {
		sc := DegreesToSemicircles(deg)
		back := DegreesToSemicircles(SemicirclesToDegrees(sc))
		assert.InDelta(t, float64(sc), float64(back), 1, "deg=%v", deg)
	}
}

func TestPositionFromDegrees(t *testing.T) {
	pos, err := PositionFromDegrees(45, -90)
	require.NoError(t, err)
	assert.Equal(t, core.Position{Latitude: 1 << 29, Longitude: -(1 << 30)}, pos)

	_, err = PositionFromDegrees(91, 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
	_, err = PositionFromDegrees(0, -181)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
	_, err = PositionFromDegrees(math.NaN(), 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestGeohash(t *testing.T) {
	a := Geohash(26.1, -80.1)
	b := Geohash(26.1, -80.1)
	c := Geohash(-33.9, 151.2)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotZero(t, a)
}

func TestCoords3857From4326(t *testing.T) {
	point, err := Coords3857From4326(0, 0)
	require.NoError(t, err)
	xy, ok := point.Coordinates()
	require.True(t, ok)
	assert.InDelta(t, 0, xy.X, 1e-6)
	assert.InDelta(t, 0, xy.Y, 1e-6)

	point, err = Coords3857From4326(-80.1, 26.1)
	require.NoError(t, err)
	xy, ok = point.Coordinates()
	require.True(t, ok)
	assert.InDelta(t, -8916691.2, xy.X, 1)
}

func TestPointPositionRoundTrip(t *testing.T) {
	pos, err := PositionFromDegrees(26.1, -80.1)
	require.NoError(t, err)

	pt, err := PointFromPosition(pos)
	require.NoError(t, err)

	back, err := PositionFromPoint(pt)
	require.NoError(t, err)
	assert.InDelta(t, float64(pos.Latitude), float64(back.Latitude), 2)
	assert.InDelta(t, float64(pos.Longitude), float64(back.Longitude), 2)
}
