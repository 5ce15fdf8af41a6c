package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCirclePolygonClosure(t *testing.T) {
	tests := []struct {
		name     string
		radius   float64
		segments int
	}{
		{"small radius few segments", 100, 3},
		{"default resolution", 1000, 64},
		{"large radius", 5000, 128},
		{"odd segment count", 2500, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ring := CirclePolygon(Coordinates{Lon: -0.14, Lat: 51.5}, tt.radius, tt.segments)

			require.Len(t, ring, tt.segments+1)
			assert.Equal(t, ring[0], ring[len(ring)-1], "ring must be closed")
		})
	}
}

func TestCirclePolygonSegmentsClamped(t *testing.T) {
	for _, segments := range []int{2, 1, 0, -5} {
		ring := CirclePolygon(Coordinates{}, 1000, segments)
		assert.Len(t, ring, DefaultSegments+1)
	}
}

func TestCirclePolygonReferencePoints(t *testing.T) {
	// ~111195m is one degree of arc on the mean Earth radius, so at the
	// equator a 4-segment circle must hit the four cardinal offsets.
	radius := EarthRadius * math.Pi / 180.0
	ring := CirclePolygon(Coordinates{Lon: 0, Lat: 0}, radius, 4)

	require.Len(t, ring, 5)

	const tol = 1e-6
	expected := []Point{
		{Lon: 0, Lat: 1},
		{Lon: 1, Lat: 0},
		{Lon: 0, Lat: -1},
		{Lon: -1, Lat: 0},
		{Lon: 0, Lat: 1},
	}
	for i, want := range expected {
		assert.InDelta(t, want.Lon, ring[i].Lon, tol, "point %d lon", i)
		assert.InDelta(t, want.Lat, ring[i].Lat, tol, "point %d lat", i)
	}
}

func TestCirclePolygonMeridianCorrection(t *testing.T) {
	// Away from the equator the longitude offset must widen by 1/cos(lat):
	// the easternmost point sits further from the center than the
	// northernmost point is.
	center := Coordinates{Lon: -0.1419, Lat: 51.5014}
	ring := CirclePolygon(center, 1000, 4)

	latSpan := ring[0].Lat - center.Lat
	lonSpan := ring[1].Lon - center.Lon

	assert.Greater(t, lonSpan, latSpan)
	assert.InDelta(t, latSpan/lonSpan, 0.6225, 0.001) // cos(51.5014°)
}

func TestInvertedMask(t *testing.T) {
	center := Coordinates{Lon: -2.2426, Lat: 53.4808}

	outer, inner := InvertedMask(center, 2000, 64)

	assert.Equal(t, WorldRing(), outer, "outer ring is the fixed world rectangle")
	assert.Equal(t, CirclePolygon(center, 2000, 64), inner)

	// outer ring is independent of center and radius
	outer2, _ := InvertedMask(Coordinates{Lon: 170, Lat: -45}, 100, 8)
	assert.Equal(t, outer, outer2)
}

func TestWorldRingClosed(t *testing.T) {
	ring := WorldRing()

	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])
}

func TestOverlayFeatures(t *testing.T) {
	center := Coordinates{Lon: -0.1419, Lat: 51.5014}

	fc := OverlayFeatures(center, 1500, 64)

	require.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)

	mask := fc.Features[0]
	assert.Equal(t, "overlay", mask.Properties["kind"])
	assert.Equal(t, "Polygon", mask.Geometry.Type)
	maskRings, ok := mask.Geometry.Coordinates.([][][]float64)
	require.True(t, ok)
	require.Len(t, maskRings, 2, "mask carries outer and inner rings")
	assert.Len(t, maskRings[0], 5)
	assert.Len(t, maskRings[1], 65)

	circle := fc.Features[1]
	assert.Equal(t, "circle", circle.Properties["kind"])
	circleRings, ok := circle.Geometry.Coordinates.([][][]float64)
	require.True(t, ok)
	require.Len(t, circleRings, 1)
	assert.Equal(t, maskRings[1], circleRings[0], "circle outline matches the mask cutout")
}
