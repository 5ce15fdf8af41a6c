package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRadius(t *testing.T) {
	tests := []struct {
		meters int
		want   string
	}{
		{100, "100m"},
		{500, "500m"},
		{999, "999m"},
		{1000, "1.0km"},
		{1500, "1.5km"},
		{2500, "2.5km"},
		{5000, "5.0km"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRadius(tt.meters), "radius %d", tt.meters)
	}
}

func TestFormatCoordinates(t *testing.T) {
	got := FormatCoordinates(Coordinates{Lon: -0.14189, Lat: 51.50136})
	assert.Equal(t, "51.5014, -0.1419", got)

	got = FormatCoordinates(Coordinates{Lon: 0, Lat: 0})
	assert.Equal(t, "0.0000, 0.0000", got)
}
