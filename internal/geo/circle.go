package geo

import "math"

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371000.0

// DefaultSegments is the circle approximation resolution used when the caller
// does not ask for a specific segment count.
const DefaultSegments = 64

// World mask bounds. Latitude stops short of the poles where the
// equirectangular approximation (and web mercator rendering) break down.
const (
	worldWest  = -180.0
	worldEast  = 180.0
	worldSouth = -85.0
	worldNorth = 85.0
)

// Coordinates represents a geographical point as [Lon, Lat] in degrees.
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Point is a single ring vertex.
type Point = Coordinates

// Ring is an ordered sequence of vertices; a closed ring repeats its first
// vertex at the end.
type Ring []Point

// CirclePolygon approximates a geodesic circle of radiusMeters around center
// as a closed ring of segments+1 points.
//
// It uses an equirectangular approximation: the latitude offset is the
// radius expressed in degrees of arc, and the longitude offset is the same
// value stretched by 1/cos(lat) to correct for meridian convergence. The
// approximation degrades near the poles (cos approaches zero); centers are
// expected inside the world mask bounds.
func CirclePolygon(center Coordinates, radiusMeters float64, segments int) Ring {
	if segments < 3 {
		segments = DefaultSegments
	}

	latOffset := radiusMeters / EarthRadius * (180.0 / math.Pi)
	lonOffset := latOffset / math.Cos(center.Lat*math.Pi/180.0)

	ring := make(Ring, 0, segments+1)
	for i := 0; i < segments; i++ {
		theta := float64(i) * (2.0 * math.Pi / float64(segments))
		ring = append(ring, Point{
			Lon: center.Lon + lonOffset*math.Sin(theta),
			Lat: center.Lat + latOffset*math.Cos(theta),
		})
	}

	// close the ring
	ring = append(ring, ring[0])

	return ring
}

// WorldRing returns the fixed world-bounding rectangle as a closed ring.
func WorldRing() Ring {
	return Ring{
		{Lon: worldWest, Lat: worldSouth},
		{Lon: worldEast, Lat: worldSouth},
		{Lon: worldEast, Lat: worldNorth},
		{Lon: worldWest, Lat: worldNorth},
		{Lon: worldWest, Lat: worldSouth},
	}
}

// InvertedMask returns the two rings of the overlay mask: the fixed world
// rectangle as the outer ring and the circle polygon as the inner ring.
// Rendered as a single polygon the fill covers everything outside the circle.
func InvertedMask(center Coordinates, radiusMeters float64, segments int) (outer, inner Ring) {
	return WorldRing(), CirclePolygon(center, radiusMeters, segments)
}

// OverlayFeatures builds the full overlay payload for the map: the inverted
// mask tagged "overlay" and the circle outline tagged "circle". Each call
// produces a complete replacement for the overlay data source.
func OverlayFeatures(center Coordinates, radiusMeters float64, segments int) FeatureCollection {
	outer, inner := InvertedMask(center, radiusMeters, segments)

	return FeatureCollection{
		Type: "FeatureCollection",
		Features: []Feature{
			{
				Type:       "Feature",
				Geometry:   NewPolygon(outer, inner),
				Properties: map[string]interface{}{"kind": "overlay"},
			},
			{
				Type:       "Feature",
				Geometry:   NewPolygon(inner),
				Properties: map[string]interface{}{"kind": "circle"},
			},
		},
	}
}
