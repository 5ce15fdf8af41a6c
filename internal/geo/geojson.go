// Package geo handles geographic data structures and the circle/mask geometry
// used for the radius overlay.
package geo

// FeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type FeatureCollection struct {
	Type     string    `json:"type" yaml:"type"`
	Features []Feature `json:"features" yaml:"features"`
}

// Feature represents a single geographic feature with geometry and properties.
type Feature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   Geometry               `json:"geometry" yaml:"geometry"`
}

// Geometry represents the geometry of a feature. Coordinates holds
// []float64 for a Point and [][][]float64 for a Polygon (rings of [Lon, Lat]).
type Geometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates interface{} `json:"coordinates" yaml:"coordinates"`
}

// NewPoint builds a Point geometry at the given coordinates.
func NewPoint(c Coordinates) Geometry {
	return Geometry{
		Type:        "Point",
		Coordinates: []float64{c.Lon, c.Lat},
	}
}

// NewPolygon builds a Polygon geometry from one or more rings.
// A single ring is a plain polygon; an outer ring plus an inner ring renders
// as outer-minus-inner (the inverted mask case).
func NewPolygon(rings ...Ring) Geometry {
	coords := make([][][]float64, 0, len(rings))
	for _, r := range rings {
		ring := make([][]float64, 0, len(r))
		for _, p := range r {
			ring = append(ring, []float64{p.Lon, p.Lat})
		}
		coords = append(coords, ring)
	}

	return Geometry{
		Type:        "Polygon",
		Coordinates: coords,
	}
}
