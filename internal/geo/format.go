package geo

import "fmt"

// FormatRadius renders a radius in meters for the info panel: plain meters
// below one kilometer, kilometers with one decimal from there up.
func FormatRadius(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", meters)
	}

	return fmt.Sprintf("%.1fkm", float64(meters)/1000.0)
}

// FormatCoordinates renders coordinates as "lat, lon" with four decimal
// places, the precision shown in the selection panel.
func FormatCoordinates(c Coordinates) string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}
