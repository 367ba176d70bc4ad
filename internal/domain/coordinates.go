package domain

import "fmt"

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// LatLngString formats the point as "lat,lng", the form map APIs accept as a place.
func (c Coordinates) LatLngString() string {
	return fmt.Sprintf("%.7f,%.7f", c.Lat, c.Lon)
}

// Valid reports whether the coordinates fall inside WGS84 bounds.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}
