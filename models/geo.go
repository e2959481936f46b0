package models

// Coordinate is a WGS84 point. A zero Lat or Lng means the point is unknown:
// distance computations must treat it as unreachable, never as (0,0).
type Coordinate struct {
	Lat float64
	Lng float64
}

// IsZero reports whether either component is missing.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 || c.Lng == 0
}

// Address is a delivery or pickup address with resolved coordinates.
// Geocoding happens upstream; by the time an Address reaches this codebase
// the Coordinate is either filled in or zero.
type Address struct {
	Street       string
	Number       string
	Neighborhood string
	City         string
	ZipCode      string
	Label        string // e.g. "Casa", "Trabalho"
	Coordinate   Coordinate
}
