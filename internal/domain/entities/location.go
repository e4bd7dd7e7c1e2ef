package entities

// Location represents a geographic coordinate pair (latitude/longitude).
// It is a small immutable value type and is passed by value throughout
// the codebase.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// NewLocation creates a Location value from latitude and longitude.
func NewLocation(lat, lng float64) Location {
	return Location{
		Latitude:  lat,
		Longitude: lng,
	}
}

// Valid reports whether the coordinates fall within the WGS84 ranges:
// latitude in [-90, 90] and longitude in [-180, 180].
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}
