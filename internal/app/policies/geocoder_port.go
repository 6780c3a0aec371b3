package policies

import "context"

// Coordinates is a geocoding hit for a free-form address.
type Coordinates struct {
	Lat float64
	Lon float64
}

// GeocoderPort resolves a postal address to map coordinates. Implementations
// return ErrNoMatch-style errors; callers treat failures as non-fatal and
// leave coordinates unset.
type GeocoderPort interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}
