package maps

import "context"

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place es un resultado normalizado del proveedor de mapas.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Address          string   `json:"vicinity"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	OpenNow          *bool    `json:"open_now,omitempty"`
	Location         Location `json:"location"`
}

type NearbyQuery struct {
	Center   Location
	RadiusM  int
	Category string
}

type Finder interface {
	Nearby(ctx context.Context, q NearbyQuery) ([]Place, error)
}

// Geocoder resuelve una ciudad a coordenadas.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (Location, error)
}
