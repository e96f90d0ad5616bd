// Package nearby busca veterinarias cerca del usuario usando el proveedor de mapas.
package nearby

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/platform/apperr"
	"pawsera/internal/platform/logger"
	"pawsera/internal/ports/maps"
)

const (
	Category      = "veterinary_care"
	DefaultRadius = 3000
	MaxRadius     = 50000

	earthRadiusKm = 6371.0
)

type Config struct {
	DefaultCity     string
	DefaultLocation maps.Location
	GeoTimeout      time.Duration
}

type Service struct {
	finder   maps.Finder
	geocoder maps.Geocoder
	users    *users.Service
	cfg      Config
	log      logger.Logger
}

func NewService(finder maps.Finder, geocoder maps.Geocoder, usersSvc *users.Service, cfg Config, log logger.Logger) *Service {
	if cfg.GeoTimeout <= 0 {
		cfg.GeoTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{finder: finder, geocoder: geocoder, users: usersSvc, cfg: cfg, log: log}
}

type Query struct {
	Lat, Lng *float64
	RadiusM  int    // 0 => DefaultRadius
	Text     string // filtro por nombre/dirección
}

type Result struct {
	maps.Place
	DistanceKm float64 `json:"distance_km"`
}

type SearchResult struct {
	Center   maps.Location
	Geocoded bool // true => el centro salió de la ciudad del usuario
	Fallback bool // true => se usó la ubicación por defecto
	Places   []Result
}

func (s *Service) Search(ctx context.Context, actor roles.Actor, q Query) (SearchResult, error) {
	if s.finder == nil {
		return SearchResult{}, apperr.Upstream("maps", fmt.Errorf("finder not configured"))
	}
	radius := q.RadiusM
	if radius == 0 {
		radius = DefaultRadius
	}
	if radius < 0 || radius > MaxRadius {
		return SearchResult{}, fmt.Errorf("%w: radius must be between 1 and %d", apperr.ErrInvalidInput, MaxRadius)
	}

	var out SearchResult
	switch {
	case q.Lat != nil && q.Lng != nil:
		if *q.Lat < -90 || *q.Lat > 90 || *q.Lng < -180 || *q.Lng > 180 {
			return SearchResult{}, fmt.Errorf("%w: coordinates out of range", apperr.ErrInvalidInput)
		}
		out.Center = maps.Location{Lat: *q.Lat, Lng: *q.Lng}
	case q.Lat != nil || q.Lng != nil:
		return SearchResult{}, fmt.Errorf("%w: lat and lng go together", apperr.ErrInvalidInput)
	default:
		out.Center, out.Geocoded = s.locate(ctx, actor)
		out.Fallback = !out.Geocoded
	}

	places, err := s.finder.Nearby(ctx, maps.NearbyQuery{Center: out.Center, RadiusM: radius, Category: Category})
	if err != nil {
		return SearchResult{}, err
	}

	out.Places = Filter(places, q.Text, out.Center)
	return out, nil
}

// locate geocodifica la ciudad del usuario con timeout. Cualquier falla => ubicación por defecto.
func (s *Service) locate(ctx context.Context, actor roles.Actor) (maps.Location, bool) {
	city := s.cfg.DefaultCity
	if s.users != nil && actor.UserID != "" {
		if u, err := s.users.GetByID(ctx, actor.UserID); err == nil && strings.TrimSpace(u.City) != "" {
			city = u.City
		}
	}
	if s.geocoder == nil || strings.TrimSpace(city) == "" {
		return s.cfg.DefaultLocation, false
	}

	gctx, cancel := context.WithTimeout(ctx, s.cfg.GeoTimeout)
	defer cancel()

	loc, err := s.geocoder.Geocode(gctx, city)
	if err != nil {
		s.log.Warn("geocode failed, using default location", map[string]any{"city": city, "err": err})
		return s.cfg.DefaultLocation, false
	}
	return loc, true
}

// Filter deja los lugares cuyo nombre o dirección contienen text (sin distinguir
// mayúsculas) y los ordena por distancia al centro.
func Filter(places []maps.Place, text string, center maps.Location) []Result {
	text = strings.ToLower(strings.TrimSpace(text))
	out := make([]Result, 0, len(places))
	for _, p := range places {
		if text != "" &&
			!strings.Contains(strings.ToLower(p.Name), text) &&
			!strings.Contains(strings.ToLower(p.Address), text) {
			continue
		}
		out = append(out, Result{Place: p, DistanceKm: Distance(center, p.Location)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

// Distance en km (haversine).
func Distance(a, b maps.Location) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(b.Lat - a.Lat)
	dLng := rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
