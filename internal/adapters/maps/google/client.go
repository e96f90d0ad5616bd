// Package google implementa maps.Finder (Places nearbysearch) y maps.Geocoder
// (Geocoding API) sobre httpclient.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pawsera/internal/platform/apperr"
	"pawsera/internal/platform/httpclient"
	"pawsera/internal/ports/maps"
)

const service = "maps"

type Config struct {
	PlacesBaseURL  string // .../maps/api/place
	GeocodeBaseURL string // .../maps/api/geocode
	APIKey         string
	Timeout        time.Duration
}

type Client struct {
	places  *httpclient.Client
	geocode *httpclient.Client
	apiKey  string
}

func NewClient(cfg Config) (*Client, error) {
	places, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.PlacesBaseURL), cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("places: %w", err)
	}
	geo, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.GeocodeBaseURL), cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	return &Client{places: places, geocode: geo, apiKey: strings.TrimSpace(cfg.APIKey)}, nil
}

var (
	_ maps.Finder   = (*Client)(nil)
	_ maps.Geocoder = (*Client)(nil)
)

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type nearbyResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID          string  `json:"place_id"`
		Name             string  `json:"name"`
		Vicinity         string  `json:"vicinity"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		OpeningHours     *struct {
			OpenNow bool `json:"open_now"`
		} `json:"opening_hours"`
		Geometry struct {
			Location latLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *Client) Nearby(ctx context.Context, q maps.NearbyQuery) ([]maps.Place, error) {
	if c.apiKey == "" {
		return nil, apperr.Upstream(service, errors.New("api key not configured"))
	}
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%s,%s", fmtCoord(q.Center.Lat), fmtCoord(q.Center.Lng)))
	params.Set("radius", strconv.Itoa(q.RadiusM))
	if q.Category != "" {
		params.Set("type", q.Category)
	}
	params.Set("key", c.apiKey)

	var out nearbyResponse
	if err := c.places.GetJSON(ctx, "/nearbysearch/json", params, nil, &out); err != nil {
		return nil, apperr.Upstream(service, err)
	}
	if err := statusErr(out.Status, out.ErrorMessage); err != nil {
		return nil, err
	}

	places := make([]maps.Place, 0, len(out.Results))
	for _, r := range out.Results {
		p := maps.Place{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			Address:          r.Vicinity,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			Location:         maps.Location{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		}
		if r.OpeningHours != nil {
			open := r.OpeningHours.OpenNow
			p.OpenNow = &open
		}
		places = append(places, p)
	}
	return places, nil
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location latLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *Client) Geocode(ctx context.Context, city string) (maps.Location, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return maps.Location{}, fmt.Errorf("%w: city is required", apperr.ErrInvalidInput)
	}
	if c.apiKey == "" {
		return maps.Location{}, apperr.Upstream(service, errors.New("api key not configured"))
	}
	params := url.Values{}
	params.Set("address", city)
	params.Set("key", c.apiKey)

	var out geocodeResponse
	if err := c.geocode.GetJSON(ctx, "/json", params, nil, &out); err != nil {
		return maps.Location{}, apperr.Upstream(service, err)
	}
	if err := statusErr(out.Status, out.ErrorMessage); err != nil {
		return maps.Location{}, err
	}
	if len(out.Results) == 0 {
		return maps.Location{}, fmt.Errorf("%w: no geocode result for %q", apperr.ErrNotFound, city)
	}
	loc := out.Results[0].Geometry.Location
	return maps.Location{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// statusErr interpreta el campo status de la API. ZERO_RESULTS no es error.
func statusErr(status, msg string) error {
	switch status {
	case "OK", "ZERO_RESULTS", "":
		return nil
	case "INVALID_REQUEST":
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, msg)
	default:
		return apperr.Upstream(service, fmt.Errorf("status %s: %s", status, msg))
	}
}

func fmtCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
