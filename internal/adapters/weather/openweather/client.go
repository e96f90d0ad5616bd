// Package openweather implementa weather.Provider con el endpoint
// /weather de OpenWeatherMap (unidades métricas).
package openweather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pawsera/internal/platform/apperr"
	"pawsera/internal/platform/httpclient"
	"pawsera/internal/ports/weather"
)

const service = "weather"

type Client struct {
	http   *httpclient.Client
	apiKey string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(baseURL), timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, apiKey: strings.TrimSpace(apiKey)}, nil
}

var _ weather.Provider = (*Client)(nil)

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (c *Client) Current(ctx context.Context, city string) (weather.Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return weather.Report{}, fmt.Errorf("%w: city is required", apperr.ErrInvalidInput)
	}
	if c.apiKey == "" {
		return weather.Report{}, apperr.Upstream(service, errors.New("api key not configured"))
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	var out currentResponse
	if err := c.http.GetJSON(ctx, "/weather", q, nil, &out); err != nil {
		if httpclient.StatusCode(err) == http.StatusNotFound {
			return weather.Report{}, fmt.Errorf("%w: unknown city %q", apperr.ErrNotFound, city)
		}
		return weather.Report{}, apperr.Upstream(service, err)
	}

	r := weather.Report{
		City:        out.Name,
		Temperature: out.Main.Temp,
		Humidity:    out.Main.Humidity,
		WindSpeed:   out.Wind.Speed,
	}
	if r.City == "" {
		r.City = city
	}
	if len(out.Weather) > 0 {
		r.Condition = out.Weather[0].Main
		r.Icon = out.Weather[0].Icon
	}
	return r, nil
}
