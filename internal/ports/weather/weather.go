package weather

import "context"

type Report struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Icon        string  `json:"icon,omitempty"`
}

type Provider interface {
	Current(ctx context.Context, city string) (Report, error)
}
