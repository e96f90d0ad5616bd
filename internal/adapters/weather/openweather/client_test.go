package openweather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pawsera/internal/platform/apperr"
)

func TestCurrent_ParsesMetricResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/weather" || q.Get("q") != "Toronto" || q.Get("units") != "metric" || q.Get("appid") != "k" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(`{"name":"Toronto","main":{"temp":18.2,"humidity":60},"weather":[{"main":"Clouds","icon":"03d"}],"wind":{"speed":3.1}}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "k", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	rep, err := c.Current(context.Background(), "Toronto")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if rep.City != "Toronto" || rep.Temperature != 18.2 || rep.Condition != "Clouds" || rep.Humidity != 60 {
		t.Fatalf("unexpected report %#v", rep)
	}
}

func TestCurrent_FailuresMapToSentinels(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusInternalServerError)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, "k", time.Second)
	if _, err := c.Current(context.Background(), "Toronto"); !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	status.Store(http.StatusNotFound)
	if _, err := c.Current(context.Background(), "Nowhere"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCurrent_MissingKeyIsUpstream(t *testing.T) {
	c, _ := NewClient("http://127.0.0.1:1", "", time.Second)
	if _, err := c.Current(context.Background(), "Toronto"); !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
