package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestGetJSON_EncodesQueryAndDecodes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "São Paulo" {
			t.Errorf("expected decoded city, got %q", r.URL.Query().Get("q"))
		}
		if r.Header.Get("X-Api-Key") != "k" {
			t.Errorf("missing header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, time.Second)
	if err != nil {
		t.Fatalf("NewWithBaseURL: %v", err)
	}

	var out struct {
		Name string `json:"name"`
	}
	err = c.GetJSON(context.Background(), "weather", url.Values{"q": {"São Paulo"}}, map[string]string{"X-Api-Key": "k"}, &out)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Name != "ok" {
		t.Fatalf("expected name ok, got %q", out.Name)
	}
}

func TestDoJSON_Non2xxReturnsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := New(time.Second)
	err := c.DoJSON(context.Background(), http.MethodPost, ts.URL+"/x", nil, map[string]string{"a": "b"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if StatusCode(err) != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 in HTTPError, got %v", err)
	}
}

func TestDoJSON_RelativePathRequiresBaseURL(t *testing.T) {
	c := New(0)
	if err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil); err == nil {
		t.Fatalf("expected error for relative path without base url")
	}
}
