package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pawsera/internal/platform/apperr"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Timeout: time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClient_RequiresConfig(t *testing.T) {
	if _, err := NewClient(Config{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSignIn_SendsAPIKeyAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/sessions" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "k" {
			t.Errorf("missing api key header")
		}
		var body credentialsRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "a@b.co" {
			t.Errorf("unexpected email %q", body.Email)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user_id": "u1", "email": "a@b.co", "token": "tok"})
	})

	p, err := c.SignIn(context.Background(), "a@b.co", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if p.UserID != "u1" || p.Token != "tok" {
		t.Fatalf("unexpected principal %#v", p)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, apperr.ErrInvalidCredentials},
		{http.StatusConflict, apperr.ErrConflict},
		{http.StatusBadRequest, apperr.ErrInvalidInput},
		{http.StatusBadGateway, apperr.ErrUpstreamUnavailable},
	}
	for _, tc := range cases {
		status := tc.status
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		if _, err := c.CreateAccount(context.Background(), "a@b.co", "secret1"); !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", status, tc.want, err)
		}
	}
}

func TestVerify_UnreachableIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: url, APIKey: "k", Timeout: time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Verify(context.Background(), "tok"); !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestVerify_ReturnsClaims(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("expected bearer header")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user_id": "u9", "email": "x@y.co"})
	})
	claims, err := c.Verify(context.Background(), "tok")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u9" {
		t.Fatalf("unexpected claims %#v", claims)
	}
}
