// Package remote habla con un servicio de identidad externo por HTTP/JSON.
// Implementa auth.IdentityProvider y auth.AuthVerifier.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pawsera/internal/platform/apperr"
	"pawsera/internal/platform/httpclient"
	"pawsera/internal/ports/auth"
)

const service = "identity"

var ErrNotConfigured = errors.New("identity client not configured")

type Config struct {
	BaseURL string
	APIKey  string

	// Header de la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (r sessionResponse) principal() (auth.Principal, error) {
	if strings.TrimSpace(r.UserID) == "" {
		return auth.Principal{}, apperr.Upstream(service, errors.New("response missing user_id"))
	}
	return auth.Principal{
		UserID:    strings.TrimSpace(r.UserID),
		Email:     strings.TrimSpace(r.Email),
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt,
	}, nil
}

func (c *Client) CreateAccount(ctx context.Context, email, password string) (auth.Principal, error) {
	var out sessionResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/accounts", c.headers(""), credentialsRequest{Email: email, Password: password}, &out)
	if err != nil {
		return auth.Principal{}, mapErr(err)
	}
	return out.principal()
}

func (c *Client) SignIn(ctx context.Context, email, password string) (auth.Principal, error) {
	var out sessionResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/sessions", c.headers(""), credentialsRequest{Email: email, Password: password}, &out)
	if err != nil {
		return auth.Principal{}, mapErr(err)
	}
	return out.principal()
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.ErrInvalidCredentials
	}
	return mapErr(c.http.DoJSON(ctx, http.MethodDelete, "/v1/sessions/current", c.headers(token), nil, nil))
}

// Verify manda el token en el body y también en Authorization.
func (c *Client) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, apperr.ErrInvalidCredentials
	}

	var out struct {
		UserID    string    `json:"user_id"`
		Email     string    `json:"email"`
		TokenID   string    `json:"token_id"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/tokens/verify", c.headers(token), map[string]string{"token": token}, &out)
	if err != nil {
		return auth.Claims{}, mapErr(err)
	}
	if strings.TrimSpace(out.UserID) == "" {
		return auth.Claims{}, fmt.Errorf("%w: claims missing user id", apperr.ErrInvalidCredentials)
	}
	return auth.Claims{
		UserID:    strings.TrimSpace(out.UserID),
		Email:     strings.TrimSpace(out.Email),
		TokenID:   out.TokenID,
		ExpiresAt: out.ExpiresAt,
	}, nil
}

func (c *Client) headers(token string) map[string]string {
	h := map[string]string{c.apiKeyHeader: c.apiKey}
	if token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}

// mapErr traduce status del servicio a sentinels. Red caída o 5xx => Upstream.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch httpclient.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.ErrInvalidCredentials
	case http.StatusConflict:
		return fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	case http.StatusNotFound:
		return apperr.ErrInvalidCredentials
	default:
		return apperr.Upstream(service, err)
	}
}
