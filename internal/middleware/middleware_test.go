package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawsera/internal/domain/roles"
	"pawsera/internal/platform/apperr"
	"pawsera/internal/ports/auth"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, apperr.ErrInvalidCredentials
	}
	return auth.Claims{UserID: "u1"}, nil
}

func lookup(_ context.Context, userID string) (roles.Actor, error) {
	if userID == "u1" {
		return roles.Actor{UserID: "u1", Role: roles.PetOwner}, nil
	}
	return roles.Actor{}, errors.New("unknown user")
}

// serve corre la cadena AuthContext -> ResolveActor y devuelve lo que vio el handler.
func serve(t *testing.T, devMode bool, header, value string) (roles.Actor, bool, string) {
	t.Helper()
	var (
		actor roles.Actor
		found bool
		token string
	)
	h := AuthContext(fakeVerifier{}, devMode)(ResolveActor(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, found = GetActor(r.Context())
		token, _ = GetToken(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return actor, found, token
}

func TestAuthContext_BearerResolvesActor(t *testing.T) {
	a, ok, token := serve(t, false, "Authorization", "Bearer good")
	if !ok || a.UserID != "u1" || a.Role != roles.PetOwner {
		t.Fatalf("expected owner actor, got %#v ok=%v", a, ok)
	}
	if token != "good" {
		t.Fatalf("token should be kept in context, got %q", token)
	}
}

func TestAuthContext_InvalidTokenStaysAnonymous(t *testing.T) {
	if _, ok, _ := serve(t, false, "Authorization", "Bearer bad"); ok {
		t.Fatalf("invalid token must not resolve an actor")
	}
}

func TestAuthContext_DebugHeaderOnlyInDevMode(t *testing.T) {
	if _, ok, _ := serve(t, false, "X-Debug-User-ID", "u1"); ok {
		t.Fatalf("debug header must be ignored outside dev mode")
	}
	a, ok, _ := serve(t, true, "X-Debug-User-ID", "u1")
	if !ok || a.UserID != "u1" {
		t.Fatalf("dev mode should accept debug header, got %#v", a)
	}
}

func TestResolveActor_UnknownUserStaysAnonymous(t *testing.T) {
	if _, ok, _ := serve(t, true, "X-Debug-User-ID", "ghost"); ok {
		t.Fatalf("unknown user must not resolve an actor")
	}
}

func TestWithActor(t *testing.T) {
	ctx := WithActor(context.Background(), roles.Actor{UserID: "a1", Role: roles.Admin})
	if a, ok := GetActor(ctx); !ok || !a.IsAdmin() {
		t.Fatalf("expected admin actor, got %#v", a)
	}
	if _, ok := GetActor(WithActor(context.Background(), roles.Actor{})); ok {
		t.Fatalf("empty actor must not count")
	}
}
