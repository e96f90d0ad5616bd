package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawsera/internal/platform/apperr"
)

func TestStatusFor_MapsSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("%w: email", apperr.ErrInvalidInput), http.StatusBadRequest},
		{apperr.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperr.ErrForbidden, http.StatusForbidden},
		{apperr.ErrNotFound, http.StatusNotFound},
		{apperr.ErrUserNotFound, http.StatusNotFound},
		{apperr.ErrConflict, http.StatusConflict},
		{apperr.ErrInvalidTransition, http.StatusConflict},
		{apperr.ErrUnknownRole, http.StatusUnprocessableEntity},
		{apperr.Upstream("weather", errors.New("timeout")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusFor(c.err); got != c.want {
			t.Fatalf("StatusFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "internal error" {
		t.Fatalf("expected generic message, got %q", body["error"])
	}
}

func TestQueryLimit(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?limit=500", nil)
	if got := QueryLimit(r, 50, 200); got != 50 {
		t.Fatalf("expected default for out-of-range limit, got %d", got)
	}
	r = httptest.NewRequest(http.MethodGet, "/x?limit=7", nil)
	if got := QueryLimit(r, 50, 200); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}
