package degrade

import (
	"context"
	"errors"
	"testing"

	"pawsera/internal/platform/apperr"
)

func sample() []string { return []string{"Buddy"} }

func TestRead_LiveValue(t *testing.T) {
	res, err := Read(context.Background(), Policy{Enabled: true}, func(context.Context) ([]string, error) {
		return []string{"Milo"}, nil
	}, sample)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Source != SourceLive || res.Degraded() || res.Data[0] != "Milo" {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestRead_UpstreamFallsBackToSample(t *testing.T) {
	res, err := Read(context.Background(), Policy{Enabled: true}, func(context.Context) ([]string, error) {
		return nil, apperr.Upstream("postgres", errors.New("connection refused"))
	}, sample)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.Degraded() || res.Data[0] != "Buddy" || res.Reason == "" {
		t.Fatalf("expected marked sample result, got %#v", res)
	}
}

func TestRead_FallbackDisabledPropagates(t *testing.T) {
	_, err := Read(context.Background(), Policy{Enabled: false}, func(context.Context) ([]string, error) {
		return nil, apperr.Upstream("postgres", errors.New("down"))
	}, sample)
	if !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestRead_NonUpstreamErrorNeverDegrades(t *testing.T) {
	_, err := Read(context.Background(), Policy{Enabled: true}, func(context.Context) ([]string, error) {
		return nil, apperr.ErrForbidden
	}, sample)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
