// Package degrade modela lecturas que pueden caer a datos de muestra cuando un
// backend externo no responde. El resultado siempre dice de dónde vino el dato.
package degrade

import (
	"context"
	"errors"

	"pawsera/internal/platform/apperr"
)

type Source string

const (
	SourceLive   Source = "live"
	SourceSample Source = "sample"
)

type Result[T any] struct {
	Data   T      `json:"data"`
	Source Source `json:"source"`
	Reason string `json:"reason,omitempty"`
}

func (r Result[T]) Degraded() bool { return r.Source == SourceSample }

// Policy decide si se permite usar la muestra. Enabled=false => el error sube tal cual.
type Policy struct {
	Enabled bool
}

// Read ejecuta fetch. Si falla con ErrUpstreamUnavailable y la política lo
// permite, devuelve sample() marcado como SourceSample. Cualquier otro error
// (Forbidden, NotFound, ...) se propaga sin tocar.
func Read[T any](ctx context.Context, p Policy, fetch func(context.Context) (T, error), sample func() T) (Result[T], error) {
	v, err := fetch(ctx)
	if err == nil {
		return Result[T]{Data: v, Source: SourceLive}, nil
	}
	if !p.Enabled || sample == nil || !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		return Result[T]{}, err
	}
	return Result[T]{Data: sample(), Source: SourceSample, Reason: err.Error()}, nil
}
