// Package apperr concentra los errores de dominio compartidos por todos los módulos.
// Los servicios devuelven estos sentinels (o los envuelven con %w) y la capa HTTP
// los traduce a status codes con errors.Is.
package apperr

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrForbidden           = errors.New("forbidden")
	ErrUnknownRole         = errors.New("unknown role")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// Upstream envuelve un error de un backend externo como ErrUpstreamUnavailable,
// conservando el mensaje original para logs.
func Upstream(service string, err error) error {
	if err == nil {
		return nil
	}
	return &upstreamError{service: service, err: err}
}

type upstreamError struct {
	service string
	err     error
}

func (e *upstreamError) Error() string {
	return e.service + ": " + ErrUpstreamUnavailable.Error() + ": " + e.err.Error()
}

func (e *upstreamError) Is(target error) bool { return target == ErrUpstreamUnavailable }

func (e *upstreamError) Unwrap() error { return e.err }
