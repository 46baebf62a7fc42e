// Package apperr defines the error taxonomy shared by all services.
// Errors are classified by wrapping one of the sentinels below with
// fmt.Errorf("%w: detail", ...); Status maps a classified error to the
// HTTP status every service renders for it.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalid             = errors.New("invalid request")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Status returns the HTTP status for a classified error.
// Unclassified errors are internal.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
