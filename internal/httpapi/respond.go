// Package httpapi holds the chi routers and handlers for the three
// services, plus the shared response and error rendering.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MDSAM05/orderflow/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders the error contract: {"type": ..., "detail": ...} with
// the status from the taxonomy. Unclassified errors stay opaque.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)

	detail := err.Error()
	kind := "http_error"
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		kind = "validation_error"
	case status == http.StatusInternalServerError:
		detail = "internal error"
	}

	writeJSON(w, status, map[string]string{"type": kind, "detail": detail})
}
