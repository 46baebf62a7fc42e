// Package auth implements the bearer-token contract shared by all services:
// HS256-signed tokens carrying the username in the subject claim. Every
// protected request is verified independently; there is no session state.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MDSAM05/orderflow/internal/apperr"
)

// Principal is the authenticated identity for a single request.
type Principal struct {
	Subject string
}

type Verifier struct {
	secret []byte
}

// NewVerifier fails when the signing secret is unset so a misconfigured
// service dies at startup instead of rejecting every request at runtime.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not set")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// Verify checks signature and expiry and extracts the subject. Every
// failure mode (malformed, bad signature, expired, missing subject) is
// reported as apperr.ErrUnauthenticated.
func (v *Verifier) Verify(token string) (Principal, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return Principal{}, fmt.Errorf("%w: token has no subject", apperr.ErrUnauthenticated)
	}

	return Principal{Subject: subject}, nil
}
