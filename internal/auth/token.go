// Package auth holds the access token the client presents to the API.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken is returned by Claims for tokens that are not JWTs.
var ErrOpaqueToken = errors.New("token is not a JWT")

// Claims are the parts of the access token the client cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no expiry
}

// TokenSource serves a static access token taken from configuration.
//
// The signature is never verified: the key belongs to the server. Claims are
// only used to skip requests that would be rejected anyway and to tag logs
// with the user id.
type TokenSource struct {
	raw    string
	claims *Claims
	err    error
}

// NewTokenSource wraps raw, which may be empty (anonymous access) or an
// opaque non-JWT token.
func NewTokenSource(raw string) *TokenSource {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	ts := &TokenSource{raw: raw}
	if raw == "" {
		ts.err = ErrOpaqueToken
		return ts
	}
	ts.claims, ts.err = parseClaims(raw)
	return ts
}

// Token returns the raw token.
func (s *TokenSource) Token() string {
	return s.raw
}

// Claims returns the decoded, unverified claims.
func (s *TokenSource) Claims() (Claims, error) {
	if s.err != nil {
		return Claims{}, s.err
	}
	return *s.claims, nil
}

// Expired reports whether the token's expiry is at or before now. Tokens
// without a readable expiry never expire on the client side.
func (s *TokenSource) Expired(now time.Time) bool {
	if s.err != nil || s.claims.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.claims.ExpiresAt)
}

func parseClaims(raw string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &rc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	c := &Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}
