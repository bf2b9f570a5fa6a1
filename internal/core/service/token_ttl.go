package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime sizes the persisted-token TTL from the token's own exp claim.
// The token is opaque to the console: the signature is not checked, and a
// token that is not a JWT (or has no usable exp) gets fallback.
func tokenLifetime(token string, fallback time.Duration, now time.Time) time.Duration {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return fallback
	}
	if claims.ExpiresAt == nil {
		return fallback
	}
	ttl := claims.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return fallback
	}
	return ttl
}
