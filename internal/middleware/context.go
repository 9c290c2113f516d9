// Package middleware provides the HTTP middleware chain: request
// identity, logging, panic recovery, CORS, rate limiting, and JWT
// authentication for the privileged endpoints.
package middleware

import (
	"context"
	"net/http"

	"github.com/hanachat/contentguard/internal/auth"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	claimsKey    contextKey = "service_claims"
)

// GetRequestID returns the request ID attached by RequestID, or an
// empty string when the middleware did not run.
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

// GetClaims returns the service claims attached by JWTAuth.
func GetClaims(r *http.Request) (*auth.ServiceClaims, bool) {
	claims, ok := r.Context().Value(claimsKey).(*auth.ServiceClaims)
	return claims, ok
}

// withRequestID attaches a request ID to the request context.
func withRequestID(r *http.Request, id string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), requestIDKey, id))
}

// withClaims attaches validated service claims to the request context.
func withClaims(r *http.Request, claims *auth.ServiceClaims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
}
