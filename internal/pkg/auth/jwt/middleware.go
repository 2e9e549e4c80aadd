package jwt

import (
	"context"
	"net/http"
	"strings"

	"dmchat/internal/pkg/logx"
)

// contextKey is private to this package so no other package can collide with
// the payload entry.
type contextKey string

// ContextAuthPayloadKey stores the parsed Payload (caller identity) in the request context.
const ContextAuthPayloadKey contextKey = "auth_payload"

// IdentityExtractorMiddleware validates the bearer token, if one is present,
// and injects the resulting Payload into the request context. It never
// short-circuits the request: a missing, malformed, or invalid token leaves
// the caller anonymous, and each handler decides whether anonymous access is
// acceptable for its route.
func IdentityExtractorMiddleware(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := ParseToken(tokenString, secretKey)
			if err != nil {
				logx.Warn("Invalid or expired JWT provided, treating caller as anonymous", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextAuthPayloadKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPayloadFromContext returns the authenticated caller's Payload, or nil
// when the request is anonymous.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, ok := r.Context().Value(ContextAuthPayloadKey).(*Payload)
	if !ok {
		return nil
	}
	return payload
}
