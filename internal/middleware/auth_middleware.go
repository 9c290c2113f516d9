package middleware

import (
	"net/http"
	"strings"

	"github.com/hanachat/contentguard/internal/auth"
	"github.com/hanachat/contentguard/internal/utils"
)

// JWTAuth requires a valid service token on the request. Validated
// claims are attached to the request context for RequireRole and the
// handlers.
func JWTAuth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				utils.Error(w, http.StatusUnauthorized, "unauthorized", "Authorization header required", nil)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "unauthorized", "Authorization header must use the Bearer scheme", nil)
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				utils.ErrorFromAppError(w, utils.ParseError(err))
				return
			}

			next.ServeHTTP(w, withClaims(r, claims))
		})
	}
}

// RequireRole requires that the authenticated service token carries the
// given role. It must run after JWTAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r)
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}

			if !claims.HasRole(role) {
				utils.Error(w, http.StatusForbidden, "forbidden", "Insufficient permissions for this operation", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
