package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/utils"
	"github.com/hanachat/contentguard/internal/utils/ratelimit"
)

// RateLimit throttles requests per client IP using the given limiter
// store. The category selects which configured rate applies, so scan,
// secure-storage, and privacy endpoints are throttled independently.
func RateLimit(store *ratelimit.Store, category string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientIP(r)

			if !store.GetLimiter(client, category).Allow() {
				log.Warn().
					Str("request_id", GetRequestID(r)).
					Str("client_ip", client).
					Str("category", category).
					Msg("Rate limit exceeded")

				utils.Error(
					w,
					http.StatusTooManyRequests,
					"rate_limited",
					"Too many requests, slow down",
					nil,
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
