package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/utils"
)

// Recovery is a middleware that recovers from panics and returns a 500
// Internal Server Error instead of dropping the connection.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := debug.Stack()

					log.Error().
						Str("request_id", GetRequestID(r)).
						Interface("panic", rec).
						Str("stack", string(stack)).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("Panic recovered in request handler")

					utils.Error(
						w,
						http.StatusInternalServerError,
						"internal_error",
						"An unexpected error occurred while processing your request",
						nil,
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
