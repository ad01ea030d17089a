package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/rs/zerolog/hlog"
)

const MsgRateLimited = "Too many requests, please try again later."

// RateLimit allows at most limit requests per client address within window.
// A non-positive limit disables the check.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			hlog.FromRequest(r).Warn().
				Str("remote_addr", r.RemoteAddr).
				Str("limit", fmt.Sprintf("%d per %s", limit, window)).
				Msg("rate limited")
			writeError(w, http.StatusTooManyRequests, MsgRateLimited)
		}),
	)
}
