package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"secure-notes/session"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// WithUserID binds an authenticated user id to ctx.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user id bound by RequireAuth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// RequireAuth rejects requests without a valid session token. The token is
// read from the Authorization header first, then from the session cookie.
func RequireAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := tokenFromRequest(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "You must be logged in.")
				return
			}

			userID, err := sessions.Parse(tokenStr)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("rejected session token")
				writeError(w, http.StatusUnauthorized, "You must be logged in.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader || tokenStr == "" {
			return "", false
		}
		return tokenStr, true
	}

	c, err := r.Cookie(session.CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
