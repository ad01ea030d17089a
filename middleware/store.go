package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

const connKey ctxKey = "storeConn"

func WithConn(ctx context.Context, conn *sql.Conn) context.Context {
	return context.WithValue(ctx, connKey, conn)
}

// Conn returns the store connection acquired for this request.
func Conn(ctx context.Context) (*sql.Conn, bool) {
	conn, ok := ctx.Value(connKey).(*sql.Conn)
	return conn, ok && conn != nil
}

// Store acquires one connection from pool for the lifetime of the request
// and releases it when the handler returns, whatever the outcome.
func Store(pool *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := pool.Conn(r.Context())
			if err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("acquire store connection")
				writeError(w, http.StatusInternalServerError, "A database error occurred.")
				return
			}
			defer conn.Close()

			next.ServeHTTP(w, r.WithContext(WithConn(r.Context(), conn)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string][]string{"errors": {msg}})
}
