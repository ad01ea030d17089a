package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"secure-notes/handlers"
	appmw "secure-notes/middleware"
	"secure-notes/session"
)

type routerOptions struct {
	CORSOrigin  string
	HourlyLimit int
	DailyLimit  int
	TrustProxy  bool
}

func newRouter(logger zerolog.Logger, pool *sql.DB, h *handlers.Handlers, sessions *session.Manager, opts routerOptions) http.Handler {
	r := chi.NewRouter()

	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(chimw.Recoverer)
	r.Use(appmw.CORS(opts.CORSOrigin))
	r.Use(appmw.RateLimit(opts.HourlyLimit, time.Hour))
	r.Use(appmw.RateLimit(opts.DailyLimit, 24*time.Hour))

	r.Post("/api/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(appmw.Store(pool))
		r.Post("/api/register", h.Register)
		r.Post("/api/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(appmw.RequireAuth(sessions))
		r.Post("/api/refresh-token", h.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(appmw.Store(pool))
			r.Get("/api/account", h.Account)
			r.Put("/api/account/password", h.ChangePassword)

			r.Get("/api/notes", h.GetNotes)
			r.Post("/api/notes", h.CreateNote)
			r.Get("/api/notes/{id}", h.GetNote)
			r.Put("/api/notes/{id}", h.UpdateNote)
			r.Delete("/api/notes/{id}", h.DeleteNote)
		})
	})

	return r
}
