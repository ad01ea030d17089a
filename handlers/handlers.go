package handlers

import (
	"crypto/rand"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"

	"secure-notes/db"
	"secure-notes/middleware"
	"secure-notes/session"
	"secure-notes/store"
)

// Handlers is the HTTP glue between requests and the store. Everything it
// needs is passed in at construction.
type Handlers struct {
	dialect   db.Dialect
	sessions  *session.Manager
	hashCost  int
	dummyHash []byte
}

// New prepares the handlers. The dummy hash is computed once with the same
// cost as real hashes so that logins for unknown usernames cost the same
// bcrypt comparison as logins for known ones.
func New(d db.Dialect, sessions *session.Manager, hashCost int) (*Handlers, error) {
	random := make([]byte, 24)
	if _, err := rand.Read(random); err != nil {
		return nil, fmt.Errorf("dummy password: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword(random, hashCost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	return &Handlers{
		dialect:   d,
		sessions:  sessions,
		hashCost:  hashCost,
		dummyHash: dummy,
	}, nil
}

// store builds a Store over the connection acquired by middleware.Store.
func (h *Handlers) store(w http.ResponseWriter, r *http.Request) (*store.Store, bool) {
	conn, ok := middleware.Conn(r.Context())
	if !ok {
		hlog.FromRequest(r).Error().Msg("no store connection in request context")
		writeErrors(w, http.StatusInternalServerError, store.MsgStorageFault)
		return nil, false
	}
	return store.New(conn, h.dialect, store.WithHashCost(h.hashCost)), true
}

func getUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeErrors(w, http.StatusUnauthorized, "You must be logged in.")
		return 0, false
	}
	return userID, true
}
