package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"

	"secure-notes/models"
	"secure-notes/result"
	"secure-notes/store"
	"secure-notes/validation"
)

const (
	MsgRegistered     = "Account successfully registered!"
	MsgBadCredentials = "Error, incorrect username or password."
	MsgLoggedOut      = "You have successfully logged out."
	MsgPasswordSaved  = "Password successfully updated."
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	check := validation.ValidateRegistration(req.Username, req.Password, req.Password2)
	if check.IsFailure() {
		writeErrors(w, http.StatusBadRequest, check.Failure()...)
		return
	}

	st, ok := h.store(w, r)
	if !ok {
		return
	}

	created := st.CreateUser(r.Context(), req.Username, req.Password)
	if created.IsFailure() {
		writeFailure(w, created.Failure())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": MsgRegistered,
		"user":    created.Unwrap(),
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	st, ok := h.store(w, r)
	if !ok {
		return
	}

	auth := h.authenticate(r.Context(), st, req.Username, req.Password)
	if auth.IsFailure() {
		if auth.Failure().IsKind(store.KindStorageFault) {
			writeFailure(w, auth.Failure())
			return
		}
		hlog.FromRequest(r).Info().Str("username", req.Username).Msg("failed login")
		writeErrors(w, http.StatusUnauthorized, MsgBadCredentials)
		return
	}

	h.startSession(w, r, auth.Unwrap().ID)
}

// authenticate performs exactly one bcrypt comparison whether or not the
// username exists, comparing against the dummy hash when it does not.
func (h *Handlers) authenticate(ctx context.Context, st *store.Store, username, password string) store.UserResult {
	found := st.FindUserByUsername(ctx, username)

	hash := h.dummyHash
	if found.IsSuccess() {
		hash = []byte(found.Unwrap().PasswordHash)
	}
	mismatch := bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil

	if found.IsFailure() {
		return found
	}
	if mismatch {
		return result.Failure[models.User](store.Failure{Kind: store.KindInvalidCredentials, Message: MsgBadCredentials})
	}
	return found
}

func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request, userID int64) {
	token, expiresAt, err := h.sessions.Issue(userID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("issue session token")
		writeErrors(w, http.StatusInternalServerError, "Could not start a session.")
		return
	}

	h.sessions.SetCookie(w, token, expiresAt)
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"user_id":    userID,
		"expires_at": expiresAt,
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	writeMessage(w, http.StatusOK, MsgLoggedOut)
}

// RefreshToken re-issues the session for the already authenticated user.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	h.startSession(w, r, userID)
}

func (h *Handlers) Account(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}

	found := st.FindUserByID(r.Context(), userID)
	if found.IsFailure() {
		writeFailure(w, found.Failure())
		return
	}
	writeJSON(w, http.StatusOK, found.Unwrap())
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	var req passwordRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	check := validation.ValidatePassword(req.NewPassword, req.NewPassword2)
	if check.IsFailure() {
		writeErrors(w, http.StatusBadRequest, check.Failure()...)
		return
	}

	st, ok := h.store(w, r)
	if !ok {
		return
	}

	updated := st.UpdatePassword(r.Context(), userID, req.OldPassword, req.NewPassword)
	if updated.IsFailure() {
		writeFailure(w, updated.Failure())
		return
	}
	writeMessage(w, http.StatusOK, MsgPasswordSaved)
}
