package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"secure-notes/validation"
)

const (
	MsgNoteDeleted   = "Note successfully deleted."
	MsgInvalidNoteID = "Invalid note id."
)

func getNoteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	noteID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || noteID <= 0 {
		writeErrors(w, http.StatusBadRequest, MsgInvalidNoteID)
		return 0, false
	}
	return noteID, true
}

func (h *Handlers) GetNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}

	notes := st.GetNotesForUser(r.Context(), userID)
	if notes.IsFailure() {
		writeFailure(w, notes.Failure())
		return
	}
	writeJSON(w, http.StatusOK, notes.Unwrap())
}

func (h *Handlers) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	noteID, ok := getNoteID(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}

	note := st.GetNoteByID(r.Context(), noteID, userID)
	if note.IsFailure() {
		writeFailure(w, note.Failure())
		return
	}
	writeJSON(w, http.StatusOK, note.Unwrap())
}

func (h *Handlers) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	check := validation.ValidateNoteContent(req.Content)
	if check.IsFailure() {
		writeErrors(w, http.StatusBadRequest, check.Failure()...)
		return
	}

	st, ok := h.store(w, r)
	if !ok {
		return
	}

	created := st.CreateNoteForUser(r.Context(), userID, req.Content)
	if created.IsFailure() {
		writeFailure(w, created.Failure())
		return
	}
	writeJSON(w, http.StatusCreated, created.Unwrap())
}

func (h *Handlers) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	noteID, ok := getNoteID(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	check := validation.ValidateNoteContent(req.Content)
	if check.IsFailure() {
		writeErrors(w, http.StatusBadRequest, check.Failure()...)
		return
	}

	st, ok := h.store(w, r)
	if !ok {
		return
	}

	edited := st.EditNote(r.Context(), noteID, userID, req.Content)
	if edited.IsFailure() {
		writeFailure(w, edited.Failure())
		return
	}
	writeJSON(w, http.StatusOK, edited.Unwrap())
}

func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	noteID, ok := getNoteID(w, r)
	if !ok {
		return
	}
	st, ok := h.store(w, r)
	if !ok {
		return
	}

	deleted := st.DeleteNote(r.Context(), noteID, userID)
	if deleted.IsFailure() {
		writeFailure(w, deleted.Failure())
		return
	}
	writeMessage(w, http.StatusOK, MsgNoteDeleted)
}
