package handlers

import (
	"encoding/json"
	"net/http"

	"secure-notes/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrors(w http.ResponseWriter, status int, msgs ...string) {
	writeJSON(w, status, map[string][]string{"errors": msgs})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeFailure maps a store failure to a response. StorageFault messages
// are already generic; the detail was logged by the store.
func writeFailure(w http.ResponseWriter, f store.Failure) {
	writeErrors(w, statusFor(f.Kind), f.Message)
}

func statusFor(kind store.Kind) int {
	switch kind {
	case store.KindNotFound:
		return http.StatusNotFound
	case store.KindAlreadyExists:
		return http.StatusConflict
	case store.KindEmptyInput, store.KindInvalidInput:
		return http.StatusBadRequest
	case store.KindInvalidCredentials:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
