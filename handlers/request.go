package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
)

// Request bodies arrive form-encoded (browser forms) or as JSON (API
// clients); both decode into the same typed structs.

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password_2"`
}

func (req *registerRequest) bind(form url.Values) {
	req.Username = form.Get("username")
	req.Password = form.Get("password")
	req.Password2 = form.Get("password_2")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *loginRequest) bind(form url.Values) {
	req.Username = form.Get("username")
	req.Password = form.Get("password")
}

type passwordRequest struct {
	OldPassword  string `json:"old_password"`
	NewPassword  string `json:"new_password"`
	NewPassword2 string `json:"new_password_2"`
}

func (req *passwordRequest) bind(form url.Values) {
	req.OldPassword = form.Get("old_password")
	req.NewPassword = form.Get("new_password")
	req.NewPassword2 = form.Get("new_password_2")
}

type noteRequest struct {
	Content string `json:"note_content"`
}

func (req *noteRequest) bind(form url.Values) {
	req.Content = form.Get("note_content")
}

type formBinder interface {
	bind(url.Values)
}

const maxBodyBytes = 1 << 20

func decodeRequest(w http.ResponseWriter, r *http.Request, dst formBinder) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			writeErrors(w, http.StatusBadRequest, "Invalid request")
			return false
		}
		return true
	}

	if err := r.ParseForm(); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request")
		return false
	}
	dst.bind(r.PostForm)
	return true
}
