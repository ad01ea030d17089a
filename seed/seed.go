// Package seed loads fixture users into a store. Running it more than once
// leaves the store unchanged.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"secure-notes/store"
	"secure-notes/validation"
)

type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type fixtureFile struct {
	SeedUsers []User `json:"seed_users"`
}

// LoadFile reads {"seed_users": [{"username": ..., "password": ...}]}.
func LoadFile(path string) ([]User, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f fixtureFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return f.SeedUsers, nil
}

// NoteFor is the note seeded for a user without any notes.
func NoteFor(username string) string {
	return fmt.Sprintf("This is a note for %s.", username)
}

// Run validates every fixture before touching the store; an invalid fixture
// is a programmer error and nothing is written. Existing users are reused and
// users that already have notes are left alone.
func Run(ctx context.Context, st *store.Store, users []User) error {
	for _, u := range users {
		check := validation.ValidateRegistration(u.Username, u.Password, u.Password)
		if check.IsFailure() {
			return fmt.Errorf("invalid seed user %q: %s", u.Username, strings.Join(check.Failure(), " "))
		}
	}

	logger := zerolog.Ctx(ctx)
	for _, u := range users {
		created := st.CreateUser(ctx, u.Username, u.Password)
		if created.IsFailure() && !created.Failure().IsKind(store.KindAlreadyExists) {
			return fmt.Errorf("seed user %q: %w", u.Username, created.Failure())
		}

		found := st.FindUserByUsername(ctx, u.Username)
		if found.IsFailure() {
			return fmt.Errorf("seed user %q: %w", u.Username, found.Failure())
		}
		user := found.Unwrap()

		notes := st.GetNotesForUser(ctx, user.ID)
		if notes.IsFailure() {
			return fmt.Errorf("seed notes for %q: %w", u.Username, notes.Failure())
		}
		if len(notes.Unwrap()) > 0 {
			continue
		}

		note := st.CreateNoteForUser(ctx, user.ID, NoteFor(u.Username))
		if note.IsFailure() {
			return fmt.Errorf("seed note for %q: %w", u.Username, note.Failure())
		}
		logger.Info().Str("username", u.Username).Int64("user_id", user.ID).Msg("seeded user")
	}
	return nil
}
