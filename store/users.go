package store

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"secure-notes/models"
	"secure-notes/result"
)

type UserResult = result.Result[models.User, Failure]

func (s *Store) FindUserByID(ctx context.Context, id int64) UserResult {
	return s.findUser(ctx, "find_user_by_id",
		"SELECT id, username, password FROM users WHERE id = ?", id)
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) UserResult {
	return s.findUser(ctx, "find_user_by_username",
		"SELECT id, username, password FROM users WHERE username = ?", username)
}

func (s *Store) findUser(ctx context.Context, op, query string, arg any) UserResult {
	var u models.User
	err := s.conn.QueryRowContext(ctx, s.dialect.Rebind(query), arg).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return result.Failure[models.User](notFound(MsgUserNotFound))
	}
	if err != nil {
		return result.Failure[models.User](s.fault(ctx, op, err))
	}
	return result.Success[models.User, Failure](u)
}

// CreateUser hashes password and inserts the user in a single statement.
// A duplicate username is reported as KindAlreadyExists, which is safe to
// show during registration; the store's UNIQUE constraint decides, so there
// is no separate existence check to race against.
func (s *Store) CreateUser(ctx context.Context, username, password string) UserResult {
	hashed := s.hashPassword(ctx, "create_user", password)
	if hashed.IsFailure() {
		return result.Failure[models.User](hashed.Failure())
	}
	hash := hashed.Unwrap()

	id, err := s.insert(ctx, "INSERT INTO users (username, password) VALUES (?, ?)", username, hash)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return result.Failure[models.User](Failure{Kind: KindAlreadyExists, Message: MsgUsernameTaken})
		}
		return result.Failure[models.User](s.fault(ctx, "create_user", err))
	}

	return result.Success[models.User, Failure](models.User{ID: id, Username: username, PasswordHash: hash})
}

// UpdatePassword replaces the stored hash once oldPassword verifies against it.
func (s *Store) UpdatePassword(ctx context.Context, userID int64, oldPassword, newPassword string) result.Result[struct{}, Failure] {
	if newPassword == "" {
		return result.Failure[struct{}](Failure{Kind: KindEmptyInput, Message: MsgNewPasswordEmpty})
	}

	found := s.FindUserByID(ctx, userID)
	if found.IsFailure() {
		return result.Failure[struct{}](found.Failure())
	}

	if bcrypt.CompareHashAndPassword([]byte(found.Unwrap().PasswordHash), []byte(oldPassword)) != nil {
		return result.Failure[struct{}](Failure{Kind: KindInvalidCredentials, Message: MsgWrongPassword})
	}

	hashed := s.hashPassword(ctx, "update_password", newPassword)
	if hashed.IsFailure() {
		return result.Failure[struct{}](hashed.Failure())
	}

	n, err := s.exec(ctx, "UPDATE users SET password = ? WHERE id = ?", hashed.Unwrap(), userID)
	if err != nil {
		return result.Failure[struct{}](s.fault(ctx, "update_password", err))
	}
	if n == 0 {
		return result.Failure[struct{}](notFound(MsgUserNotFound))
	}
	return result.Success[struct{}, Failure](struct{}{})
}

func (s *Store) hashPassword(ctx context.Context, op, password string) result.Result[string, Failure] {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return result.Failure[string](Failure{Kind: KindInvalidInput, Message: MsgPasswordTooLong})
	}
	if err != nil {
		return result.Failure[string](s.fault(ctx, op, err))
	}
	return result.Success[string, Failure](string(hash))
}
