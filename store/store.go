// Package store is the data-access layer for users and notes. Every
// operation returns a result.Result; expected failures and driver faults
// never escape as errors or panics.
//
// Note operations always take the acting user's id and fold it into the
// WHERE clause, so a note id on its own never authorizes anything.
package store

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"secure-notes/db"
)

// DBTX is the subset of database/sql used by the store. *sql.DB, *sql.Conn
// and *sql.Tx all satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	conn    DBTX
	dialect db.Dialect
	cost    int
}

type Option func(*Store)

// WithHashCost sets the bcrypt cost used for every password this store hashes.
func WithHashCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// New wraps an already-open handle. The caller owns conn and releases it.
func New(conn DBTX, d db.Dialect, opts ...Option) *Store {
	s := &Store{conn: conn, dialect: d, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fault logs the driver error with full detail and returns the opaque
// failure shown to end users.
func (s *Store) fault(ctx context.Context, op string, err error) Failure {
	zerolog.Ctx(ctx).Error().
		Err(err).
		Str("op", op).
		Str("dialect", s.dialect.Name).
		Msg("database error")
	return Failure{Kind: KindStorageFault, Message: MsgStorageFault}
}

func (s *Store) insert(ctx context.Context, query string, args ...any) (int64, error) {
	if s.dialect.Returning() {
		var id int64
		err := s.conn.QueryRowContext(ctx, s.dialect.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	res, err := s.conn.ExecContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.conn.ExecContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
