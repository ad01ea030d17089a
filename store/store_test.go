package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"secure-notes/db"
)

// newTestStore opens a migrated SQLite database in a temp dir.
func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	dsn := "file:" + filepath.Join(t.TempDir(), "notes.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	pool, d, err := db.Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, db.Migrate(ctx, pool, d, zerolog.Nop()))
	return New(pool, d, WithHashCost(bcrypt.MinCost)), pool
}

func mustCreateUser(t *testing.T, s *Store, username string) int64 {
	t.Helper()
	res := s.CreateUser(context.Background(), username, "longpass1")
	require.True(t, res.IsSuccess(), "create %s: %v", username, res)
	return res.Unwrap().ID
}

func countRows(t *testing.T, pool *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(query, args...).Scan(&n))
	return n
}
