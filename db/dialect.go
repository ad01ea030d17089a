package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures what differs between the supported relational stores:
// driver name, placeholder syntax, how an inserted id is returned, and how
// a unique-constraint violation is reported.
type Dialect struct {
	Name      string
	driver    string
	goose     string
	dollar    bool
	returning bool
	unique    func(error) bool
}

var (
	SQLite = Dialect{
		Name:   "sqlite",
		driver: "sqlite",
		goose:  "sqlite3",
		unique: sqliteUniqueViolation,
	}
	MySQL = Dialect{
		Name:   "mysql",
		driver: "mysql",
		goose:  "mysql",
		unique: mysqlUniqueViolation,
	}
	Postgres = Dialect{
		Name:      "postgres",
		driver:    "pgx",
		goose:     "postgres",
		dollar:    true,
		returning: true,
		unique:    postgresUniqueViolation,
	}
)

// DialectFor resolves a configured driver name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver %q", name)
}

// Rebind rewrites ? placeholders into the dialect's syntax.
func (d Dialect) Rebind(query string) string {
	if !d.dollar {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Returning reports whether inserts should read the new id through
// RETURNING instead of LastInsertId.
func (d Dialect) Returning() bool { return d.returning }

// IsUniqueViolation reports whether err is the store rejecting a duplicate
// value for a UNIQUE column.
func (d Dialect) IsUniqueViolation(err error) bool {
	if err == nil || d.unique == nil {
		return false
	}
	return d.unique(err)
}

func sqliteUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}

func mysqlUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func postgresUniqueViolation(err error) bool {
	var pe *pgconn.PgError
	return errors.As(err, &pe) && pe.Code == "23505"
}
