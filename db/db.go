package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"sync"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"secure-notes/logging"
)

//go:embed migrations
var migrations embed.FS

// goose keeps its dialect, filesystem and logger in package state.
var migrateMu sync.Mutex

// Open connects to the store named by driver and pings it once.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, Dialect, error) {
	d, err := DialectFor(driver)
	if err != nil {
		return nil, Dialect{}, err
	}

	var pool *sql.DB
	if d.Name == MySQL.Name {
		pool, err = openMySQL(dsn)
	} else {
		pool, err = sql.Open(d.driver, dsn)
	}
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("open %s: %w", d.Name, err)
	}

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, Dialect{}, fmt.Errorf("ping %s: %w", d.Name, err)
	}
	return pool, d, nil
}

// openMySQL forces clientFoundRows so that an UPDATE which leaves a row
// unchanged still reports it as affected.
func openMySQL(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ClientFoundRows = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

// Migrate creates the users and notes tables if they do not exist yet.
func Migrate(ctx context.Context, pool *sql.DB, d Dialect, logger zerolog.Logger) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(logging.NewGooseLogger(logger))
	if err := goose.SetDialect(d.goose); err != nil {
		return fmt.Errorf("goose dialect %s: %w", d.goose, err)
	}

	if err := goose.UpContext(ctx, pool, path.Join("migrations", d.Name)); err != nil {
		return fmt.Errorf("migrate %s: %w", d.Name, err)
	}
	return nil
}
