package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-commerce-core/commerce"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 30 * time.Minute
)

// DB wraps a bun database handle and implements commerce.Transactor.
type DB struct {
	*bun.DB
}

// OpenSQLite opens a SQLite database. Handy for tests and single-node
// deployments; the repositories emit portable SQL.
func OpenSQLite(dsn string) (*DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &DB{DB: bun.NewDB(sqldb, sqlitedialect.New())}, nil
}

// OpenPostgres opens a PostgreSQL database with sane pool settings.
func OpenPostgres(dsn string) (*DB, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqldb.SetMaxOpenConns(defaultMaxOpenConns)
	sqldb.SetMaxIdleConns(defaultMaxIdleConns)
	sqldb.SetConnMaxLifetime(defaultConnMaxLifetime)

	return &DB{DB: bun.NewDB(sqldb, pgdialect.New())}, nil
}

// RunInTx implements commerce.Transactor. fn runs inside a transaction that
// commits when fn returns nil and rolls back on any error, panics included.
func (d *DB) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error {
	return d.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// CreateSchema creates the entity tables if they do not exist. Intended for
// tests and the example program; real deployments manage migrations
// externally.
func (d *DB) CreateSchema(ctx context.Context) error {
	models := []any{
		(*commerce.Category)(nil),
		(*commerce.Product)(nil),
		(*commerce.Order)(nil),
	}
	for _, model := range models {
		if _, err := d.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}
