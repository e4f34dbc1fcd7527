// Package database is the entity store: hand-written pgx queries behind the
// Querier interface, plus transaction plumbing.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodgram-app/backend/internal/sql"
)

const uniqueViolationCode = "23505"

type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DB is what the service packages depend on: every query plus the ability to
// run a set of queries in one atomic transaction.
type DB interface {
	Querier
	WithTx(ctx context.Context, fn func(Querier) error) error
}

type Database struct {
	*Queries

	Pool Pool
}

var _ DB = (*Database)(nil)

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{
		Queries: New(pool),
		Pool:    pool,
	}
}

// WithTx runs fn against a transaction-bound Querier. Any error from fn (or
// from commit) rolls the whole transaction back, so multi-row mutations are
// never partially applied.
func (d *Database) WithTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(New(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// EnsureSchema applies the schema to the database if it is not detected.
func (d *Database) EnsureSchema(ctx context.Context) error {
	exists, err := d.CheckUsersTableExists(ctx)
	if err != nil {
		return fmt.Errorf("ensuring schema exists: %w", err)
	}

	if exists {
		return nil
	}

	if _, err := d.Queries.db.Exec(ctx, sql.Schema()); err != nil {
		return fmt.Errorf("applying database schema: %w", err)
	}

	return nil
}

// UniqueViolation reports whether err is a Postgres unique-constraint
// violation on the named constraint. The store's constraints are the final
// arbiter for concurrent duplicate adds; callers translate this into a
// conflict signal.
func UniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolationCode &&
		pgErr.ConstraintName == constraint
}
