package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sql/schema.sql
var schemaSQL string

//go:embed sql/seed.sql
var seedSQL string

// DB is the record store contract the repositories run on. Every Exec
// commits on its own; *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DB = (*pgxpool.Pool)(nil)

// Connect opens the pool and pings it, so a bad DSN fails at startup rather than on the first prompt.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Seed loads the sample dataset. Rows that already exist are left alone.
func Seed(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, seedSQL); err != nil {
		return fmt.Errorf("load seed data: %w", err)
	}
	return nil
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapError translates driver errors into the domain taxonomy. what names
// the entity for the message.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s violates %s: %w", what, pgErr.ConstraintName, domain.ErrDuplicateKey)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s references a missing row (%s): %w", what, pgErr.ConstraintName, domain.ErrNotFound)
		case pgCheckViolation:
			return fmt.Errorf("%s violates %s: %w", what, pgErr.ConstraintName, domain.ErrInvalidInput)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}
