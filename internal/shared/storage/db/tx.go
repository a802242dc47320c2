package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is the subset of database operations shared by *sql.DB and *sql.Tx.
// Repositories resolve their querier per call so the same repository works
// inside and outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// QuerierFrom returns the transaction stored in ctx by a TxRunner, or the
// fallback when no transaction is active.
func QuerierFrom(ctx context.Context, fallback *sql.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok && tx != nil {
		return tx
	}
	return fallback
}

// TxRunner executes a function within a single write boundary. The SQL
// implementation wraps it in a database transaction; the passthrough
// implementation runs it directly for stores without transactions.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner runs functions inside a database/sql transaction carried in the
// context, so repositories bound to the same *sql.DB join it transparently.
type SQLRunner struct {
	DB *sql.DB
}

func (r SQLRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		// Already inside a transaction; join it.
		return fn(ctx)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// PassthroughRunner applies each step directly with no atomicity guarantee.
// A failure partway leaves earlier writes committed; callers retry the whole
// operation or reconcile manually.
type PassthroughRunner struct{}

func (PassthroughRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
