package postgres

import (
	"context"
	"database/sql"
	"fmt"

	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/types"
	"github.com/jmoiron/sqlx"
)

// TxKey is the context key type for storing transaction
type TxKey struct{}

// Tx wraps sqlx.Tx to support nested transactions using savepoints
type Tx struct {
	*sqlx.Tx
	savepointID int
	ID          string // Unique ID for tracing
}

// GetTx retrieves a transaction from the context if it exists
func GetTx(ctx context.Context) (*Tx, bool) {
	tx, ok := ctx.Value(TxKey{}).(*Tx)
	return tx, ok
}

// BeginTx starts a new transaction, or a savepoint when one is already open
func (db *DB) BeginTx(ctx context.Context) (context.Context, *Tx, error) {
	if tx, ok := GetTx(ctx); ok {
		tx.savepointID++
		savepoint := fmt.Sprintf("sp_%d", tx.savepointID)

		db.logger.Debugw("creating savepoint",
			"tx_id", tx.ID,
			"savepoint", savepoint,
		)

		if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
			return ctx, nil, ierr.WithError(err).
				WithHint("Failed to create savepoint").
				Mark(ierr.ErrDatabase)
		}
		return ctx, tx, nil
	}

	sqlxTx, err := db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return ctx, nil, ierr.WithError(err).
			WithHint("Failed to begin transaction").
			Mark(ierr.ErrDatabase)
	}

	tx := &Tx{
		Tx: sqlxTx,
		ID: types.GenerateUUID(),
	}

	db.logger.Debugw("starting new transaction", "tx_id", tx.ID)

	return context.WithValue(ctx, TxKey{}, tx), tx, nil
}

// CommitTx commits the current transaction level
func (db *DB) CommitTx(ctx context.Context) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return ierr.NewError("no transaction in context").Mark(ierr.ErrSystem)
	}

	if tx.savepointID > 0 {
		savepoint := fmt.Sprintf("sp_%d", tx.savepointID)
		if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to release savepoint").
				Mark(ierr.ErrDatabase)
		}
		tx.savepointID--
		return nil
	}

	db.logger.Debugw("committing transaction", "tx_id", tx.ID)

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit transaction").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// RollbackTx rolls back the current transaction level
func (db *DB) RollbackTx(ctx context.Context) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return ierr.NewError("no transaction in context").Mark(ierr.ErrSystem)
	}

	if tx.savepointID > 0 {
		savepoint := fmt.Sprintf("sp_%d", tx.savepointID)
		if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to roll back to savepoint").
				Mark(ierr.ErrDatabase)
		}
		tx.savepointID--
		return nil
	}

	db.logger.Debugw("rolling back transaction", "tx_id", tx.ID)

	if err := tx.Rollback(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to roll back transaction").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// WithTx executes a function within a transaction
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			db.logger.Errorw("panic in transaction",
				"tx_id", tx.ID,
				"panic", r,
			)
			_ = db.RollbackTx(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx); err != nil {
		db.logger.Errorw("transaction failed",
			"tx_id", tx.ID,
			"error", err,
		)
		if rbErr := db.RollbackTx(ctx); rbErr != nil {
			return ierr.WithError(err).
				WithMessagef("rollback failed: %v", rbErr).
				Mark(ierr.ErrDatabase)
		}
		return err
	}

	return db.CommitTx(ctx)
}
