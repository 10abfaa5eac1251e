package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/flexprice/proposals/internal/config"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// DB wraps sqlx.DB to provide transaction management
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// Querier interface defines all database operations
// Both *sqlx.DB and *sqlx.Tx implement these methods
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// IClient is the part of DB that services depend on
type IClient interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NewDB connects to postgres, retrying with exponential backoff until
// postgres.connect_max_elapsed has passed.
func NewDB(cfg *config.Configuration, log *logger.Logger) (*DB, error) {
	dsn := cfg.Postgres.GetDSN()

	b := backoff.NewExponentialBackOff()
	if cfg.Postgres.ConnectMaxElapsed > 0 {
		b.MaxElapsedTime = cfg.Postgres.ConnectMaxElapsed
	}

	var db *sqlx.DB
	connect := func() error {
		var err error
		db, err = sqlx.Connect("postgres", dsn)
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warnw("postgres not reachable, retrying",
			"host", cfg.Postgres.Host,
			"wait", wait,
			"error", err,
		)
	}

	if err := backoff.RetryNotify(connect, b, notify); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not connect to the database").
			Mark(ierr.ErrDatabase)
	}

	if cfg.Postgres.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	}

	return &DB{DB: db, logger: log}, nil
}

// Schema returns the DDL applied by Migrate
func Schema() string {
	return schema
}

// Migrate creates the tables used by the repositories when they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to apply database schema").
			Mark(ierr.ErrDatabase)
	}
	db.logger.Infow("database schema applied")
	return nil
}

// Close closes the database connection
func (db *DB) Close() {
	if err := db.DB.Close(); err != nil {
		db.logger.Errorw("error closing database", "error", err)
	}
}

// GetQuerier returns either the transaction from context or the base DB
func (db *DB) GetQuerier(ctx context.Context) Querier {
	if tx, ok := GetTx(ctx); ok {
		return NewTracedQuerier(tx.Tx, db.logger, tx.ID)
	}
	return NewTracedQuerier(db.DB, db.logger, "")
}
