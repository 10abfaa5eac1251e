package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flexprice/proposals/internal/logger"
)

// QueryTracer wraps database operations with tracing and logging
type QueryTracer struct {
	logger *logger.Logger
	query  string
	params interface{}
	start  time.Time
	txID   string
}

// NewQueryTracer creates a new query tracer
func NewQueryTracer(logger *logger.Logger, query string, params interface{}, txID string) *QueryTracer {
	return &QueryTracer{
		logger: logger,
		query:  query,
		params: params,
		start:  time.Now(),
		txID:   txID,
	}
}

// Done logs the query completion
func (qt *QueryTracer) Done(err error) {
	fields := []interface{}{
		"duration_ms", time.Since(qt.start).Milliseconds(),
		"query", qt.query,
		"params", fmt.Sprintf("%+v", qt.params),
	}
	if qt.txID != "" {
		fields = append(fields, "tx_id", qt.txID)
	}
	// no rows is an expected outcome of lookups
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		fields = append(fields, "error", err.Error())
		qt.logger.Errorw("database query failed", fields...)
		return
	}
	qt.logger.Debugw("database query completed", fields...)
}

// TracedQuerier wraps a Querier with tracing
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

// NewTracedQuerier creates a new traced querier
func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		txID:    txID,
	}
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	tracer := NewQueryTracer(tq.logger, query, args, tq.txID)
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	tracer.Done(err)
	return result, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	tracer := NewQueryTracer(tq.logger, query, args, tq.txID)
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	tracer.Done(err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	tracer := NewQueryTracer(tq.logger, query, args, tq.txID)
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	tracer.Done(err)
	return err
}

func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	tracer := NewQueryTracer(tq.logger, query, arg, tq.txID)
	result, err := tq.Querier.NamedExecContext(ctx, query, arg)
	tracer.Done(err)
	return result, err
}
