package testutil

import (
	"context"

	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

// MockPostgresClient runs transactional callbacks without a database
type MockPostgresClient struct {
	logger *logger.Logger
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) postgres.IClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx executes the given function without a real transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
