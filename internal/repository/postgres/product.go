package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/flexprice/proposals/internal/domain/product"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/postgres"
	"github.com/flexprice/proposals/internal/types"
)

type productRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewProductRepository(db *postgres.DB, logger *logger.Logger) product.Repository {
	return &productRepository{db: db, logger: logger}
}

const productColumns = `
	id, name, sku, regular_price, sale_price, is_subscription, billing_interval, billing_period,
	status, created_at, updated_at, created_by, updated_by`

func (r *productRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND status = $2`

	var p product.Product
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id, types.StatusPublished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Product %s not found", id).
				WithReportableDetails(map[string]any{
					"product_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get product").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

// Search matches the query against name and sku, case insensitive
func (r *productRepository) Search(ctx context.Context, q string, limit int) ([]*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	WHERE status = $1 AND (name ILIKE $2 OR sku ILIKE $2)
	ORDER BY name ASC
	LIMIT $3`

	products := make([]*product.Product, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &products, query, types.StatusPublished, "%"+q+"%", limit); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to search products").
			Mark(ierr.ErrDatabase)
	}
	return products, nil
}
