package repository

import (
	"github.com/flexprice/proposals/internal/config"
	"github.com/flexprice/proposals/internal/domain/product"
	"github.com/flexprice/proposals/internal/domain/proposal"
	"github.com/flexprice/proposals/internal/httpclient"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/postgres"
	postgresRepo "github.com/flexprice/proposals/internal/repository/postgres"
	"github.com/flexprice/proposals/internal/types"
	"github.com/flexprice/proposals/internal/woocommerce"
)

func NewProposalRepository(db *postgres.DB, logger *logger.Logger) proposal.Repository {
	return postgresRepo.NewProposalRepository(db, logger)
}

// NewProductRepository picks the catalog configured in catalog.provider
func NewProductRepository(cfg *config.Configuration, db *postgres.DB, logger *logger.Logger) product.Repository {
	if cfg.Catalog.Provider == types.CatalogProviderWooCommerce {
		wc := cfg.Catalog.WooCommerce
		client := httpclient.NewDefaultClient(httpclient.ClientConfig{
			Timeout:           wc.Timeout,
			RetryMax:          wc.RetryMax,
			RequestsPerSecond: wc.RequestsPerSecond,
		}, logger)
		return woocommerce.NewCatalog(wc, client, logger)
	}
	return postgresRepo.NewProductRepository(db, logger)
}
