package cache

import (
	"github.com/flexprice/proposals/internal/config"
	"github.com/flexprice/proposals/internal/logger"
)

// Initialize builds the product lookup cache from configuration
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("initializing cache",
		"enabled", cfg.Cache.Enabled,
		"product_ttl", cfg.Cache.ProductTTL,
	)

	return NewInMemoryCache(Options{
		Enabled:           cfg.Cache.Enabled,
		DefaultExpiration: cfg.Cache.ProductTTL,
	})
}
