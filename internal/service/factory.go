package service

import (
	"github.com/flexprice/proposals/internal/cache"
	"github.com/flexprice/proposals/internal/config"
	"github.com/flexprice/proposals/internal/domain/product"
	"github.com/flexprice/proposals/internal/domain/proposal"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	ProposalRepo proposal.Repository
	ProductRepo  product.Repository

	// Sessions holds the proposals currently being edited
	Sessions *SessionRegistry
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	proposalRepo proposal.Repository,
	productRepo product.Repository,
	sessions *SessionRegistry,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		DB:           db,
		Cache:        cache,
		ProposalRepo: proposalRepo,
		ProductRepo:  productRepo,
		Sessions:     sessions,
	}
}
