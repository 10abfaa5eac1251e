package testutil

import (
	"context"
	"time"

	"github.com/flexprice/proposals/internal/cache"
	"github.com/flexprice/proposals/internal/config"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/postgres"
	"github.com/flexprice/proposals/internal/types"
	"github.com/flexprice/proposals/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds the in-memory repositories used by service tests
type Stores struct {
	ProposalRepo *InMemoryProposalStore
	ProductRepo  *InMemoryProductStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	cache  *cache.InMemoryCache
	db     postgres.IClient
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo
	s.logger = logger.NewNoopLogger()
	s.db = NewMockPostgresClient(s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.stores = Stores{
		ProposalRepo: NewInMemoryProposalStore(),
		ProductRepo:  NewInMemoryProductStore(),
	}
	s.cache = cache.NewInMemoryCache(cache.Options{
		Enabled:           true,
		DefaultExpiration: s.config.Cache.ProductTTL,
	})
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.ProposalRepo.Clear()
	s.stores.ProductRepo.Clear()
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
