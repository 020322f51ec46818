package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/storegrid/backoffice/internal/cache"
	"github.com/storegrid/backoffice/internal/config"
	"github.com/storegrid/backoffice/internal/domain/channel"
	"github.com/storegrid/backoffice/internal/domain/group"
	"github.com/storegrid/backoffice/internal/domain/product"
	"github.com/storegrid/backoffice/internal/domain/territory"
	"github.com/storegrid/backoffice/internal/domain/tier"
	"github.com/storegrid/backoffice/internal/logger"
	"github.com/storegrid/backoffice/internal/types"
	"github.com/storegrid/backoffice/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	TierRepo      tier.Repository
	TerritoryRepo territory.Repository
	GroupRepo     group.Repository
	ProductRepo   product.Repository
	ChannelRepo   channel.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	stores    Stores
	cache     cache.Cache
	logger    *logger.Logger
	config    *config.Configuration
	now       time.Time
	registry  *FakeRegistry
	signals   *FakeSignals
	taxCalc   *FakeTaxCalculator
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := &config.Configuration{
		Logging: config.LoggingConfig{
			Level: types.LogLevelInfo,
		},
	}
	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		TierRepo:      NewInMemoryTierStore(),
		TerritoryRepo: NewInMemoryTerritoryStore(),
		GroupRepo:     NewInMemoryGroupStore(),
		ProductRepo:   NewInMemoryProductStore(),
		ChannelRepo:   NewInMemoryChannelStore(),
	}
	s.cache = cache.NewInMemoryCache()
	s.registry = NewFakeRegistry()
	s.signals = NewFakeSignals()
	s.taxCalc = NewFakeTaxCalculator()
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.TierRepo.(*InMemoryTierStore).Clear()
	s.stores.TerritoryRepo.(*InMemoryTerritoryStore).Clear()
	s.stores.GroupRepo.(*InMemoryGroupStore).Clear()
	s.stores.ProductRepo.(*InMemoryProductStore).Clear()
	s.stores.ChannelRepo.(*InMemoryChannelStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetRegistry returns the fake release registry
func (s *BaseServiceTestSuite) GetRegistry() *FakeRegistry {
	return s.registry
}

// GetSignals returns the fake signal source
func (s *BaseServiceTestSuite) GetSignals() *FakeSignals {
	return s.signals
}

// GetTaxCalculator returns the fake tax calculator
func (s *BaseServiceTestSuite) GetTaxCalculator() *FakeTaxCalculator {
	return s.taxCalc
}

// GetNow returns the suite's reference time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
