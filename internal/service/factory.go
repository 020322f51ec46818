package service

import (
	"github.com/storegrid/backoffice/internal/cache"
	"github.com/storegrid/backoffice/internal/config"
	"github.com/storegrid/backoffice/internal/domain/channel"
	"github.com/storegrid/backoffice/internal/domain/group"
	"github.com/storegrid/backoffice/internal/domain/product"
	"github.com/storegrid/backoffice/internal/domain/tax"
	"github.com/storegrid/backoffice/internal/domain/territory"
	"github.com/storegrid/backoffice/internal/domain/tier"
	"github.com/storegrid/backoffice/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Repositories
	TierRepo      tier.Repository
	TerritoryRepo territory.Repository
	GroupRepo     group.Repository
	ProductRepo   product.Repository
	ChannelRepo   channel.Repository

	// External collaborators
	TaxCalculator tax.Calculator
	Registry      channel.Registry
	Signals       channel.Signals
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cacheStore cache.Cache,
	tierRepo tier.Repository,
	territoryRepo territory.Repository,
	groupRepo group.Repository,
	productRepo product.Repository,
	channelRepo channel.Repository,
	taxCalculator tax.Calculator,
	registry channel.Registry,
	signals channel.Signals,
) ServiceParams {
	return ServiceParams{
		Logger:        logger,
		Config:        config,
		Cache:         cacheStore,
		TierRepo:      tierRepo,
		TerritoryRepo: territoryRepo,
		GroupRepo:     groupRepo,
		ProductRepo:   productRepo,
		ChannelRepo:   channelRepo,
		TaxCalculator: taxCalculator,
		Registry:      registry,
		Signals:       signals,
	}
}
