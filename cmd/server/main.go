package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/storegrid/backoffice/internal/api"
	v1 "github.com/storegrid/backoffice/internal/api/v1"
	"github.com/storegrid/backoffice/internal/cache"
	"github.com/storegrid/backoffice/internal/config"
	"github.com/storegrid/backoffice/internal/logger"
	"github.com/storegrid/backoffice/internal/postgres"
	"github.com/storegrid/backoffice/internal/registryclient"
	"github.com/storegrid/backoffice/internal/repository"
	"github.com/storegrid/backoffice/internal/service"
	"github.com/storegrid/backoffice/internal/taxclient"
	"github.com/storegrid/backoffice/internal/validator"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewClient,

			// External collaborators
			taxclient.NewClient,
			registryclient.NewClient,
			registryclient.NewRegistry,
			registryclient.NewSignals,

			// Repositories
			repository.NewTierRepository,
			repository.NewTerritoryRepository,
			repository.NewGroupRepository,
			repository.NewProductRepository,
			repository.NewChannelRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewPricingService,
			service.NewMatrixService,
			service.NewTierConfigService,
			service.NewTerritoryConfigService,
			service.NewAdvancementService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	pricingService service.PricingService,
	matrixService service.MatrixService,
	tierConfigService service.TierConfigService,
	territoryConfigService service.TerritoryConfigService,
	advancementService service.AdvancementService,
) api.Handlers {
	return api.Handlers{
		Health:      v1.NewHealthHandler(logger),
		Pricing:     v1.NewPricingHandler(pricingService, matrixService, logger),
		Tier:        v1.NewTierHandler(tierConfigService, logger),
		Territory:   v1.NewTerritoryHandler(territoryConfigService, logger),
		Advancement: v1.NewAdvancementHandler(advancementService, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.Client,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return db.Close()
		},
	})
}
