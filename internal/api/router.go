package api

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/storegrid/backoffice/internal/api/v1"
	"github.com/storegrid/backoffice/internal/rest/middleware"
)

type Handlers struct {
	Health      *v1.HealthHandler
	Pricing     *v1.PricingHandler
	Tier        *v1.TierHandler
	Territory   *v1.TerritoryHandler
	Advancement *v1.AdvancementHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	// v1 routes require a tenant
	v1Group := router.Group("/v1", middleware.TenantMiddleware)
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	pricing := router.Group("/pricing")
	{
		pricing.POST("/calculate", handlers.Pricing.CalculatePrice)
		pricing.POST("/matrix", handlers.Pricing.GenerateMatrix)
	}

	tiers := router.Group("/tiers")
	{
		tiers.POST("", handlers.Tier.CreateTier)
		tiers.GET("", handlers.Tier.ListTiers)
		tiers.GET("/:id", handlers.Tier.GetTier)
		tiers.PUT("/:id", handlers.Tier.UpdateTier)
		tiers.DELETE("/:id", handlers.Tier.DeleteTier)
	}

	territories := router.Group("/territories")
	{
		territories.PUT("", handlers.Territory.UpsertAdjustment)
		territories.GET("", handlers.Territory.ListAdjustments)
		territories.DELETE("/:territory", handlers.Territory.DeleteAdjustment)
	}

	advancements := router.Group("/advancements")
	{
		advancements.POST("/evaluate", handlers.Advancement.EvaluateAdvancement)
		advancements.POST("/execute", handlers.Advancement.ExecuteAdvancements)
	}
}
