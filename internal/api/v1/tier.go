package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/storegrid/backoffice/internal/api/dto"
	"github.com/storegrid/backoffice/internal/domain/tier"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/logger"
	"github.com/storegrid/backoffice/internal/service"
	"github.com/storegrid/backoffice/internal/types"
)

type TierHandler struct {
	service service.TierConfigService
	logger  *logger.Logger
}

func NewTierHandler(service service.TierConfigService, logger *logger.Logger) *TierHandler {
	return &TierHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Create a pricing tier
// @Description Create a quantity-scoped discount tier
// @Tags Tiers
// @Accept json
// @Produce json
// @Param tier body dto.CreateTierRequest true "Tier to create"
// @Success 201 {object} dto.TierResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /tiers [post]
func (h *TierHandler) CreateTier(c *gin.Context) {
	var req dto.CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	ctx := c.Request.Context()
	created, err := h.service.CreateTier(ctx, types.GetTenantID(ctx), req.ToTier(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, &dto.TierResponse{PricingTier: created})
}

// @Summary Get a pricing tier
// @Description Get a pricing tier by ID
// @Tags Tiers
// @Produce json
// @Param id path string true "Tier ID"
// @Success 200 {object} dto.TierResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tiers/{id} [get]
func (h *TierHandler) GetTier(c *gin.Context) {
	ctx := c.Request.Context()
	t, err := h.service.GetTier(ctx, types.GetTenantID(ctx), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.TierResponse{PricingTier: t})
}

// @Summary List pricing tiers
// @Description List active tiers for a scope
// @Tags Tiers
// @Produce json
// @Param product_id query string false "Product ID"
// @Param category_id query string false "Category ID"
// @Param group_id query string false "Group ID"
// @Param territory query string false "Territory"
// @Success 200 {object} dto.ListTiersResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /tiers [get]
func (h *TierHandler) ListTiers(c *gin.Context) {
	selector := tier.Selector{
		ProductID:  c.Query("product_id"),
		CategoryID: c.Query("category_id"),
		GroupID:    c.Query("group_id"),
		Territory:  c.Query("territory"),
	}

	ctx := c.Request.Context()
	tiers, err := h.service.ListTiers(ctx, types.GetTenantID(ctx), selector)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.ListTiersResponse{
		Items: lo.Map(tiers, func(t *tier.PricingTier, _ int) *dto.TierResponse {
			return &dto.TierResponse{PricingTier: t}
		}),
	})
}

// @Summary Update a pricing tier
// @Description Update the provided fields of an existing tier
// @Tags Tiers
// @Accept json
// @Produce json
// @Param id path string true "Tier ID"
// @Param tier body dto.UpdateTierRequest true "Fields to update"
// @Success 200 {object} dto.TierResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /tiers/{id} [put]
func (h *TierHandler) UpdateTier(c *gin.Context) {
	var req dto.UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	tenantID := types.GetTenantID(ctx)

	existing, err := h.service.GetTier(ctx, tenantID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	req.Apply(existing)
	updated, err := h.service.UpdateTier(ctx, tenantID, existing)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.TierResponse{PricingTier: updated})
}

// @Summary Delete a pricing tier
// @Description Mark a tier removed; the row stays for audit history
// @Tags Tiers
// @Produce json
// @Param id path string true "Tier ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tiers/{id} [delete]
func (h *TierHandler) DeleteTier(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.DeleteTier(ctx, types.GetTenantID(ctx), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
