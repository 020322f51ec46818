package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/storegrid/backoffice/internal/api/dto"
	"github.com/storegrid/backoffice/internal/domain/territory"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/logger"
	"github.com/storegrid/backoffice/internal/service"
	"github.com/storegrid/backoffice/internal/types"
)

type TerritoryHandler struct {
	service service.TerritoryConfigService
	logger  *logger.Logger
}

func NewTerritoryHandler(service service.TerritoryConfigService, logger *logger.Logger) *TerritoryHandler {
	return &TerritoryHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Upsert a territory adjustment
// @Description Create or replace the adjustment for a territory
// @Tags Territories
// @Accept json
// @Produce json
// @Param adjustment body dto.UpsertTerritoryRequest true "Adjustment to store"
// @Success 200 {object} dto.TerritoryResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /territories [put]
func (h *TerritoryHandler) UpsertAdjustment(c *gin.Context) {
	var req dto.UpsertTerritoryRequest
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
	stored, err := h.service.UpsertAdjustment(ctx, types.GetTenantID(ctx), req.ToAdjustment(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.TerritoryResponse{Adjustment: stored})
}

// @Summary List territory adjustments
// @Description List every active territory adjustment for the tenant
// @Tags Territories
// @Produce json
// @Success 200 {object} dto.ListTerritoriesResponse
// @Router /territories [get]
func (h *TerritoryHandler) ListAdjustments(c *gin.Context) {
	ctx := c.Request.Context()
	adjustments, err := h.service.ListAdjustments(ctx, types.GetTenantID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.ListTerritoriesResponse{
		Items: lo.Map(adjustments, func(a *territory.Adjustment, _ int) *dto.TerritoryResponse {
			return &dto.TerritoryResponse{Adjustment: a}
		}),
	})
}

// @Summary Delete a territory adjustment
// @Description Mark a territory adjustment removed
// @Tags Territories
// @Produce json
// @Param territory path string true "Territory key"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /territories/{territory} [delete]
func (h *TerritoryHandler) DeleteAdjustment(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.DeleteAdjustment(ctx, types.GetTenantID(ctx), c.Param("territory")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
