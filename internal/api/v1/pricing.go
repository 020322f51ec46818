package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storegrid/backoffice/internal/api/dto"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/logger"
	"github.com/storegrid/backoffice/internal/service"
	"github.com/storegrid/backoffice/internal/types"
)

type PricingHandler struct {
	pricing service.PricingService
	matrix  service.MatrixService
	logger  *logger.Logger
}

func NewPricingHandler(pricing service.PricingService, matrix service.MatrixService, logger *logger.Logger) *PricingHandler {
	return &PricingHandler{
		pricing: pricing,
		matrix:  matrix,
		logger:  logger,
	}
}

// @Summary Calculate a price
// @Description Resolve the final price for a product, quantity and customer context
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.CalculatePriceRequest true "Pricing context"
// @Success 200 {object} dto.PriceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 503 {object} ierr.ErrorResponse
// @Router /pricing/calculate [post]
func (h *PricingHandler) CalculatePrice(c *gin.Context) {
	var req dto.CalculatePriceRequest
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
	breakdown, err := h.pricing.CalculatePrice(ctx, types.GetTenantID(ctx), req.ToPricingInput())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.PriceResponse{PriceBreakdown: breakdown})
}

// @Summary Generate a pricing matrix
// @Description Build per-product pricing rows across the quantity ladder
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.GenerateMatrixRequest true "Matrix context"
// @Success 200 {object} dto.MatrixResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/matrix [post]
func (h *PricingHandler) GenerateMatrix(c *gin.Context) {
	var req dto.GenerateMatrixRequest
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
	rows, err := h.matrix.GenerateMatrix(ctx, types.GetTenantID(ctx), req.ProductIDs, req.ToMatrixContext())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.MatrixResponse{Items: rows})
}
