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

type AdvancementHandler struct {
	service service.AdvancementService
	logger  *logger.Logger
}

func NewAdvancementHandler(service service.AdvancementService, logger *logger.Logger) *AdvancementHandler {
	return &AdvancementHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Evaluate an advancement
// @Description Evaluate a candidate version against every channel of a cell
// @Tags Advancements
// @Accept json
// @Produce json
// @Param request body dto.EvaluateAdvancementRequest true "Evaluation request"
// @Success 200 {object} dto.EvaluateAdvancementResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /advancements/evaluate [post]
func (h *AdvancementHandler) EvaluateAdvancement(c *gin.Context) {
	var req dto.EvaluateAdvancementRequest
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
	decisions, err := h.service.EvaluateAdvancement(ctx, types.GetTenantID(ctx), req.CellID, req.CandidateVersion)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.EvaluateAdvancementResponse{Items: decisions})
}

// @Summary Execute advancements
// @Description Publish approved advancement decisions to the release registry
// @Tags Advancements
// @Accept json
// @Produce json
// @Param request body dto.ExecuteAdvancementsRequest true "Decisions to execute"
// @Success 200 {object} dto.ExecuteAdvancementsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /advancements/execute [post]
func (h *AdvancementHandler) ExecuteAdvancements(c *gin.Context) {
	var req dto.ExecuteAdvancementsRequest
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
	results, err := h.service.ExecuteAdvancements(ctx, types.GetTenantID(ctx), req.Advancements)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.ExecuteAdvancementsResponse{Items: results})
}
