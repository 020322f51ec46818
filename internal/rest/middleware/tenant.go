package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// TenantMiddleware reads the tenant header into the request context. This is
// the only place a tenant crosses from ambient state into the request; every
// layer below the handlers takes the tenant as an explicit argument.
func TenantMiddleware(c *gin.Context) {
	tenantID := c.GetHeader(types.HeaderTenantID)
	if tenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ierr.ErrorResponse{
			Error: ierr.ErrorDetail{
				Code:    ierr.ErrCodeInvalidInput,
				Display: "Tenant header is required",
			},
		})
		return
	}

	ctx := types.SetTenantID(c.Request.Context(), tenantID)
	c.Request = c.Request.WithContext(ctx)

	c.Next()
}
