package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/dto"
)

// AccountingController reports on and connects the accounting integration.
type AccountingController struct {
	integration adapter.AccountingIntegration
}

// NewAccountingController creates a new accounting controller instance.
func NewAccountingController(integration adapter.AccountingIntegration) *AccountingController {
	return &AccountingController{
		integration: integration,
	}
}

// Status handles GET /accounting/status requests.
func (c *AccountingController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.AccountingStatusResponse{
		Provider:  c.integration.Name(),
		Connected: c.integration.IsConnected(ctx.Request.Context()),
	})
}

// AuthURL handles GET /accounting/auth-url requests.
func (c *AccountingController) AuthURL(ctx *gin.Context) {
	state := uuid.NewString()
	authURL, err := c.integration.AuthURL(state)
	if err != nil {
		handleReconciliationError(ctx, domainerror.NewReconciliationError(
			domainerror.ErrCodeAccountingNotConnected,
			"accounting integration is not configured for OAuth",
			err,
		))
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthURLResponse{
		Provider: c.integration.Name(),
		AuthURL:  authURL,
		State:    state,
	})
}
