package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ap-reconciler/backend/internal/application/usecase/reconciliation"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/dto"
)

// ReconciliationController handles ad-hoc invoice matching.
type ReconciliationController struct {
	reconcileUseCase *reconciliation.ReconcileInvoiceUseCase
}

// NewReconciliationController creates a new reconciliation controller instance.
func NewReconciliationController(reconcileUseCase *reconciliation.ReconcileInvoiceUseCase) *ReconciliationController {
	return &ReconciliationController{
		reconcileUseCase: reconcileUseCase,
	}
}

// Match handles POST /reconciliation/match requests.
// Match failures are a 200 with valid=false; only storage failures are errors.
func (c *ReconciliationController) Match(ctx *gin.Context) {
	var req dto.MatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	output, err := c.reconcileUseCase.Execute(ctx.Request.Context(), req.ToReconcileInput())
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMatchResponse(output))
}
