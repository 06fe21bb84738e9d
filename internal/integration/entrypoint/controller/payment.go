package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ap-reconciler/backend/internal/application/usecase/analytics"
	"github.com/ap-reconciler/backend/internal/application/usecase/payment"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/dto"
)

// PaymentController handles payment optimization, scheduling and spend analytics.
type PaymentController struct {
	optimizeUseCase *payment.OptimizePaymentUseCase
	scheduleUseCase *payment.GetScheduleUseCase
	spendUseCase    *analytics.GetSpendSummaryUseCase
}

// NewPaymentController creates a new payment controller instance.
func NewPaymentController(
	optimizeUseCase *payment.OptimizePaymentUseCase,
	scheduleUseCase *payment.GetScheduleUseCase,
	spendUseCase *analytics.GetSpendSummaryUseCase,
) *PaymentController {
	return &PaymentController{
		optimizeUseCase: optimizeUseCase,
		scheduleUseCase: scheduleUseCase,
		spendUseCase:    spendUseCase,
	}
}

// Optimize handles POST /payments/optimize requests.
func (c *PaymentController) Optimize(ctx *gin.Context) {
	var req dto.OptimizePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invoice_date is required")
		return
	}

	output, err := c.optimizeUseCase.Execute(ctx.Request.Context(), payment.OptimizePaymentInput{
		PaymentTerms: req.PaymentTerms,
		InvoiceDate:  req.InvoiceDate,
		Amount:       req.Amount,
	})
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentPlanResponse(output.Plan))
}

// Schedule handles GET /payments/schedule requests.
func (c *PaymentController) Schedule(ctx *gin.Context) {
	output, err := c.scheduleUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentScheduleResponse(output))
}

// Spend handles GET /analytics/spend requests.
func (c *PaymentController) Spend(ctx *gin.Context) {
	output, err := c.spendUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSpendSummaryResponse(output))
}
