// Package payment contains payment optimization and scheduling use cases.
package payment

import (
	"context"

	"github.com/shopspring/decimal"

	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// OptimizePaymentInput represents the input for computing a payment plan.
type OptimizePaymentInput struct {
	PaymentTerms string
	InvoiceDate  string
	Amount       decimal.Decimal
}

// OptimizePaymentOutput represents the output of payment optimization.
type OptimizePaymentOutput struct {
	Plan *valueobject.PaymentPlan
}

// OptimizePaymentUseCase computes the optimal payment date for ad-hoc terms.
type OptimizePaymentUseCase struct{}

// NewOptimizePaymentUseCase creates a new OptimizePaymentUseCase instance.
func NewOptimizePaymentUseCase() *OptimizePaymentUseCase {
	return &OptimizePaymentUseCase{}
}

// Execute validates the amount and runs the optimizer.
func (uc *OptimizePaymentUseCase) Execute(_ context.Context, input OptimizePaymentInput) (*OptimizePaymentOutput, error) {
	if input.Amount.IsNegative() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidAmount,
			"amount must not be negative",
			domainerror.ErrInvalidAmount,
		)
	}

	plan, err := valueobject.OptimizePayment(input.PaymentTerms, input.InvoiceDate, input.Amount)
	if err != nil {
		return nil, err
	}

	return &OptimizePaymentOutput{Plan: plan}, nil
}
