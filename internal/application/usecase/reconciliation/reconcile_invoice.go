package reconciliation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// ReconcileInvoiceInput represents the input for reconciling one invoice.
type ReconcileInvoiceInput struct {
	VendorName   string
	PONumber     string
	Amount       decimal.Decimal
	PaymentTerms string
	InvoiceDate  string
}

// ReconcileInvoiceOutput is the combined vendor, PO and payment outcome.
// PaymentError is set instead of PaymentPlan when the optimizer rejected its input.
type ReconcileInvoiceOutput struct {
	VendorMatch      *valueobject.VendorMatch
	POMatch          *valueobject.POMatchResult
	PaymentPlan      *valueobject.PaymentPlan
	PaymentError     string
	PaymentErrorCode string
}

// Valid reports whether the PO match ended in a success state.
func (o *ReconcileInvoiceOutput) Valid() bool {
	return o.POMatch != nil && o.POMatch.Valid
}

// ReconcileInvoiceUseCase runs vendor resolution, PO matching and payment optimization.
type ReconcileInvoiceUseCase struct {
	engine *Engine
}

// NewReconcileInvoiceUseCase creates a new ReconcileInvoiceUseCase instance.
func NewReconcileInvoiceUseCase(engine *Engine) *ReconcileInvoiceUseCase {
	return &ReconcileInvoiceUseCase{
		engine: engine,
	}
}

// Execute reconciles the invoice. Only storage failures are returned as errors.
func (uc *ReconcileInvoiceUseCase) Execute(ctx context.Context, input ReconcileInvoiceInput) (*ReconcileInvoiceOutput, error) {
	vendorMatch, err := uc.engine.ResolveVendor(ctx, input.VendorName)
	if err != nil {
		return nil, err
	}

	poMatch, err := uc.engine.MatchPO(ctx, input.PONumber, input.VendorName, input.Amount)
	if err != nil {
		return nil, err
	}

	output := &ReconcileInvoiceOutput{
		VendorMatch: vendorMatch,
		POMatch:     poMatch,
	}

	terms := strings.TrimSpace(input.PaymentTerms)
	if terms == "" && vendorMatch.PaymentTerm != nil {
		terms = *vendorMatch.PaymentTerm
	}

	if strings.TrimSpace(input.InvoiceDate) == "" {
		output.PaymentError = "no invoice date provided"
		output.PaymentErrorCode = string(domainerror.ErrCodeInvalidInvoiceDate)
	} else {
		plan, err := valueobject.OptimizePayment(terms, input.InvoiceDate, input.Amount)
		if err != nil {
			var recErr *domainerror.ReconciliationError
			if !errors.As(err, &recErr) {
				return nil, err
			}
			output.PaymentError = recErr.Message
			output.PaymentErrorCode = string(recErr.Code)
		} else {
			output.PaymentPlan = plan
		}
	}

	slog.Debug("Invoice reconciled",
		"po_number", poMatch.PONumber,
		"match_type", poMatch.MatchType,
		"vendor_valid", vendorMatch.Valid,
	)

	return output, nil
}
