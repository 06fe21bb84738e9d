package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/usecase/reconciliation"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// MatchRequest represents the request body for reconciling an invoice without storing it.
// Text fields accept a plain value or an extraction {value, confidence} envelope.
type MatchRequest struct {
	VendorName   any             `json:"vendor_name"`
	PONumber     any             `json:"po_number"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentTerms any             `json:"payment_terms"`
	InvoiceDate  any             `json:"invoice_date"`
}

// ToReconcileInput unwraps envelopes into the engine input.
func (r MatchRequest) ToReconcileInput() reconciliation.ReconcileInvoiceInput {
	return reconciliation.ReconcileInvoiceInput{
		VendorName:   valueobject.NormalizeScalar(r.VendorName).String(),
		PONumber:     valueobject.NormalizeScalar(r.PONumber).String(),
		Amount:       r.Amount,
		PaymentTerms: valueobject.NormalizeScalar(r.PaymentTerms).String(),
		InvoiceDate:  valueobject.NormalizeScalar(r.InvoiceDate).String(),
	}
}

// POMatchResponse is the outcome of matching an invoice against its PO.
type POMatchResponse struct {
	Valid             bool    `json:"valid"`
	POFound           bool    `json:"po_found"`
	VendorMatch       bool    `json:"vendor_match"`
	AmountInTolerance *bool   `json:"amount_in_tolerance"`
	MatchType         string  `json:"match_type"`
	Message           string  `json:"message"`
	PONumber          string  `json:"po_number,omitempty"`
	POVendorName      *string `json:"po_vendor_name,omitempty"`
	ExpectedAmount    *string `json:"expected_amount,omitempty"`
	Variance          *string `json:"variance,omitempty"`
	TotalReceived     *string `json:"total_received,omitempty"`
	HasReceipts       bool    `json:"has_receipts"`
	TolerancePercent  *string `json:"tolerance_percent,omitempty"`
	POStatus          *string `json:"po_status,omitempty"`
}

// MatchResponse is the combined vendor, PO and payment outcome.
type MatchResponse struct {
	Valid            bool                 `json:"valid"`
	VendorMatch      VendorMatchResponse  `json:"vendor_match"`
	POMatch          POMatchResponse      `json:"po_match"`
	PaymentPlan      *PaymentPlanResponse `json:"payment_plan"`
	PaymentError     string               `json:"payment_error,omitempty"`
	PaymentErrorCode string               `json:"payment_error_code,omitempty"`
}

// ToPOMatchResponse converts a POMatchResult value object.
func ToPOMatchResponse(r *valueobject.POMatchResult) POMatchResponse {
	resp := POMatchResponse{
		Valid:             r.Valid,
		POFound:           r.POFound,
		VendorMatch:       r.VendorMatch,
		AmountInTolerance: r.AmountInTolerance,
		MatchType:         string(r.MatchType),
		Message:           r.Message,
		PONumber:          r.PONumber,
		POVendorName:      r.POVendorName,
		ExpectedAmount:    decimalPtr(r.ExpectedAmount),
		Variance:          decimalPtr(r.Variance),
		TotalReceived:     decimalPtr(r.TotalReceived),
		HasReceipts:       r.HasReceipts,
		POStatus:          r.POStatus,
	}
	if r.TolerancePercent != nil {
		pct := r.TolerancePercent.String()
		resp.TolerancePercent = &pct
	}
	return resp
}

// ToMatchResponse converts a ReconcileInvoiceOutput.
func ToMatchResponse(out *reconciliation.ReconcileInvoiceOutput) MatchResponse {
	resp := MatchResponse{
		Valid:            out.Valid(),
		VendorMatch:      ToVendorMatchResponse(out.VendorMatch),
		POMatch:          ToPOMatchResponse(out.POMatch),
		PaymentError:     out.PaymentError,
		PaymentErrorCode: out.PaymentErrorCode,
	}
	if out.PaymentPlan != nil {
		plan := ToPaymentPlanResponse(out.PaymentPlan)
		resp.PaymentPlan = &plan
	}
	return resp
}
