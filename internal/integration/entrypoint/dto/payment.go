package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/usecase/payment"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// OptimizePaymentRequest represents the request body for the payment optimizer.
type OptimizePaymentRequest struct {
	PaymentTerms string          `json:"payment_terms"`
	InvoiceDate  string          `json:"invoice_date" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
}

// PaymentPlanResponse is the recommended payment schedule for one invoice.
type PaymentPlanResponse struct {
	PaymentTerms       string  `json:"payment_terms"`
	TermsKind          string  `json:"terms_kind"`
	InvoiceDate        string  `json:"invoice_date"`
	DueDate            string  `json:"due_date"`
	DiscountDate       *string `json:"discount_date"`
	OptimalPaymentDate string  `json:"optimal_payment_date"`
	PotentialSavings   string  `json:"potential_savings"`
	DiscountCaptured   bool    `json:"discount_captured"`
	APR                *string `json:"apr,omitempty"`
	Reasoning          string  `json:"reasoning"`
}

// ScheduledPaymentResponse is one entry of the cash-flow forecast.
type ScheduledPaymentResponse struct {
	InvoiceID          string  `json:"invoice_id"`
	InvoiceNumber      *string `json:"invoice_number"`
	VendorName         string  `json:"vendor_name"`
	TotalAmount        string  `json:"total_amount"`
	Status             string  `json:"status"`
	DueDate            *string `json:"due_date"`
	DiscountDate       *string `json:"discount_date"`
	OptimalPaymentDate *string `json:"optimal_payment_date"`
	PotentialSavings   string  `json:"potential_savings"`
	TakeDiscount       bool    `json:"take_discount"`
}

// PaymentScheduleResponse represents the outstanding payables overview.
type PaymentScheduleResponse struct {
	TotalOutstanding string                     `json:"total_outstanding"`
	PotentialSavings string                     `json:"potential_savings"`
	OutstandingCount int                        `json:"outstanding_count"`
	Opportunities    []InvoiceSummaryResponse   `json:"discount_opportunities"`
	Forecast         []ScheduledPaymentResponse `json:"forecast"`
}

// ToPaymentPlanResponse converts a PaymentPlan value object.
func ToPaymentPlanResponse(p *valueobject.PaymentPlan) PaymentPlanResponse {
	resp := PaymentPlanResponse{
		PaymentTerms:       p.PaymentTerms,
		TermsKind:          string(p.Terms.Kind),
		InvoiceDate:        p.InvoiceDate,
		DueDate:            p.DueDate,
		DiscountDate:       p.DiscountDate,
		OptimalPaymentDate: p.OptimalPaymentDate,
		PotentialSavings:   money(p.PotentialSavings),
		DiscountCaptured:   p.DiscountCaptured,
		Reasoning:          p.Reasoning,
	}
	if p.APR != nil {
		apr := p.APR.StringFixed(4)
		resp.APR = &apr
	}
	return resp
}

// ToPaymentScheduleResponse converts a GetScheduleOutput.
func ToPaymentScheduleResponse(out *payment.GetScheduleOutput) PaymentScheduleResponse {
	resp := PaymentScheduleResponse{
		TotalOutstanding: money(out.TotalOutstanding),
		PotentialSavings: money(out.PotentialSavings),
		OutstandingCount: out.OutstandingCount,
		Opportunities:    make([]InvoiceSummaryResponse, 0, len(out.Opportunities)),
		Forecast:         make([]ScheduledPaymentResponse, 0, len(out.Forecast)),
	}
	for _, inv := range out.Opportunities {
		resp.Opportunities = append(resp.Opportunities, ToInvoiceSummaryResponse(inv))
	}
	for _, sp := range out.Forecast {
		inv := sp.Invoice
		resp.Forecast = append(resp.Forecast, ScheduledPaymentResponse{
			InvoiceID:          inv.ID.String(),
			InvoiceNumber:      inv.InvoiceNumber,
			VendorName:         inv.VendorName,
			TotalAmount:        money(inv.TotalAmount),
			Status:             string(inv.Status),
			DueDate:            inv.DueDate,
			DiscountDate:       inv.DiscountDate,
			OptimalPaymentDate: inv.OptimalPaymentDate,
			PotentialSavings:   money(inv.PotentialSavings),
			TakeDiscount:       sp.TakeDiscount,
		})
	}
	return resp
}
