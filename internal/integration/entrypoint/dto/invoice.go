package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/application/usecase/invoice"
	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// RevalidateInvoiceRequest represents reviewer edits. Nil fields keep the stored value.
type RevalidateInvoiceRequest struct {
	VendorName    *string          `json:"vendor_name"`
	InvoiceNumber *string          `json:"invoice_number"`
	InvoiceDate   *string          `json:"invoice_date"`
	PONumber      *string          `json:"po_number"`
	PaymentTerms  *string          `json:"payment_terms"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	Notes         *string          `json:"notes"`
}

// DecideInvoiceRequest represents the optional body of approve and reject.
type DecideInvoiceRequest struct {
	Notes *string `json:"notes"`
}

// InvoiceSummaryResponse is the list view of an invoice.
type InvoiceSummaryResponse struct {
	ID                 string    `json:"id"`
	VendorName         string    `json:"vendor_name"`
	InvoiceNumber      *string   `json:"invoice_number"`
	InvoiceDate        *string   `json:"invoice_date"`
	PONumber           *string   `json:"po_number"`
	TotalAmount        string    `json:"total_amount"`
	Status             string    `json:"status"`
	MatchType          string    `json:"match_type"`
	DueDate            *string   `json:"due_date"`
	DiscountDate       *string   `json:"discount_date"`
	OptimalPaymentDate *string   `json:"optimal_payment_date"`
	PotentialSavings   string    `json:"potential_savings"`
	ApprovalRoute      string    `json:"approval_route"`
	CreatedAt          time.Time `json:"created_at"`
}

// InvoiceLineResponse is one invoice line item.
type InvoiceLineResponse struct {
	Position    int     `json:"position"`
	Description *string `json:"description"`
	Quantity    *string `json:"quantity"`
	UnitPrice   *string `json:"unit_price"`
	LineTotal   *string `json:"line_total"`
}

// AnomalyResponse is one issue raised on an invoice.
type AnomalyResponse struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	CreatedAt   time.Time `json:"created_at"`
}

// InvoiceResponse is the detail view of an invoice.
type InvoiceResponse struct {
	InvoiceSummaryResponse
	VendorID             *string               `json:"vendor_id"`
	PaymentTerms         *string               `json:"payment_terms"`
	DiscountCaptured     bool                  `json:"discount_captured"`
	MatchMessage         string                `json:"match_message"`
	ExtractionConfidence *float64              `json:"extraction_confidence"`
	SourceFilename       *string               `json:"source_filename,omitempty"`
	ReviewerID           *string               `json:"reviewer_id,omitempty"`
	ReviewNotes          *string               `json:"review_notes,omitempty"`
	ExternalBillID       *string               `json:"external_bill_id,omitempty"`
	PaidAt               *time.Time            `json:"paid_at,omitempty"`
	UpdatedAt            time.Time             `json:"updated_at"`
	Lines                []InvoiceLineResponse `json:"line_items"`
	Anomalies            []AnomalyResponse     `json:"anomalies"`
	RawExtraction        json.RawMessage       `json:"raw_extraction,omitempty"`
}

// InvoiceListResponse represents the response for listing invoices.
type InvoiceListResponse struct {
	Invoices []InvoiceSummaryResponse `json:"invoices"`
	Total    int64                    `json:"total"`
}

// IngestResponse represents the stored invoice and how it was reconciled.
type IngestResponse struct {
	Invoice        InvoiceResponse `json:"invoice"`
	Reconciliation *MatchResponse  `json:"reconciliation"`
	Provider       string          `json:"provider"`
	ToolCalls      int             `json:"tool_calls"`
	Resolutions    []string        `json:"resolutions"`
}

// RevalidateResponse represents the invoice after reviewer edits.
type RevalidateResponse struct {
	Invoice        InvoiceResponse `json:"invoice"`
	Reconciliation *MatchResponse  `json:"reconciliation"`
}

// ExportBillResponse represents the bill created for an invoice.
type ExportBillResponse struct {
	Invoice    InvoiceResponse `json:"invoice"`
	Provider   string          `json:"provider"`
	ExternalID string          `json:"external_bill_id"`
	Simulated  bool            `json:"simulated"`
}

// ToInvoiceSummaryResponse converts an Invoice to its list view.
func ToInvoiceSummaryResponse(inv *entity.Invoice) InvoiceSummaryResponse {
	return InvoiceSummaryResponse{
		ID:                 inv.ID.String(),
		VendorName:         inv.VendorName,
		InvoiceNumber:      inv.InvoiceNumber,
		InvoiceDate:        inv.InvoiceDate,
		PONumber:           inv.PONumber,
		TotalAmount:        money(inv.TotalAmount),
		Status:             string(inv.Status),
		MatchType:          inv.MatchType,
		DueDate:            inv.DueDate,
		DiscountDate:       inv.DiscountDate,
		OptimalPaymentDate: inv.OptimalPaymentDate,
		PotentialSavings:   money(inv.PotentialSavings),
		ApprovalRoute:      inv.ApprovalRoute,
		CreatedAt:          inv.CreatedAt,
	}
}

// ToInvoiceResponse converts an Invoice to its detail view.
func ToInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceSummaryResponse: ToInvoiceSummaryResponse(inv),
		PaymentTerms:           inv.PaymentTerms,
		DiscountCaptured:       inv.DiscountCaptured,
		MatchMessage:           inv.MatchMessage,
		ExtractionConfidence:   inv.ExtractionConfidence,
		SourceFilename:         inv.SourceFilename,
		ReviewNotes:            inv.ReviewNotes,
		ExternalBillID:         inv.ExternalBillID,
		PaidAt:                 inv.PaidAt,
		UpdatedAt:              inv.UpdatedAt,
		Lines:                  make([]InvoiceLineResponse, 0, len(inv.Lines)),
		Anomalies:              make([]AnomalyResponse, 0, len(inv.Anomalies)),
	}
	if inv.VendorID != nil {
		id := inv.VendorID.String()
		resp.VendorID = &id
	}
	if inv.ReviewerID != nil {
		id := inv.ReviewerID.String()
		resp.ReviewerID = &id
	}
	if json.Valid(inv.RawExtraction) {
		resp.RawExtraction = json.RawMessage(inv.RawExtraction)
	}
	for _, l := range inv.Lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			Position:    l.Position,
			Description: l.Description,
			Quantity:    decimalString(l.Quantity),
			UnitPrice:   decimalPtr(l.UnitPrice),
			LineTotal:   decimalPtr(l.LineTotal),
		})
	}
	for _, a := range inv.Anomalies {
		resp.Anomalies = append(resp.Anomalies, AnomalyResponse{
			Type:        a.Type,
			Description: a.Description,
			Severity:    string(a.Severity),
			CreatedAt:   a.CreatedAt,
		})
	}
	return resp
}

// ToInvoiceListResponse converts a listing result.
func ToInvoiceListResponse(result *entity.InvoiceListResult) InvoiceListResponse {
	out := InvoiceListResponse{
		Invoices: make([]InvoiceSummaryResponse, 0, len(result.Invoices)),
		Total:    result.Total,
	}
	for _, inv := range result.Invoices {
		out.Invoices = append(out.Invoices, ToInvoiceSummaryResponse(inv))
	}
	return out
}

// ToIngestResponse converts an IngestDocumentOutput.
func ToIngestResponse(out *invoice.IngestDocumentOutput) IngestResponse {
	resp := IngestResponse{
		Invoice:     ToInvoiceResponse(out.Invoice),
		Provider:    out.Provider,
		ToolCalls:   out.ToolCalls,
		Resolutions: out.Resolutions,
	}
	if resp.Resolutions == nil {
		resp.Resolutions = []string{}
	}
	if out.Reconciliation != nil {
		match := ToMatchResponse(out.Reconciliation)
		resp.Reconciliation = &match
	}
	return resp
}

// ToRevalidateResponse converts a RevalidateInvoiceOutput.
func ToRevalidateResponse(out *invoice.RevalidateInvoiceOutput) RevalidateResponse {
	resp := RevalidateResponse{Invoice: ToInvoiceResponse(out.Invoice)}
	if out.Reconciliation != nil {
		match := ToMatchResponse(out.Reconciliation)
		resp.Reconciliation = &match
	}
	return resp
}

// ToExportBillResponse converts an ExportBillOutput.
func ToExportBillResponse(inv *entity.Invoice, bill *adapter.BillResult) ExportBillResponse {
	return ExportBillResponse{
		Invoice:    ToInvoiceResponse(inv),
		Provider:   bill.Provider,
		ExternalID: bill.ExternalID,
		Simulated:  bill.Simulated,
	}
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
