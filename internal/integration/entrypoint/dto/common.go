// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/shopspring/decimal"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// DuplicateDocumentResponse is returned when an uploaded document was already ingested.
type DuplicateDocumentResponse struct {
	Error             string `json:"error"`
	Code              string `json:"code"`
	ExistingInvoiceID string `json:"existing_invoice_id,omitempty"`
}

func decimalPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
