package entity

import (
	"time"

	"github.com/google/uuid"
)

// AnomalySeverity ranks how urgently an anomaly needs attention.
type AnomalySeverity string

const (
	SeverityLow      AnomalySeverity = "low"
	SeverityMedium   AnomalySeverity = "medium"
	SeverityHigh     AnomalySeverity = "high"
	SeverityCritical AnomalySeverity = "critical"
)

// IsValid reports whether the severity is a known value.
func (s AnomalySeverity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Anomaly types raised by ingestion.
const (
	AnomalyPONotFound     = "po_not_found"
	AnomalyNoPO           = "no_po"
	AnomalyVendorMismatch = "vendor_mismatch"
	AnomalyAmountVariance = "amount_variance"
	AnomalyReceiptShort   = "receipt_shortfall"
	AnomalyPOClosed       = "po_closed"
	AnomalyUnknownVendor  = "unknown_vendor"
	AnomalyMissingField   = "missing_field"
	AnomalyLowConfidence  = "low_confidence"
)

// Anomaly is an issue found on an invoice, raised by the extraction agent or by matching.
type Anomaly struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Type        string
	Description string
	Severity    AnomalySeverity
	CreatedAt   time.Time
}

// NewAnomaly creates a new Anomaly. Unknown severities become medium.
func NewAnomaly(anomalyType, description string, severity AnomalySeverity) Anomaly {
	if !severity.IsValid() {
		severity = SeverityMedium
	}
	return Anomaly{
		ID:          uuid.New(),
		Type:        anomalyType,
		Description: description,
		Severity:    severity,
		CreatedAt:   time.Now().UTC(),
	}
}
