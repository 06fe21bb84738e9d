package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/usecase/reconciliation"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// derivedTypes are the anomaly types raised from matching and field checks. They are
// recomputed on every revalidation; anything else was flagged by the agent and kept.
var derivedTypes = map[string]bool{
	entity.AnomalyPONotFound:     true,
	entity.AnomalyNoPO:           true,
	entity.AnomalyPOClosed:       true,
	entity.AnomalyVendorMismatch: true,
	entity.AnomalyAmountVariance: true,
	entity.AnomalyReceiptShort:   true,
	entity.AnomalyUnknownVendor:  true,
	entity.AnomalyMissingField:   true,
	entity.AnomalyLowConfidence:  true,
}

// applyReconciliation copies the classification and payment plan onto the invoice.
func applyReconciliation(inv *entity.Invoice, rec *reconciliation.ReconcileInvoiceOutput) {
	if vm := rec.VendorMatch; vm != nil && vm.Valid && vm.VendorRef != nil {
		ref := *vm.VendorRef
		inv.VendorID = &ref
		if vm.VendorName != nil {
			inv.VendorName = *vm.VendorName
		}
	} else {
		inv.VendorID = nil
	}

	inv.MatchType = string(rec.POMatch.MatchType)
	inv.MatchMessage = rec.POMatch.Message

	inv.DueDate, inv.DiscountDate, inv.OptimalPaymentDate = nil, nil, nil
	inv.PotentialSavings = decimal.Zero
	inv.DiscountCaptured = false
	if plan := rec.PaymentPlan; plan != nil {
		due, optimal := plan.DueDate, plan.OptimalPaymentDate
		inv.DueDate = &due
		inv.OptimalPaymentDate = &optimal
		if plan.DiscountDate != nil {
			discount := *plan.DiscountDate
			inv.DiscountDate = &discount
		}
		inv.PotentialSavings = plan.PotentialSavings.Round(2)
		inv.DiscountCaptured = plan.DiscountCaptured
		if plan.PaymentTerms != "" {
			terms := plan.PaymentTerms
			inv.PaymentTerms = &terms
		}
	}
}

// deriveAnomalies raises anomalies from the match outcome and missing fields.
func deriveAnomalies(inv *entity.Invoice, rec *reconciliation.ReconcileInvoiceOutput, amountMissing bool, lowConfidence *float64) []entity.Anomaly {
	var out []entity.Anomaly

	if rec.VendorMatch != nil && !rec.VendorMatch.Valid {
		out = append(out, entity.NewAnomaly(entity.AnomalyUnknownVendor, rec.VendorMatch.Message, entity.SeverityHigh))
	}

	switch rec.POMatch.MatchType {
	case valueobject.MatchTypeNoPO:
		out = append(out, entity.NewAnomaly(entity.AnomalyNoPO, "No PO number found on invoice", entity.SeverityMedium))
	case valueobject.MatchTypePONotFound:
		out = append(out, entity.NewAnomaly(entity.AnomalyPONotFound, rec.POMatch.Message, entity.SeverityHigh))
	case valueobject.MatchTypePOClosed:
		out = append(out, entity.NewAnomaly(entity.AnomalyPOClosed, rec.POMatch.Message, entity.SeverityMedium))
	case valueobject.MatchTypeVendorMismatch:
		out = append(out, entity.NewAnomaly(entity.AnomalyVendorMismatch, rec.POMatch.Message, entity.SeverityHigh))
	case valueobject.MatchTypeTwoWayFailure:
		out = append(out, entity.NewAnomaly(entity.AnomalyAmountVariance, rec.POMatch.Message, entity.SeverityHigh))
	case valueobject.MatchTypeThreeWayFailure:
		out = append(out, entity.NewAnomaly(entity.AnomalyReceiptShort, rec.POMatch.Message, entity.SeverityHigh))
	}

	if inv.InvoiceNumber == nil {
		out = append(out, entity.NewAnomaly(entity.AnomalyMissingField, "Invoice number not found", entity.SeverityMedium))
	}
	if amountMissing {
		out = append(out, entity.NewAnomaly(entity.AnomalyMissingField, "Total amount not clearly visible", entity.SeverityCritical))
	}
	if lowConfidence != nil {
		out = append(out, entity.NewAnomaly(entity.AnomalyLowConfidence,
			fmt.Sprintf("Extraction confidence %.2f on a key field is below the review threshold", *lowConfidence),
			entity.SeverityMedium))
	}

	return out
}

// mergeAnomalies keeps agent-flagged anomalies and replaces derived ones.
func mergeAnomalies(existing, flagged, derived []entity.Anomaly) []entity.Anomaly {
	out := make([]entity.Anomaly, 0, len(existing)+len(flagged)+len(derived))
	for _, a := range existing {
		if !derivedTypes[a.Type] {
			out = append(out, a)
		}
	}
	out = append(out, flagged...)
	out = append(out, derived...)
	return out
}

func hasSevere(anomalies []entity.Anomaly) bool {
	for _, a := range anomalies {
		if a.Severity == entity.SeverityHigh || a.Severity == entity.SeverityCritical {
			return true
		}
	}
	return false
}

func hasCritical(anomalies []entity.Anomaly) bool {
	for _, a := range anomalies {
		if a.Severity == entity.SeverityCritical {
			return true
		}
	}
	return false
}

// approvalRoute picks the route, treating unreported confidence as certain.
func approvalRoute(inv *entity.Invoice, valid bool) string {
	confidence := decimal.NewFromInt(1)
	if inv.ExtractionConfidence != nil {
		confidence = decimal.NewFromFloat(*inv.ExtractionConfidence)
	}
	hasIssues := !valid || hasSevere(inv.Anomalies)
	return string(valueobject.RouteForApproval(confidence, inv.TotalAmount, hasIssues))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
