package valueobject

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchType is the terminal classification of an invoice against POs and receipts.
type MatchType string

const (
	MatchTypeNoPO            MatchType = "no_po"
	MatchTypePONotFound      MatchType = "po_not_found"
	MatchTypePOClosed        MatchType = "po_closed"
	MatchTypeVendorMismatch  MatchType = "vendor_mismatch"
	MatchTypeTwoWayFailure   MatchType = "2_way_failure"
	MatchTypeThreeWayFailure MatchType = "3_way_failure"
	MatchTypeTwoWaySuccess   MatchType = "2_way_success"
	MatchTypeThreeWaySuccess MatchType = "3_way_success"
)

// IsValid reports whether the match type is one of the two success states.
func (m MatchType) IsValid() bool {
	return m == MatchTypeTwoWaySuccess || m == MatchTypeThreeWaySuccess
}

// MatchOutcome records which checks passed. Later fields are only meaningful
// when the earlier ones passed.
type MatchOutcome struct {
	POProvided        bool
	POFound           bool
	POClosedRejected  bool
	VendorMatches     bool
	AmountInTolerance bool
	HasReceipts       bool
	ReceiptsCover     bool
}

// Classify derives the terminal state. The first failing check wins, in the order
// no_po, po_not_found, po_closed, vendor_mismatch, 2_way_failure, 3_way_failure.
func Classify(o MatchOutcome) MatchType {
	switch {
	case !o.POProvided:
		return MatchTypeNoPO
	case !o.POFound:
		return MatchTypePONotFound
	case o.POClosedRejected:
		return MatchTypePOClosed
	case !o.VendorMatches:
		return MatchTypeVendorMismatch
	case !o.AmountInTolerance:
		return MatchTypeTwoWayFailure
	case !o.HasReceipts:
		return MatchTypeTwoWaySuccess
	case !o.ReceiptsCover:
		return MatchTypeThreeWayFailure
	default:
		return MatchTypeThreeWaySuccess
	}
}

// VendorMatch is the outcome of resolving an invoice vendor name.
type VendorMatch struct {
	Valid       bool
	VendorID    *string // external id, e.g. "V001"
	VendorRef   *uuid.UUID
	VendorName  *string
	Category    *string
	PaymentTerm *string
	Fuzzy       bool
	Message     string
}

// ReceiptMatchResult is the outcome of aggregating goods receipts for a PO.
type ReceiptMatchResult struct {
	HasReceipts   bool
	ReceiptCount  int
	TotalReceived decimal.Decimal
	Limit         decimal.Decimal
	Passed        bool
}

// POMatchResult is the outcome of matching an invoice against a purchase order.
// Numeric fields are nil when the corresponding check never ran.
type POMatchResult struct {
	Valid             bool
	POFound           bool
	VendorMatch       bool
	AmountInTolerance *bool
	MatchType         MatchType
	Message           string

	PONumber         string
	PurchaseOrderID  *uuid.UUID
	POVendorName     *string
	POStatus         *string
	ExpectedAmount   *decimal.Decimal
	TolerancePercent *decimal.Decimal
	ToleranceAmount  *decimal.Decimal
	Variance         *decimal.Decimal
	TotalReceived    *decimal.Decimal
	HasReceipts      bool
}

// ApprovalRoute names who must sign off on an invoice.
type ApprovalRoute string

const (
	RouteAutoApprove ApprovalRoute = "auto_approve"
	RouteManual      ApprovalRoute = "manual_review"
	RouteManager     ApprovalRoute = "manager_review"
	RouteDirector    ApprovalRoute = "director_review"
	RouteExecutive   ApprovalRoute = "executive_review"
)

var (
	autoApproveLimit = decimal.NewFromInt(5000)
	managerLimit     = decimal.NewFromInt(10000)
	directorLimit    = decimal.NewFromInt(50000)
	autoConfidence   = decimal.NewFromFloat(0.95)
	manualConfidence = decimal.NewFromFloat(0.80)
)

// RouteForApproval picks the approval route from extraction confidence, amount
// and whether the invoice carries issues (failed match or anomalies).
func RouteForApproval(confidence, amount decimal.Decimal, hasIssues bool) ApprovalRoute {
	if hasIssues {
		switch {
		case confidence.LessThan(manualConfidence) || amount.GreaterThanOrEqual(directorLimit):
			return RouteExecutive
		case amount.GreaterThanOrEqual(managerLimit):
			return RouteDirector
		case amount.GreaterThanOrEqual(autoApproveLimit):
			return RouteManager
		default:
			return RouteManual
		}
	}
	switch {
	case confidence.GreaterThanOrEqual(autoConfidence) && amount.LessThan(autoApproveLimit):
		return RouteAutoApprove
	case amount.GreaterThanOrEqual(directorLimit):
		return RouteExecutive
	case amount.GreaterThanOrEqual(managerLimit):
		return RouteDirector
	case amount.GreaterThanOrEqual(autoApproveLimit):
		return RouteManager
	default:
		return RouteAutoApprove
	}
}
