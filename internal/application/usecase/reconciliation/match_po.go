package reconciliation

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/domain/entity"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

var hundred = decimal.NewFromInt(100)

// MatchPO performs the two-way match of an invoice against its purchase order and,
// when the amount is within PO tolerance, the three-way match against receipts.
func (e *Engine) MatchPO(ctx context.Context, poNumber, vendorName string, amount decimal.Decimal) (*valueobject.POMatchResult, error) {
	poNumber = strings.TrimSpace(poNumber)
	vendorName = strings.TrimSpace(vendorName)

	outcome := valueobject.MatchOutcome{POProvided: poNumber != ""}
	result := &valueobject.POMatchResult{PONumber: poNumber}

	if !outcome.POProvided {
		return finish(result, outcome, "No PO number provided"), nil
	}

	po, err := e.store.FindPOByNumber(ctx, poNumber)
	if err != nil {
		return nil, storeError("look up purchase order", err)
	}
	if po == nil {
		return finish(result, outcome, fmt.Sprintf("PO '%s' not found in database", poNumber)), nil
	}

	outcome.POFound = true
	describePO(result, po)

	var closedNote string
	if po.IsClosed() {
		if e.config.RejectClosedPOs {
			outcome.POClosedRejected = true
			return finish(result, outcome, fmt.Sprintf("PO %s is closed and no longer accepts invoices", po.PONumber)), nil
		}
		closedNote = fmt.Sprintf(" Note: PO %s is closed.", po.PONumber)
	}

	poVendor := po.VendorName()
	if !e.config.NamesContain(vendorName, poVendor) {
		if poVendor == "" {
			poVendor = "Unknown"
		}
		return finish(result, outcome, fmt.Sprintf("Vendor mismatch: invoice from '%s' but PO %s is for '%s'",
			vendorName, po.PONumber, poVendor)+closedNote), nil
	}
	outcome.VendorMatches = true

	tolerance := po.ToleranceAmount()
	lower := po.ExpectedAmount.Sub(tolerance)
	upper := po.ExpectedAmount.Add(tolerance)
	inTolerance := !amount.LessThan(lower) && !amount.GreaterThan(upper)
	variance := amount.Sub(po.ExpectedAmount)
	tolerancePct := po.Tolerance.Mul(hundred)

	result.AmountInTolerance = &inTolerance
	result.ToleranceAmount = &tolerance
	result.Variance = &variance
	result.TolerancePercent = &tolerancePct

	if !inTolerance {
		return finish(result, outcome, fmt.Sprintf(
			"2-way match failed: invoice $%s vs PO $%s (tolerance ±%s%%, variance $%s)",
			money(amount), money(po.ExpectedAmount), tolerancePct.String(), money(variance))+closedNote), nil
	}
	outcome.AmountInTolerance = true

	receipts, err := e.MatchReceipts(ctx, po, amount)
	if err != nil {
		return nil, err
	}
	outcome.HasReceipts = receipts.HasReceipts
	outcome.ReceiptsCover = receipts.Passed
	result.HasReceipts = receipts.HasReceipts
	total := receipts.TotalReceived
	result.TotalReceived = &total

	var message string
	switch {
	case !receipts.HasReceipts:
		message = "2-way match passed (no goods receipts found for 3-way check)"
	case !receipts.Passed:
		message = fmt.Sprintf("3-way match failed: invoice $%s exceeds goods received $%s (limit $%s)",
			money(amount), money(receipts.TotalReceived), money(receipts.Limit))
	default:
		message = fmt.Sprintf("3-way match successful: invoice $%s matches PO $%s and goods received $%s",
			money(amount), money(po.ExpectedAmount), money(receipts.TotalReceived))
	}
	return finish(result, outcome, message+closedNote), nil
}

func describePO(result *valueobject.POMatchResult, po *entity.PurchaseOrder) {
	id := po.ID
	status := string(po.Status)
	expected := po.ExpectedAmount
	result.POFound = true
	result.PONumber = po.PONumber
	result.PurchaseOrderID = &id
	result.POStatus = &status
	result.ExpectedAmount = &expected
	if name := po.VendorName(); name != "" {
		result.POVendorName = &name
	}
}

func finish(result *valueobject.POMatchResult, outcome valueobject.MatchOutcome, message string) *valueobject.POMatchResult {
	result.VendorMatch = outcome.VendorMatches
	result.MatchType = valueobject.Classify(outcome)
	result.Valid = result.MatchType.IsValid()
	result.Message = message
	return result
}
