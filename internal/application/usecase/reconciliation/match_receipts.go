package reconciliation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/domain/entity"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// MatchReceipts aggregates the goods receipts of po. The check is one-sided:
// the invoice passes iff amount <= total_received * (1 + tolerance).
func (e *Engine) MatchReceipts(ctx context.Context, po *entity.PurchaseOrder, amount decimal.Decimal) (*valueobject.ReceiptMatchResult, error) {
	total, count, err := e.store.SumReceiptsForPO(ctx, po.ID)
	if err != nil {
		return nil, storeError("sum goods receipts", err)
	}

	result := &valueobject.ReceiptMatchResult{
		HasReceipts:   count > 0,
		ReceiptCount:  count,
		TotalReceived: total,
	}
	if !result.HasReceipts {
		return result, nil
	}

	result.Limit = total.Mul(one.Add(po.Tolerance))
	result.Passed = amount.LessThanOrEqual(result.Limit)
	return result, nil
}
