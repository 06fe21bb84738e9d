package purchaseorder

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// GetPurchaseOrderOutput is a PO with its receipts and the amount received so far.
type GetPurchaseOrderOutput struct {
	PurchaseOrder *entity.PurchaseOrder
	Receipts      []*entity.GoodsReceipt
	TotalReceived decimal.Decimal
}

// GetPurchaseOrderUseCase handles fetching one PO.
type GetPurchaseOrderUseCase struct {
	poRepo adapter.PurchaseOrderRepository
}

// NewGetPurchaseOrderUseCase creates a new GetPurchaseOrderUseCase instance.
func NewGetPurchaseOrderUseCase(poRepo adapter.PurchaseOrderRepository) *GetPurchaseOrderUseCase {
	return &GetPurchaseOrderUseCase{
		poRepo: poRepo,
	}
}

// Execute fetches the PO by number.
func (uc *GetPurchaseOrderUseCase) Execute(ctx context.Context, poNumber string) (*GetPurchaseOrderOutput, error) {
	po, err := findPO(ctx, uc.poRepo, poNumber)
	if err != nil {
		return nil, err
	}

	receipts, err := uc.poRepo.ListReceipts(ctx, po.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goods receipts: %w", err)
	}

	total := decimal.Zero
	for _, r := range receipts {
		total = total.Add(r.Amount)
	}

	return &GetPurchaseOrderOutput{
		PurchaseOrder: po,
		Receipts:      receipts,
		TotalReceived: total,
	}, nil
}
