package purchaseorder

import (
	"context"
	"fmt"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

// ListPurchaseOrdersInput represents the input for listing POs.
type ListPurchaseOrdersInput struct {
	Status *entity.POStatus
}

// ListPurchaseOrdersOutput represents the output of listing POs.
type ListPurchaseOrdersOutput struct {
	PurchaseOrders []*entity.PurchaseOrder
}

// ListPurchaseOrdersUseCase handles listing POs.
type ListPurchaseOrdersUseCase struct {
	poRepo adapter.PurchaseOrderRepository
}

// NewListPurchaseOrdersUseCase creates a new ListPurchaseOrdersUseCase instance.
func NewListPurchaseOrdersUseCase(poRepo adapter.PurchaseOrderRepository) *ListPurchaseOrdersUseCase {
	return &ListPurchaseOrdersUseCase{
		poRepo: poRepo,
	}
}

// Execute lists POs, optionally filtered by status.
func (uc *ListPurchaseOrdersUseCase) Execute(ctx context.Context, input ListPurchaseOrdersInput) (*ListPurchaseOrdersOutput, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidStatus,
			fmt.Sprintf("unknown purchase order status %q", *input.Status),
			nil,
		)
	}

	pos, err := uc.poRepo.List(ctx, input.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return &ListPurchaseOrdersOutput{PurchaseOrders: pos}, nil
}
