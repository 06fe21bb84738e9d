package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// PurchaseOrderRepository defines the interface for PO and goods receipt administration.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error

	// FindByNumber retrieves a PO with its vendor, ignoring case on the number.
	FindByNumber(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error)

	// List retrieves POs with vendors, optionally filtered by status.
	List(ctx context.Context, status *entity.POStatus) ([]*entity.PurchaseOrder, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.POStatus) error

	// CreateReceipt inserts a goods receipt. Duplicate receipt numbers fail with
	// domainerror.ErrGoodsReceiptAlreadyExists.
	CreateReceipt(ctx context.Context, receipt *entity.GoodsReceipt) error

	// ListReceipts retrieves receipts for a PO ordered by received date.
	ListReceipts(ctx context.Context, purchaseOrderID uuid.UUID) ([]*entity.GoodsReceipt, error)
}
