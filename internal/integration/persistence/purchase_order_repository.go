package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/persistence/model"
)

// purchaseOrderRepository implements the adapter.PurchaseOrderRepository interface.
type purchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository creates a new purchase order repository instance.
func NewPurchaseOrderRepository(db *gorm.DB) adapter.PurchaseOrderRepository {
	return &purchaseOrderRepository{
		db: db,
	}
}

// Create creates a new purchase order in the database.
func (r *purchaseOrderRepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	result := r.db.WithContext(ctx).Omit("Vendor").Create(model.PurchaseOrderModelFromEntity(po))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerror.ErrPurchaseOrderAlreadyExists
		}
		return result.Error
	}
	return nil
}

// FindByNumber retrieves a PO by number, ignoring case, with its vendor.
func (r *purchaseOrderRepository) FindByNumber(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error) {
	var poModel model.PurchaseOrderModel
	result := r.db.WithContext(ctx).
		Preload("Vendor").
		Where("LOWER(po_number) = ?", strings.ToLower(strings.TrimSpace(poNumber))).
		First(&poModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPurchaseOrderNotFound
		}
		return nil, result.Error
	}
	return poModel.ToEntity(), nil
}

// List retrieves POs with vendors ordered by number.
func (r *purchaseOrderRepository) List(ctx context.Context, status *entity.POStatus) ([]*entity.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).Preload("Vendor").Order("po_number ASC")
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var models []model.PurchaseOrderModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	pos := make([]*entity.PurchaseOrder, len(models))
	for i := range models {
		pos[i] = models[i].ToEntity()
	}
	return pos, nil
}

// UpdateStatus sets the PO status.
func (r *purchaseOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.POStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.PurchaseOrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrPurchaseOrderNotFound
	}
	return nil
}

// CreateReceipt inserts a goods receipt.
func (r *purchaseOrderRepository) CreateReceipt(ctx context.Context, receipt *entity.GoodsReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.GoodsReceiptModel{}).
			Where("receipt_number = ?", receipt.ReceiptNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domainerror.ErrGoodsReceiptAlreadyExists
		}

		if err := tx.Create(model.GoodsReceiptModelFromEntity(receipt)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domainerror.ErrGoodsReceiptAlreadyExists
			}
			return err
		}
		return nil
	})
}

// ListReceipts retrieves receipts for a PO ordered by received date.
func (r *purchaseOrderRepository) ListReceipts(ctx context.Context, purchaseOrderID uuid.UUID) ([]*entity.GoodsReceipt, error) {
	var models []model.GoodsReceiptModel
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", purchaseOrderID).
		Order("received_date ASC, receipt_number ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	receipts := make([]*entity.GoodsReceipt, len(models))
	for i := range models {
		receipts[i] = models[i].ToEntity()
	}
	return receipts, nil
}
