package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// PurchaseOrderModel represents the purchase_orders table in the database.
type PurchaseOrderModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PONumber       string          `gorm:"column:po_number;type:varchar(50);uniqueIndex;not null"`
	VendorID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description    *string         `gorm:"type:text"`
	ExpectedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Tolerance      decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0.10"`
	Status         string          `gorm:"type:varchar(10);not null;default:'active';index"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Vendor *VendorModel `gorm:"foreignKey:VendorID"`
}

// TableName returns the table name for the PurchaseOrderModel.
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToEntity converts a PurchaseOrderModel to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToEntity() *entity.PurchaseOrder {
	po := &entity.PurchaseOrder{
		ID:             m.ID,
		PONumber:       m.PONumber,
		VendorID:       m.VendorID,
		Description:    m.Description,
		ExpectedAmount: m.ExpectedAmount,
		Tolerance:      m.Tolerance,
		Status:         entity.POStatus(m.Status),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Vendor != nil {
		po.Vendor = m.Vendor.ToEntity()
	}
	return po
}

// PurchaseOrderModelFromEntity creates a PurchaseOrderModel from a domain PurchaseOrder entity.
func PurchaseOrderModelFromEntity(po *entity.PurchaseOrder) *PurchaseOrderModel {
	return &PurchaseOrderModel{
		ID:             po.ID,
		PONumber:       po.PONumber,
		VendorID:       po.VendorID,
		Description:    po.Description,
		ExpectedAmount: po.ExpectedAmount,
		Tolerance:      po.Tolerance,
		Status:         string(po.Status),
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	}
}

// GoodsReceiptModel represents the goods_receipts table in the database.
type GoodsReceiptModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceiptNumber   string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceivedDate    string          `gorm:"type:varchar(10);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Notes           *string         `gorm:"type:text"`
	CreatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GoodsReceiptModel.
func (GoodsReceiptModel) TableName() string {
	return "goods_receipts"
}

// ToEntity converts a GoodsReceiptModel to a domain GoodsReceipt entity.
func (m *GoodsReceiptModel) ToEntity() *entity.GoodsReceipt {
	return &entity.GoodsReceipt{
		ID:              m.ID,
		ReceiptNumber:   m.ReceiptNumber,
		PurchaseOrderID: m.PurchaseOrderID,
		ReceivedDate:    m.ReceivedDate,
		Amount:          m.Amount,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
	}
}

// GoodsReceiptModelFromEntity creates a GoodsReceiptModel from a domain GoodsReceipt entity.
func GoodsReceiptModelFromEntity(r *entity.GoodsReceipt) *GoodsReceiptModel {
	return &GoodsReceiptModel{
		ID:              r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		PurchaseOrderID: r.PurchaseOrderID,
		ReceivedDate:    r.ReceivedDate,
		Amount:          r.Amount,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
	}
}
