package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoodsReceipt records goods received against a purchase order. Immutable once created.
type GoodsReceipt struct {
	ID              uuid.UUID
	ReceiptNumber   string
	PurchaseOrderID uuid.UUID
	ReceivedDate    string // YYYY-MM-DD
	Amount          decimal.Decimal
	Notes           *string
	CreatedAt       time.Time
}

// NewGoodsReceipt creates a new GoodsReceipt entity.
func NewGoodsReceipt(receiptNumber string, purchaseOrderID uuid.UUID, receivedDate string, amount decimal.Decimal, notes *string) *GoodsReceipt {
	return &GoodsReceipt{
		ID:              uuid.New(),
		ReceiptNumber:   receiptNumber,
		PurchaseOrderID: purchaseOrderID,
		ReceivedDate:    receivedDate,
		Amount:          amount,
		Notes:           notes,
		CreatedAt:       time.Now().UTC(),
	}
}
