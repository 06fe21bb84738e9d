package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// CreatePurchaseOrderRequest represents the request body for creating a PO.
type CreatePurchaseOrderRequest struct {
	PONumber       string           `json:"po_number" binding:"required,max=50"`
	VendorID       string           `json:"vendor_id" binding:"required"`
	ExpectedAmount decimal.Decimal  `json:"expected_amount"`
	Tolerance      *decimal.Decimal `json:"tolerance"`
	Description    *string          `json:"description"`
}

// UpdatePurchaseOrderStatusRequest represents the request body for opening or closing a PO.
type UpdatePurchaseOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active closed"`
}

// RecordReceiptRequest represents the request body for recording goods received.
type RecordReceiptRequest struct {
	ReceiptNumber string          `json:"receipt_number" binding:"required,max=50"`
	ReceivedDate  string          `json:"received_date" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         *string         `json:"notes"`
}

// PurchaseOrderResponse represents a PO in API responses.
type PurchaseOrderResponse struct {
	ID             string    `json:"id"`
	PONumber       string    `json:"po_number"`
	VendorID       string    `json:"vendor_id" binding:"required"`
	VendorName     string    `json:"vendor_name,omitempty"`
	Description    *string   `json:"description,omitempty"`
	ExpectedAmount string    `json:"expected_amount"`
	Tolerance      string    `json:"tolerance"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PurchaseOrderDetailResponse is a PO with its receipts.
type PurchaseOrderDetailResponse struct {
	PurchaseOrderResponse
	Receipts      []GoodsReceiptResponse `json:"receipts"`
	TotalReceived string                 `json:"total_received"`
}

// PurchaseOrderListResponse represents the response for listing POs.
type PurchaseOrderListResponse struct {
	PurchaseOrders []PurchaseOrderResponse `json:"purchase_orders"`
}

// GoodsReceiptResponse represents a goods receipt in API responses.
type GoodsReceiptResponse struct {
	ID            string    `json:"id"`
	ReceiptNumber string    `json:"receipt_number"`
	ReceivedDate  string    `json:"received_date" binding:"required"`
	Amount        string    `json:"amount"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// GoodsReceiptListResponse represents the response for listing a PO's receipts.
type GoodsReceiptListResponse struct {
	Receipts []GoodsReceiptResponse `json:"receipts"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to a PurchaseOrderResponse DTO.
func ToPurchaseOrderResponse(po *entity.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:             po.ID.String(),
		PONumber:       po.PONumber,
		VendorID:       po.VendorID.String(),
		VendorName:     po.VendorName(),
		Description:    po.Description,
		ExpectedAmount: money(po.ExpectedAmount),
		Tolerance:      po.Tolerance.String(),
		Status:         string(po.Status),
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	}
	if po.Vendor != nil {
		resp.VendorID = po.Vendor.ExternalID
	}
	return resp
}

// ToPurchaseOrderListResponse converts POs to a PurchaseOrderListResponse DTO.
func ToPurchaseOrderListResponse(pos []*entity.PurchaseOrder) PurchaseOrderListResponse {
	out := PurchaseOrderListResponse{PurchaseOrders: make([]PurchaseOrderResponse, 0, len(pos))}
	for _, po := range pos {
		out.PurchaseOrders = append(out.PurchaseOrders, ToPurchaseOrderResponse(po))
	}
	return out
}

// ToPurchaseOrderDetailResponse converts a PO with its receipts.
func ToPurchaseOrderDetailResponse(po *entity.PurchaseOrder, receipts []*entity.GoodsReceipt, totalReceived decimal.Decimal) PurchaseOrderDetailResponse {
	return PurchaseOrderDetailResponse{
		PurchaseOrderResponse: ToPurchaseOrderResponse(po),
		Receipts:              ToGoodsReceiptListResponse(receipts).Receipts,
		TotalReceived:         money(totalReceived),
	}
}

// ToGoodsReceiptResponse converts a domain GoodsReceipt to a GoodsReceiptResponse DTO.
func ToGoodsReceiptResponse(r *entity.GoodsReceipt) GoodsReceiptResponse {
	return GoodsReceiptResponse{
		ID:            r.ID.String(),
		ReceiptNumber: r.ReceiptNumber,
		ReceivedDate:  r.ReceivedDate,
		Amount:        money(r.Amount),
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}

// ToGoodsReceiptListResponse converts receipts to a GoodsReceiptListResponse DTO.
func ToGoodsReceiptListResponse(receipts []*entity.GoodsReceipt) GoodsReceiptListResponse {
	out := GoodsReceiptListResponse{Receipts: make([]GoodsReceiptResponse, 0, len(receipts))}
	for _, r := range receipts {
		out.Receipts = append(out.Receipts, ToGoodsReceiptResponse(r))
	}
	return out
}
