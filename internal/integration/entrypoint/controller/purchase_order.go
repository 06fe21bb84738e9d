package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	purchaseorder "github.com/ap-reconciler/backend/internal/application/usecase/purchase_order"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/dto"
)

// PurchaseOrderController handles purchase order and goods receipt endpoints.
type PurchaseOrderController struct {
	createUseCase        *purchaseorder.CreatePurchaseOrderUseCase
	getUseCase           *purchaseorder.GetPurchaseOrderUseCase
	listUseCase          *purchaseorder.ListPurchaseOrdersUseCase
	updateStatusUseCase  *purchaseorder.UpdateStatusUseCase
	recordReceiptUseCase *purchaseorder.RecordReceiptUseCase
	listReceiptsUseCase  *purchaseorder.ListReceiptsUseCase
}

// NewPurchaseOrderController creates a new purchase order controller instance.
func NewPurchaseOrderController(
	createUseCase *purchaseorder.CreatePurchaseOrderUseCase,
	getUseCase *purchaseorder.GetPurchaseOrderUseCase,
	listUseCase *purchaseorder.ListPurchaseOrdersUseCase,
	updateStatusUseCase *purchaseorder.UpdateStatusUseCase,
	recordReceiptUseCase *purchaseorder.RecordReceiptUseCase,
	listReceiptsUseCase *purchaseorder.ListReceiptsUseCase,
) *PurchaseOrderController {
	return &PurchaseOrderController{
		createUseCase:        createUseCase,
		getUseCase:           getUseCase,
		listUseCase:          listUseCase,
		updateStatusUseCase:  updateStatusUseCase,
		recordReceiptUseCase: recordReceiptUseCase,
		listReceiptsUseCase:  listReceiptsUseCase,
	}
}

// List handles GET /purchase-orders requests. ?status=active|closed filters the list.
func (c *PurchaseOrderController) List(ctx *gin.Context) {
	var input purchaseorder.ListPurchaseOrdersInput
	if statusStr := ctx.Query("status"); statusStr != "" {
		status := entity.POStatus(statusStr)
		if !status.IsValid() {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "status must be active or closed",
				Code:  string(domainerror.ErrCodeInvalidStatus),
			})
			return
		}
		input.Status = &status
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseOrderListResponse(output.PurchaseOrders))
}

// Create handles POST /purchase-orders requests.
func (c *PurchaseOrderController) Create(ctx *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), purchaseorder.CreatePurchaseOrderInput{
		PONumber:         req.PONumber,
		VendorExternalID: req.VendorID,
		ExpectedAmount:   req.ExpectedAmount,
		Tolerance:        req.Tolerance,
		Description:      req.Description,
	})
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToPurchaseOrderResponse(output.PurchaseOrder))
}

// Get handles GET /purchase-orders/:number requests.
func (c *PurchaseOrderController) Get(ctx *gin.Context) {
	output, err := c.getUseCase.Execute(ctx.Request.Context(), ctx.Param("number"))
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseOrderDetailResponse(output.PurchaseOrder, output.Receipts, output.TotalReceived))
}

// UpdateStatus handles PATCH /purchase-orders/:number/status requests.
func (c *PurchaseOrderController) UpdateStatus(ctx *gin.Context) {
	var req dto.UpdatePurchaseOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "status must be active or closed",
			Code:  string(domainerror.ErrCodeInvalidStatus),
		})
		return
	}

	po, err := c.updateStatusUseCase.Execute(ctx.Request.Context(), purchaseorder.UpdateStatusInput{
		PONumber: ctx.Param("number"),
		Status:   entity.POStatus(req.Status),
	})
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

// RecordReceipt handles POST /purchase-orders/:number/receipts requests.
func (c *PurchaseOrderController) RecordReceipt(ctx *gin.Context) {
	var req dto.RecordReceiptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	receipt, err := c.recordReceiptUseCase.Execute(ctx.Request.Context(), purchaseorder.RecordReceiptInput{
		PONumber:      ctx.Param("number"),
		ReceiptNumber: req.ReceiptNumber,
		ReceivedDate:  req.ReceivedDate,
		Amount:        req.Amount,
		Notes:         req.Notes,
	})
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToGoodsReceiptResponse(receipt))
}

// ListReceipts handles GET /purchase-orders/:number/receipts requests.
func (c *PurchaseOrderController) ListReceipts(ctx *gin.Context) {
	receipts, err := c.listReceiptsUseCase.Execute(ctx.Request.Context(), ctx.Param("number"))
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGoodsReceiptListResponse(receipts))
}
