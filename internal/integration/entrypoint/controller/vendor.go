package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/application/usecase/reconciliation"
	"github.com/ap-reconciler/backend/internal/application/usecase/vendor"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/dto"
)

// VendorController handles vendor master data endpoints.
type VendorController struct {
	createUseCase *vendor.CreateVendorUseCase
	listUseCase   *vendor.ListVendorsUseCase
	updateUseCase *vendor.UpdateVendorUseCase
	engine        *reconciliation.Engine
}

// NewVendorController creates a new vendor controller instance.
func NewVendorController(
	createUseCase *vendor.CreateVendorUseCase,
	listUseCase *vendor.ListVendorsUseCase,
	updateUseCase *vendor.UpdateVendorUseCase,
	engine *reconciliation.Engine,
) *VendorController {
	return &VendorController{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
		updateUseCase: updateUseCase,
		engine:        engine,
	}
}

// List handles GET /vendors requests.
func (c *VendorController) List(ctx *gin.Context) {
	output, err := c.listUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToVendorListResponse(output.Vendors))
}

// Create handles POST /vendors requests.
func (c *VendorController) Create(ctx *gin.Context) {
	var req dto.CreateVendorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), vendor.CreateVendorInput{
		ExternalID:          req.ExternalID,
		Name:                req.Name,
		Category:            req.Category,
		Address:             req.Address,
		DefaultPaymentTerms: req.DefaultPaymentTerms,
	})
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToVendorResponse(output.Vendor))
}

// Update handles PATCH /vendors/:id requests.
func (c *VendorController) Update(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid vendor ID format")
		return
	}

	var req dto.UpdateVendorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), vendor.UpdateVendorInput{
		ID:                  id,
		Name:                req.Name,
		Category:            req.Category,
		Address:             req.Address,
		DefaultPaymentTerms: req.DefaultPaymentTerms,
	})
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToVendorResponse(output.Vendor))
}

// Resolve handles POST /vendors/resolve requests. An unknown name is a 200 with valid=false.
func (c *VendorController) Resolve(ctx *gin.Context) {
	var req dto.ResolveVendorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	match, err := c.engine.ResolveVendor(ctx.Request.Context(), req.VendorName)
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToVendorMatchResponse(match))
}
