package controller

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/application/usecase/invoice"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/dto"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/middleware"
)

const (
	defaultUploadLimit = 10 << 20
	defaultListLimit   = 50
	maxListLimit       = 200
)

// InvoiceController handles document ingestion and the review workbench.
type InvoiceController struct {
	ingestUseCase     *invoice.IngestDocumentUseCase
	getUseCase        *invoice.GetInvoiceUseCase
	listUseCase       *invoice.ListInvoicesUseCase
	revalidateUseCase *invoice.RevalidateInvoiceUseCase
	approveUseCase    *invoice.ApproveInvoiceUseCase
	rejectUseCase     *invoice.RejectInvoiceUseCase
	markPaidUseCase   *invoice.MarkPaidUseCase
	exportUseCase     *invoice.ExportBillUseCase
	maxUploadBytes    int64
}

// NewInvoiceController creates a new invoice controller instance.
func NewInvoiceController(
	ingestUseCase *invoice.IngestDocumentUseCase,
	getUseCase *invoice.GetInvoiceUseCase,
	listUseCase *invoice.ListInvoicesUseCase,
	revalidateUseCase *invoice.RevalidateInvoiceUseCase,
	approveUseCase *invoice.ApproveInvoiceUseCase,
	rejectUseCase *invoice.RejectInvoiceUseCase,
	markPaidUseCase *invoice.MarkPaidUseCase,
	exportUseCase *invoice.ExportBillUseCase,
	maxUploadBytes int64,
) *InvoiceController {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultUploadLimit
	}
	return &InvoiceController{
		ingestUseCase:     ingestUseCase,
		getUseCase:        getUseCase,
		listUseCase:       listUseCase,
		revalidateUseCase: revalidateUseCase,
		approveUseCase:    approveUseCase,
		rejectUseCase:     rejectUseCase,
		markPaidUseCase:   markPaidUseCase,
		exportUseCase:     exportUseCase,
		maxUploadBytes:    maxUploadBytes,
	}
}

// Ingest handles POST /invoices/ingest multipart uploads. The document goes in the "file" field.
func (c *InvoiceController) Ingest(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
				Error: "Document exceeds the upload limit",
				Code:  string(domainerror.ErrCodeUnsupportedDocument),
			})
			return
		}
		badRequest(ctx, "A document is required in the file field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(ctx, "Document could not be read")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		badRequest(ctx, "Document could not be read")
		return
	}

	output, err := c.ingestUseCase.Execute(ctx.Request.Context(), invoice.IngestDocumentInput{
		Document: adapter.Document{
			Filename: fileHeader.Filename,
			MIMEType: detectMIME(fileHeader.Header.Get("Content-Type"), fileHeader.Filename, content),
			Content:  content,
		},
	})
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToIngestResponse(output))
}

// List handles GET /invoices requests. Supports ?status=, ?limit= and ?offset=.
func (c *InvoiceController) List(ctx *gin.Context) {
	input := invoice.ListInvoicesInput{Limit: defaultListLimit}

	if status := ctx.Query("status"); status != "" {
		input.Status = &status
	}
	if limitStr := ctx.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > maxListLimit {
			badRequest(ctx, "limit must be between 1 and 200")
			return
		}
		input.Limit = limit
	}
	if offsetStr := ctx.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			badRequest(ctx, "offset must not be negative")
			return
		}
		input.Offset = offset
	}

	result, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceListResponse(result))
}

// Get handles GET /invoices/:id requests.
func (c *InvoiceController) Get(ctx *gin.Context) {
	id, ok := invoiceID(ctx)
	if !ok {
		return
	}

	inv, err := c.getUseCase.Execute(ctx.Request.Context(), id)
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// Revalidate handles POST /invoices/:id/revalidate requests.
func (c *InvoiceController) Revalidate(ctx *gin.Context) {
	id, ok := invoiceID(ctx)
	if !ok {
		return
	}

	var req dto.RevalidateInvoiceRequest
	if err := bindOptionalJSON(ctx, &req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	reviewerID, _ := middleware.GetReviewerIDFromContext(ctx)
	output, err := c.revalidateUseCase.Execute(ctx.Request.Context(), invoice.RevalidateInvoiceInput{
		ID:            id,
		ReviewerID:    reviewerID,
		VendorName:    req.VendorName,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		PONumber:      req.PONumber,
		PaymentTerms:  req.PaymentTerms,
		TotalAmount:   req.TotalAmount,
		Notes:         req.Notes,
	})
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRevalidateResponse(output))
}

// Approve handles POST /invoices/:id/approve requests.
func (c *InvoiceController) Approve(ctx *gin.Context) {
	input, ok := decideInput(ctx)
	if !ok {
		return
	}

	inv, err := c.approveUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// Reject handles POST /invoices/:id/reject requests.
func (c *InvoiceController) Reject(ctx *gin.Context) {
	input, ok := decideInput(ctx)
	if !ok {
		return
	}

	inv, err := c.rejectUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// Pay handles POST /invoices/:id/pay requests.
func (c *InvoiceController) Pay(ctx *gin.Context) {
	id, ok := invoiceID(ctx)
	if !ok {
		return
	}

	inv, err := c.markPaidUseCase.Execute(ctx.Request.Context(), id)
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// Export handles POST /invoices/:id/export requests.
func (c *InvoiceController) Export(ctx *gin.Context) {
	id, ok := invoiceID(ctx)
	if !ok {
		return
	}

	output, err := c.exportUseCase.Execute(ctx.Request.Context(), id)
	if err != nil {
		handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExportBillResponse(output.Invoice, output.Bill))
}

func invoiceID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid invoice ID format")
		return uuid.Nil, false
	}
	return id, true
}

func decideInput(ctx *gin.Context) (invoice.DecideInvoiceInput, bool) {
	id, ok := invoiceID(ctx)
	if !ok {
		return invoice.DecideInvoiceInput{}, false
	}

	var req dto.DecideInvoiceRequest
	if err := bindOptionalJSON(ctx, &req); err != nil {
		badRequest(ctx, "Invalid request body")
		return invoice.DecideInvoiceInput{}, false
	}

	reviewerID, _ := middleware.GetReviewerIDFromContext(ctx)
	return invoice.DecideInvoiceInput{
		ID:         id,
		ReviewerID: reviewerID,
		Notes:      req.Notes,
	}, true
}

// bindOptionalJSON binds the body when one was sent.
func bindOptionalJSON(ctx *gin.Context, obj any) error {
	err := ctx.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// detectMIME trusts the part's declared type unless it is missing or generic.
func detectMIME(declared, filename string, content []byte) string {
	declared = strings.TrimSpace(strings.Split(declared, ";")[0])
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	}
	return strings.Split(http.DetectContentType(content), ";")[0]
}
