package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/dto"
)

// handleReconciliationError handles reconciliation errors and returns appropriate HTTP responses.
// It serves every controller outside authentication.
func handleReconciliationError(ctx *gin.Context, err error) {
	var dupErr *domainerror.DuplicateDocumentError
	if errors.As(err, &dupErr) {
		ctx.JSON(http.StatusConflict, dto.DuplicateDocumentResponse{
			Error:             err.Error(),
			Code:              string(domainerror.ErrCodeDuplicateDocument),
			ExistingInvoiceID: dupErr.ExistingInvoiceID,
		})
		return
	}

	var recErr *domainerror.ReconciliationError
	if errors.As(err, &recErr) {
		statusCode := getStatusCodeForReconciliationError(recErr.Code)
		if statusCode >= http.StatusInternalServerError {
			slog.ErrorContext(ctx.Request.Context(), "Request failed",
				"path", ctx.FullPath(),
				"code", recErr.Code,
				"error", err,
			)
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: recErr.Message,
			Code:  string(recErr.Code),
		})
		return
	}

	if domainerror.IsStoreUnavailable(err) {
		slog.ErrorContext(ctx.Request.Context(), "Entity store unavailable", "path", ctx.FullPath(), "error", err)
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "Entity store unavailable",
			Code:  string(domainerror.ErrCodeStoreUnavailable),
		})
		return
	}

	slog.ErrorContext(ctx.Request.Context(), "Unhandled error", "path", ctx.FullPath(), "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForReconciliationError maps reconciliation error codes to HTTP status codes.
func getStatusCodeForReconciliationError(code domainerror.ReconciliationErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidInvoiceDate,
		domainerror.ErrCodeInvalidAmount,
		domainerror.ErrCodeInvalidTolerance,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeInvalidStatus:
		return http.StatusBadRequest
	case domainerror.ErrCodeUnsupportedDocument:
		return http.StatusUnsupportedMediaType
	case domainerror.ErrCodeVendorNotFound,
		domainerror.ErrCodePurchaseOrderNotFound,
		domainerror.ErrCodeInvoiceNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeVendorExists,
		domainerror.ErrCodePurchaseOrderExists,
		domainerror.ErrCodeGoodsReceiptExists,
		domainerror.ErrCodeInvalidTransition,
		domainerror.ErrCodeDuplicateDocument:
		return http.StatusConflict
	case domainerror.ErrCodeStoreUnavailable,
		domainerror.ErrCodeExtractionUnavailable,
		domainerror.ErrCodeAccountingNotConnected:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeExtractionFailed,
		domainerror.ErrCodeAccountingExportFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: message,
		Code:  string(domainerror.ErrCodeMissingFields),
	})
}
