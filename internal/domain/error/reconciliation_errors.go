// Package error defines domain-specific errors for the AP reconciliation service.
package error

import "errors"

// Reconciliation domain errors.
var (
	// ErrStoreUnavailable is returned when the entity store cannot answer a query.
	// It is never used for a record that simply does not exist.
	ErrStoreUnavailable = errors.New("entity store unavailable")

	// ErrInvalidInvoiceDate is returned when an invoice date is not YYYY-MM-DD.
	ErrInvalidInvoiceDate = errors.New("invoice date must be formatted YYYY-MM-DD")

	// ErrInvalidAmount is returned when a monetary amount is negative or malformed.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidTolerance is returned when a PO tolerance is outside [0, 1].
	ErrInvalidTolerance = errors.New("tolerance must be between 0 and 1")

	// ErrVendorNotFound is returned when a vendor id does not exist.
	ErrVendorNotFound = errors.New("vendor not found")

	// ErrVendorAlreadyExists is returned when a vendor external id or name is taken.
	ErrVendorAlreadyExists = errors.New("vendor already exists")

	// ErrPurchaseOrderNotFound is returned when a PO number does not exist.
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")

	// ErrPurchaseOrderAlreadyExists is returned when a PO number is taken.
	ErrPurchaseOrderAlreadyExists = errors.New("purchase order already exists")

	// ErrGoodsReceiptAlreadyExists is returned when a receipt number is taken.
	ErrGoodsReceiptAlreadyExists = errors.New("goods receipt already exists")

	// ErrInvoiceNotFound is returned when an invoice id does not exist.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInvalidStatusTransition is returned when an invoice cannot move to the requested status.
	ErrInvalidStatusTransition = errors.New("invalid invoice status transition")

	// ErrDuplicateDocument is returned when the same document bytes were already ingested.
	ErrDuplicateDocument = errors.New("document already ingested")

	// ErrUnsupportedDocument is returned for empty uploads or unsupported MIME types.
	ErrUnsupportedDocument = errors.New("unsupported document")

	// ErrExtractionFailed is returned when the document understanding service fails.
	ErrExtractionFailed = errors.New("document extraction failed")

	// ErrExtractionUnavailable is returned when no extraction provider is configured.
	ErrExtractionUnavailable = errors.New("document extraction is not configured")

	// ErrAccountingNotConnected is returned when the accounting integration has no credentials.
	ErrAccountingNotConnected = errors.New("accounting integration not connected")

	// ErrAccountingExportFailed is returned when the accounting system rejects a bill.
	ErrAccountingExportFailed = errors.New("accounting export failed")
)

// ReconciliationErrorCode defines error codes for reconciliation errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type ReconciliationErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidInvoiceDate   ReconciliationErrorCode = "REC-010001"
	ErrCodeInvalidAmount        ReconciliationErrorCode = "REC-010002"
	ErrCodeInvalidTolerance     ReconciliationErrorCode = "REC-010003"
	ErrCodeMissingFields        ReconciliationErrorCode = "REC-010004"
	ErrCodeUnsupportedDocument  ReconciliationErrorCode = "REC-010005"
	ErrCodeInvalidStatus        ReconciliationErrorCode = "REC-010006"

	// Lookup and conflict errors (02XXXX)
	ErrCodeVendorNotFound        ReconciliationErrorCode = "REC-020001"
	ErrCodeVendorExists          ReconciliationErrorCode = "REC-020002"
	ErrCodePurchaseOrderNotFound ReconciliationErrorCode = "REC-020003"
	ErrCodePurchaseOrderExists   ReconciliationErrorCode = "REC-020004"
	ErrCodeGoodsReceiptExists    ReconciliationErrorCode = "REC-020005"
	ErrCodeInvoiceNotFound       ReconciliationErrorCode = "REC-020006"
	ErrCodeInvalidTransition     ReconciliationErrorCode = "REC-020007"
	ErrCodeDuplicateDocument     ReconciliationErrorCode = "REC-020008"

	// Infrastructure errors (03XXXX)
	ErrCodeStoreUnavailable       ReconciliationErrorCode = "REC-030001"
	ErrCodeExtractionFailed       ReconciliationErrorCode = "REC-030002"
	ErrCodeExtractionUnavailable  ReconciliationErrorCode = "REC-030003"
	ErrCodeAccountingNotConnected ReconciliationErrorCode = "REC-030004"
	ErrCodeAccountingExportFailed ReconciliationErrorCode = "REC-030005"
)

// ReconciliationError represents a reconciliation error with code and message.
type ReconciliationError struct {
	Code    ReconciliationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// NewReconciliationError creates a new ReconciliationError with the given code and message.
func NewReconciliationError(code ReconciliationErrorCode, message string, err error) *ReconciliationError {
	return &ReconciliationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewStoreError wraps a storage failure so callers can tell it apart from a lookup miss.
func NewStoreError(operation string, err error) *ReconciliationError {
	return &ReconciliationError{
		Code:    ErrCodeStoreUnavailable,
		Message: "failed to " + operation,
		Err:     errors.Join(ErrStoreUnavailable, err),
	}
}

// IsStoreUnavailable reports whether err came from a storage failure.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// DuplicateDocumentError carries the invoice already created for a duplicate upload.
// ExistingInvoiceID is empty while the first ingestion is still in flight.
type DuplicateDocumentError struct {
	ExistingInvoiceID string
}

// Error implements the error interface.
func (e *DuplicateDocumentError) Error() string {
	if e.ExistingInvoiceID == "" {
		return ErrDuplicateDocument.Error()
	}
	return ErrDuplicateDocument.Error() + " as invoice " + e.ExistingInvoiceID
}

// Is makes errors.Is(err, ErrDuplicateDocument) hold.
func (e *DuplicateDocumentError) Is(target error) bool {
	return target == ErrDuplicateDocument
}
