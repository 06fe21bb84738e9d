// Package invoice contains invoice ingestion and review workbench use cases.
package invoice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/application/usecase/reconciliation"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// IngestDocumentInput represents an uploaded invoice document.
type IngestDocumentInput struct {
	Document adapter.Document
}

// IngestDocumentOutput represents the stored invoice and how it was reconciled.
type IngestDocumentOutput struct {
	Invoice        *entity.Invoice
	Reconciliation *reconciliation.ReconcileInvoiceOutput
	Provider       string
	ToolCalls      int
	Resolutions    []string
}

// IngestDocumentUseCase extracts, reconciles and stores one invoice document.
type IngestDocumentUseCase struct {
	invoiceRepo  adapter.InvoiceRepository
	engine       *reconciliation.Engine
	extractor    adapter.DocumentExtractor
	preprocessor adapter.ImagePreprocessor
	dedup        adapter.DocumentDeduplicator
	emailService adapter.EmailService
}

// NewIngestDocumentUseCase creates a new IngestDocumentUseCase instance.
// preprocessor, dedup and emailService may be nil.
func NewIngestDocumentUseCase(
	invoiceRepo adapter.InvoiceRepository,
	engine *reconciliation.Engine,
	extractor adapter.DocumentExtractor,
	preprocessor adapter.ImagePreprocessor,
	dedup adapter.DocumentDeduplicator,
	emailService adapter.EmailService,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		invoiceRepo:  invoiceRepo,
		engine:       engine,
		extractor:    extractor,
		preprocessor: preprocessor,
		dedup:        dedup,
		emailService: emailService,
	}
}

// Execute ingests the document. The engine's own match is authoritative;
// the agent's tool calls only contribute flagged anomalies.
func (uc *IngestDocumentUseCase) Execute(ctx context.Context, input IngestDocumentInput) (out *IngestDocumentOutput, err error) {
	doc := input.Document
	if len(doc.Content) == 0 || !supportedMIME(doc.MIMEType) {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeUnsupportedDocument,
			fmt.Sprintf("unsupported document type %q", doc.MIMEType),
			domainerror.ErrUnsupportedDocument,
		)
	}
	if uc.extractor == nil || !uc.extractor.IsAvailable() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeExtractionUnavailable,
			"no document extraction provider is configured",
			domainerror.ErrExtractionUnavailable,
		)
	}

	sum := sha256.Sum256(doc.Content)
	hash := hex.EncodeToString(sum[:])
	logger := slog.With("document_hash", hash, "filename", doc.Filename)

	keepClaim := false
	if uc.dedup != nil {
		claimed, existingID, claimErr := uc.dedup.Claim(ctx, hash)
		if claimErr != nil {
			return nil, fmt.Errorf("failed to claim document: %w", claimErr)
		}
		if !claimed {
			return nil, duplicateError(existingID)
		}
		defer func() {
			if err == nil || keepClaim {
				return
			}
			if releaseErr := uc.dedup.Release(context.WithoutCancel(ctx), hash); releaseErr != nil {
				logger.Warn("Failed to release document claim", "error", releaseErr)
			}
		}()
	}

	existing, err := uc.invoiceRepo.FindByDocumentHash(ctx, hash)
	if err != nil && !errors.Is(err, domainerror.ErrInvoiceNotFound) {
		return nil, fmt.Errorf("failed to check document hash: %w", err)
	}
	if existing != nil {
		if uc.dedup != nil {
			// The claim outlived its binding; rebind it instead of releasing.
			if bindErr := uc.dedup.Bind(ctx, hash, existing.ID.String()); bindErr != nil {
				logger.Warn("Failed to bind document claim", "error", bindErr)
			}
			keepClaim = true
		}
		return nil, duplicateError(existing.ID.String())
	}

	if uc.preprocessor != nil && doc.IsImage() {
		prepared, err := uc.preprocessor.Prepare(doc)
		if err != nil {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeUnsupportedDocument,
				"image could not be decoded",
				errors.Join(domainerror.ErrUnsupportedDocument, err),
			)
		}
		doc = prepared
	}

	tools := NewAgentTools(uc.engine)
	extraction, err := uc.extractor.Extract(ctx, doc, tools)
	if err != nil {
		if domainerror.IsStoreUnavailable(err) {
			return nil, err
		}
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeExtractionFailed,
			fmt.Sprintf("%s extraction failed", uc.extractor.Name()),
			errors.Join(domainerror.ErrExtractionFailed, err),
		)
	}

	extracted := valueobject.NormalizeExtraction(extraction.Fields)
	amount := decimal.Zero
	if extracted.TotalAmount != nil {
		amount = *extracted.TotalAmount
	}

	rec, err := reconciliation.NewReconcileInvoiceUseCase(uc.engine).Execute(ctx, reconciliation.ReconcileInvoiceInput{
		VendorName:   extracted.VendorName,
		PONumber:     extracted.PONumber,
		Amount:       amount,
		PaymentTerms: extracted.PaymentTerms,
		InvoiceDate:  extracted.InvoiceDate,
	})
	if err != nil {
		return nil, err
	}

	inv := entity.NewInvoice(extracted.VendorName, amount, entity.InvoiceStatusFlagged)
	inv.InvoiceNumber = optional(extracted.InvoiceNumber)
	inv.PONumber = optional(extracted.PONumber)
	inv.PaymentTerms = optional(extracted.PaymentTerms)
	if valueobject.IsValidDate(extracted.InvoiceDate) {
		date := extracted.InvoiceDate
		inv.InvoiceDate = &date
	}
	inv.DocumentHash = &hash
	inv.SourceFilename = optional(doc.Filename)
	inv.Lines = buildLines(inv, extracted.LineItems)
	applyReconciliation(inv, rec)

	var lowConfidence *float64
	if c, ok := extracted.MinKeyConfidence(); ok {
		inv.ExtractionConfidence = &c
		if decimal.NewFromFloat(c).LessThan(uc.engine.Config().ReviewConfidence) {
			lowConfidence = &c
		}
	}

	inv.Anomalies = mergeAnomalies(nil, tools.Anomalies(),
		deriveAnomalies(inv, rec, extracted.TotalAmount == nil, lowConfidence))
	for i := range inv.Anomalies {
		inv.Anomalies[i].InvoiceID = inv.ID
	}

	valid := rec.Valid() && !hasCritical(inv.Anomalies)
	switch {
	case !valid:
		inv.Status = entity.InvoiceStatusFlagged
	case lowConfidence != nil:
		inv.Status = entity.InvoiceStatusReview
	default:
		inv.Status = entity.InvoiceStatusProcessed
	}
	inv.ApprovalRoute = approvalRoute(inv, valid)

	raw, err := json.Marshal(extraction.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extraction payload: %w", err)
	}
	inv.RawExtraction = raw

	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	if uc.dedup != nil {
		if err := uc.dedup.Bind(ctx, hash, inv.ID.String()); err != nil {
			logger.Warn("Failed to bind document claim", "invoice_id", inv.ID, "error", err)
		}
	}

	logger.Info("Invoice ingested",
		"invoice_id", inv.ID,
		"provider", extraction.Provider,
		"status", inv.Status,
		"match_type", inv.MatchType,
		"anomalies", len(inv.Anomalies),
	)

	notify(ctx, uc.emailService, inv)

	return &IngestDocumentOutput{
		Invoice:        inv,
		Reconciliation: rec,
		Provider:       extraction.Provider,
		ToolCalls:      len(extraction.ToolCalls),
		Resolutions:    tools.Resolutions(),
	}, nil
}

func supportedMIME(mime string) bool {
	switch {
	case strings.HasPrefix(mime, "image/"), strings.HasPrefix(mime, "text/"):
		return true
	case mime == "application/pdf":
		return true
	}
	return false
}

func duplicateError(existingID string) error {
	msg := "document is already being ingested"
	if existingID != "" {
		msg = fmt.Sprintf("document already ingested as invoice %s", existingID)
	}
	return domainerror.NewReconciliationError(
		domainerror.ErrCodeDuplicateDocument,
		msg,
		&domainerror.DuplicateDocumentError{ExistingInvoiceID: existingID},
	)
}

func buildLines(inv *entity.Invoice, items []valueobject.ExtractedLineItem) []entity.InvoiceLine {
	lines := make([]entity.InvoiceLine, 0, len(items))
	for i, item := range items {
		line := entity.NewInvoiceLine(inv.ID, i+1)
		line.Description = item.Description
		line.Quantity = item.Quantity
		line.UnitPrice = item.UnitPrice
		line.LineTotal = item.Total
		lines = append(lines, line)
	}
	return lines
}

// notify queues reviewer emails. Failures are logged and never fail the caller.
func notify(ctx context.Context, emailService adapter.EmailService, inv *entity.Invoice) {
	if emailService == nil {
		return
	}

	if inv.Status == entity.InvoiceStatusFlagged || inv.Status == entity.InvoiceStatusReview {
		anomalies := make([]string, 0, len(inv.Anomalies))
		for _, a := range inv.Anomalies {
			anomalies = append(anomalies, fmt.Sprintf("[%s] %s: %s", a.Severity, a.Type, a.Description))
		}
		if err := emailService.QueueInvoiceFlagged(ctx, adapter.InvoiceFlaggedNotice{
			InvoiceID:     inv.ID.String(),
			InvoiceNumber: deref(inv.InvoiceNumber),
			VendorName:    inv.VendorName,
			TotalAmount:   inv.TotalAmount.StringFixed(2),
			Status:        string(inv.Status),
			MatchType:     inv.MatchType,
			MatchMessage:  inv.MatchMessage,
			Anomalies:     anomalies,
		}); err != nil {
			slog.Error("Failed to queue flagged invoice email", "invoice_id", inv.ID, "error", err)
		}
	}

	if inv.DiscountCaptured && inv.DiscountDate != nil && inv.IsOutstanding() {
		if err := emailService.QueueDiscountOpportunity(ctx, adapter.DiscountOpportunityNotice{
			InvoiceID:        inv.ID.String(),
			InvoiceNumber:    deref(inv.InvoiceNumber),
			VendorName:       inv.VendorName,
			TotalAmount:      inv.TotalAmount.StringFixed(2),
			DiscountDate:     *inv.DiscountDate,
			PotentialSavings: inv.PotentialSavings.StringFixed(2),
			Reasoning:        fmt.Sprintf("Pay by %s to save $%s.", *inv.DiscountDate, inv.PotentialSavings.StringFixed(2)),
		}); err != nil {
			slog.Error("Failed to queue discount email", "invoice_id", inv.ID, "error", err)
		}
	}
}

func now() time.Time {
	return time.Now().UTC()
}
