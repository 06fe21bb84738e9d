package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/application/usecase/reconciliation"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// RevalidateInvoiceInput carries reviewer corrections. Nil fields are left unchanged.
type RevalidateInvoiceInput struct {
	ID            uuid.UUID
	ReviewerID    uuid.UUID
	VendorName    *string
	InvoiceNumber *string
	InvoiceDate   *string
	PONumber      *string
	PaymentTerms  *string
	TotalAmount   *decimal.Decimal
	Notes         *string
}

// RevalidateInvoiceOutput is the corrected invoice and its new match.
type RevalidateInvoiceOutput struct {
	Invoice        *entity.Invoice
	Reconciliation *reconciliation.ReconcileInvoiceOutput
}

// RevalidateInvoiceUseCase applies corrections and re-runs matching and optimization.
type RevalidateInvoiceUseCase struct {
	invoiceRepo adapter.InvoiceRepository
	engine      *reconciliation.Engine
}

// NewRevalidateInvoiceUseCase creates a new RevalidateInvoiceUseCase instance.
func NewRevalidateInvoiceUseCase(invoiceRepo adapter.InvoiceRepository, engine *reconciliation.Engine) *RevalidateInvoiceUseCase {
	return &RevalidateInvoiceUseCase{
		invoiceRepo: invoiceRepo,
		engine:      engine,
	}
}

// Execute revalidates the invoice. A valid match approves it; otherwise it stays flagged.
func (uc *RevalidateInvoiceUseCase) Execute(ctx context.Context, input RevalidateInvoiceInput) (*RevalidateInvoiceOutput, error) {
	if input.InvoiceDate != nil && *input.InvoiceDate != "" && !valueobject.IsValidDate(*input.InvoiceDate) {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidInvoiceDate,
			fmt.Sprintf("invalid invoice date %q, use YYYY-MM-DD", *input.InvoiceDate),
			domainerror.ErrInvalidInvoiceDate,
		)
	}
	if input.TotalAmount != nil && input.TotalAmount.IsNegative() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidAmount,
			"total_amount must not be negative",
			domainerror.ErrInvalidAmount,
		)
	}

	inv, err := findInvoice(ctx, uc.invoiceRepo, input.ID)
	if err != nil {
		return nil, err
	}
	if !inv.CanPerform(entity.ActionRevalidate) {
		return nil, transitionError(inv, entity.ActionRevalidate)
	}

	if input.VendorName != nil {
		inv.VendorName = strings.TrimSpace(*input.VendorName)
	}
	if input.InvoiceNumber != nil {
		inv.InvoiceNumber = optional(strings.TrimSpace(*input.InvoiceNumber))
	}
	if input.InvoiceDate != nil {
		inv.InvoiceDate = optional(strings.TrimSpace(*input.InvoiceDate))
	}
	if input.PONumber != nil {
		inv.PONumber = optional(strings.TrimSpace(*input.PONumber))
	}
	if input.PaymentTerms != nil {
		inv.PaymentTerms = optional(strings.TrimSpace(*input.PaymentTerms))
	}
	if input.TotalAmount != nil {
		inv.TotalAmount = *input.TotalAmount
	}

	rec, err := reconciliation.NewReconcileInvoiceUseCase(uc.engine).Execute(ctx, reconciliation.ReconcileInvoiceInput{
		VendorName:   inv.VendorName,
		PONumber:     deref(inv.PONumber),
		Amount:       inv.TotalAmount,
		PaymentTerms: deref(inv.PaymentTerms),
		InvoiceDate:  deref(inv.InvoiceDate),
	})
	if err != nil {
		return nil, err
	}
	applyReconciliation(inv, rec)

	// A reviewer looked at the fields, so low extraction confidence no longer applies.
	inv.Anomalies = mergeAnomalies(inv.Anomalies, nil, deriveAnomalies(inv, rec, false, nil))
	for i := range inv.Anomalies {
		inv.Anomalies[i].InvoiceID = inv.ID
	}

	valid := rec.Valid()
	if valid {
		inv.Status = entity.InvoiceStatusApproved
		reviewer := input.ReviewerID
		inv.ReviewerID = &reviewer
	} else {
		inv.Status = entity.InvoiceStatusFlagged
	}
	if input.Notes != nil {
		inv.ReviewNotes = optional(strings.TrimSpace(*input.Notes))
	}
	inv.ApprovalRoute = approvalRoute(inv, valid)
	inv.UpdatedAt = now()

	if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	slog.Info("Invoice revalidated",
		"invoice_id", inv.ID,
		"reviewer_id", input.ReviewerID,
		"match_type", inv.MatchType,
		"status", inv.Status,
	)

	return &RevalidateInvoiceOutput{
		Invoice:        inv,
		Reconciliation: rec,
	}, nil
}

// DecideInvoiceInput represents a reviewer's approve or reject decision.
type DecideInvoiceInput struct {
	ID         uuid.UUID
	ReviewerID uuid.UUID
	Notes      *string
}

// ApproveInvoiceUseCase force-approves an invoice regardless of its match.
type ApproveInvoiceUseCase struct {
	invoiceRepo adapter.InvoiceRepository
}

// NewApproveInvoiceUseCase creates a new ApproveInvoiceUseCase instance.
func NewApproveInvoiceUseCase(invoiceRepo adapter.InvoiceRepository) *ApproveInvoiceUseCase {
	return &ApproveInvoiceUseCase{
		invoiceRepo: invoiceRepo,
	}
}

// Execute approves the invoice.
func (uc *ApproveInvoiceUseCase) Execute(ctx context.Context, input DecideInvoiceInput) (*entity.Invoice, error) {
	return decide(ctx, uc.invoiceRepo, input, entity.ActionApprove, entity.InvoiceStatusApproved)
}

// RejectInvoiceUseCase rejects an invoice.
type RejectInvoiceUseCase struct {
	invoiceRepo adapter.InvoiceRepository
}

// NewRejectInvoiceUseCase creates a new RejectInvoiceUseCase instance.
func NewRejectInvoiceUseCase(invoiceRepo adapter.InvoiceRepository) *RejectInvoiceUseCase {
	return &RejectInvoiceUseCase{
		invoiceRepo: invoiceRepo,
	}
}

// Execute rejects the invoice.
func (uc *RejectInvoiceUseCase) Execute(ctx context.Context, input DecideInvoiceInput) (*entity.Invoice, error) {
	return decide(ctx, uc.invoiceRepo, input, entity.ActionReject, entity.InvoiceStatusRejected)
}

func decide(ctx context.Context, repo adapter.InvoiceRepository, input DecideInvoiceInput, action entity.InvoiceAction, status entity.InvoiceStatus) (*entity.Invoice, error) {
	inv, err := findInvoice(ctx, repo, input.ID)
	if err != nil {
		return nil, err
	}
	if !inv.CanPerform(action) {
		return nil, transitionError(inv, action)
	}

	reviewer := input.ReviewerID
	inv.Status = status
	inv.ReviewerID = &reviewer
	if input.Notes != nil {
		inv.ReviewNotes = optional(strings.TrimSpace(*input.Notes))
	}
	inv.UpdatedAt = now()

	if err := repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	slog.Info("Invoice reviewed", "invoice_id", inv.ID, "reviewer_id", reviewer, "status", status)
	return inv, nil
}
