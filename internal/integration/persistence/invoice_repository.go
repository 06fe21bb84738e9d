package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/persistence/model"
)

// invoiceUpdateColumns are rewritten by Update. raw_extraction, document_hash and
// created_at are set once at ingestion.
var invoiceUpdateColumns = []string{
	"vendor_id", "vendor_name", "invoice_number", "invoice_date", "po_number",
	"total_amount", "status", "payment_terms", "due_date", "discount_date",
	"optimal_payment_date", "potential_savings", "discount_captured", "match_type",
	"match_message", "approval_route", "extraction_confidence", "reviewer_id",
	"review_notes", "external_bill_id", "paid_at", "updated_at",
}

// invoiceRepository implements the adapter.InvoiceRepository interface.
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository instance.
func NewInvoiceRepository(db *gorm.DB) adapter.InvoiceRepository {
	return &invoiceRepository{
		db: db,
	}
}

// Create stores the invoice, its lines and anomalies in one transaction.
func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines", "Anomalies").Create(model.InvoiceModelFromEntity(invoice)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domainerror.ErrDuplicateDocument
			}
			return err
		}

		if len(invoice.Lines) > 0 {
			lines := make([]model.InvoiceLineModel, len(invoice.Lines))
			for i, l := range invoice.Lines {
				l.InvoiceID = invoice.ID
				lines[i] = model.InvoiceLineModelFromEntity(l)
			}
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}

		return createAnomalies(tx, invoice)
	})
}

// FindByID retrieves an invoice with lines and anomalies.
func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoiceModel model.InvoiceModel
	result := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Anomalies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&invoiceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrInvoiceNotFound
		}
		return nil, result.Error
	}
	return invoiceModel.ToEntity(), nil
}

// FindByDocumentHash retrieves the invoice ingested from a document.
func (r *invoiceRepository) FindByDocumentHash(ctx context.Context, hash string) (*entity.Invoice, error) {
	var invoiceModel model.InvoiceModel
	result := r.db.WithContext(ctx).Where("document_hash = ?", hash).First(&invoiceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrInvoiceNotFound
		}
		return nil, result.Error
	}
	return invoiceModel.ToEntity(), nil
}

// List retrieves a page of invoices newest first, with anomalies.
func (r *invoiceRepository) List(ctx context.Context, filter entity.InvoiceFilter) (*entity.InvoiceListResult, error) {
	query := r.db.WithContext(ctx).Model(&model.InvoiceModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var models []model.InvoiceModel
	if err := query.
		Preload("Anomalies").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&models).Error; err != nil {
		return nil, err
	}

	invoices := make([]*entity.Invoice, len(models))
	for i := range models {
		invoices[i] = models[i].ToEntity()
	}
	return &entity.InvoiceListResult{
		Invoices: invoices,
		Total:    total,
	}, nil
}

// ListAll retrieves every invoice without lines or anomalies.
func (r *invoiceRepository) ListAll(ctx context.Context) ([]*entity.Invoice, error) {
	var models []model.InvoiceModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	invoices := make([]*entity.Invoice, len(models))
	for i := range models {
		invoices[i] = models[i].ToEntity()
	}
	return invoices, nil
}

// Update saves invoice fields and replaces its anomalies.
func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.InvoiceModel{ID: invoice.ID}).
			Select(invoiceUpdateColumns).
			Updates(model.InvoiceModelFromEntity(invoice))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrInvoiceNotFound
		}

		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&model.AnomalyModel{}).Error; err != nil {
			return err
		}
		return createAnomalies(tx, invoice)
	})
}

func createAnomalies(tx *gorm.DB, invoice *entity.Invoice) error {
	if len(invoice.Anomalies) == 0 {
		return nil
	}
	anomalies := make([]model.AnomalyModel, len(invoice.Anomalies))
	for i, a := range invoice.Anomalies {
		a.InvoiceID = invoice.ID
		anomalies[i] = model.AnomalyModelFromEntity(a)
	}
	return tx.Create(&anomalies).Error
}
