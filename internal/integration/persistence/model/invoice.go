package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// InvoiceModel represents the invoices table in the database.
type InvoiceModel struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendorID             *uuid.UUID      `gorm:"type:uuid;index"`
	VendorName           string          `gorm:"type:varchar(255)"`
	InvoiceNumber        *string         `gorm:"type:varchar(100);index"`
	InvoiceDate          *string         `gorm:"type:varchar(10)"`
	PONumber             *string         `gorm:"column:po_number;type:varchar(50)"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status               string          `gorm:"type:varchar(20);not null;index"`
	PaymentTerms         *string         `gorm:"type:varchar(100)"`
	DueDate              *string         `gorm:"type:varchar(10)"`
	DiscountDate         *string         `gorm:"type:varchar(10)"`
	OptimalPaymentDate   *string         `gorm:"type:varchar(10)"`
	PotentialSavings     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DiscountCaptured     bool            `gorm:"default:false"`
	MatchType            string          `gorm:"type:varchar(30)"`
	MatchMessage         string          `gorm:"type:text"`
	ApprovalRoute        string          `gorm:"type:varchar(30)"`
	ExtractionConfidence *float64
	RawExtraction        datatypes.JSON `gorm:"->;<-:create"`
	DocumentHash         *string        `gorm:"type:varchar(64);uniqueIndex"`
	SourceFilename       *string        `gorm:"type:varchar(255)"`
	ReviewerID           *uuid.UUID     `gorm:"type:uuid"`
	ReviewNotes          *string        `gorm:"type:text"`
	ExternalBillID       *string        `gorm:"type:varchar(100)"`
	PaidAt               *time.Time
	CreatedAt            time.Time `gorm:"not null;index"`
	UpdatedAt            time.Time `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Lines     []InvoiceLineModel `gorm:"foreignKey:InvoiceID"`
	Anomalies []AnomalyModel     `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for the InvoiceModel.
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToEntity converts an InvoiceModel to a domain Invoice entity.
func (m *InvoiceModel) ToEntity() *entity.Invoice {
	inv := &entity.Invoice{
		ID:                   m.ID,
		VendorID:             m.VendorID,
		VendorName:           m.VendorName,
		InvoiceNumber:        m.InvoiceNumber,
		InvoiceDate:          m.InvoiceDate,
		PONumber:             m.PONumber,
		TotalAmount:          m.TotalAmount,
		Status:               entity.InvoiceStatus(m.Status),
		PaymentTerms:         m.PaymentTerms,
		DueDate:              m.DueDate,
		DiscountDate:         m.DiscountDate,
		OptimalPaymentDate:   m.OptimalPaymentDate,
		PotentialSavings:     m.PotentialSavings,
		DiscountCaptured:     m.DiscountCaptured,
		MatchType:            m.MatchType,
		MatchMessage:         m.MatchMessage,
		ApprovalRoute:        m.ApprovalRoute,
		ExtractionConfidence: m.ExtractionConfidence,
		RawExtraction:        []byte(m.RawExtraction),
		DocumentHash:         m.DocumentHash,
		SourceFilename:       m.SourceFilename,
		ReviewerID:           m.ReviewerID,
		ReviewNotes:          m.ReviewNotes,
		ExternalBillID:       m.ExternalBillID,
		PaidAt:               m.PaidAt,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	for i := range m.Lines {
		inv.Lines = append(inv.Lines, m.Lines[i].ToEntity())
	}
	for i := range m.Anomalies {
		inv.Anomalies = append(inv.Anomalies, m.Anomalies[i].ToEntity())
	}
	return inv
}

// InvoiceModelFromEntity creates an InvoiceModel from a domain Invoice entity.
// Lines and anomalies are converted separately.
func InvoiceModelFromEntity(inv *entity.Invoice) *InvoiceModel {
	return &InvoiceModel{
		ID:                   inv.ID,
		VendorID:             inv.VendorID,
		VendorName:           inv.VendorName,
		InvoiceNumber:        inv.InvoiceNumber,
		InvoiceDate:          inv.InvoiceDate,
		PONumber:             inv.PONumber,
		TotalAmount:          inv.TotalAmount,
		Status:               string(inv.Status),
		PaymentTerms:         inv.PaymentTerms,
		DueDate:              inv.DueDate,
		DiscountDate:         inv.DiscountDate,
		OptimalPaymentDate:   inv.OptimalPaymentDate,
		PotentialSavings:     inv.PotentialSavings,
		DiscountCaptured:     inv.DiscountCaptured,
		MatchType:            inv.MatchType,
		MatchMessage:         inv.MatchMessage,
		ApprovalRoute:        inv.ApprovalRoute,
		ExtractionConfidence: inv.ExtractionConfidence,
		RawExtraction:        datatypes.JSON(inv.RawExtraction),
		DocumentHash:         inv.DocumentHash,
		SourceFilename:       inv.SourceFilename,
		ReviewerID:           inv.ReviewerID,
		ReviewNotes:          inv.ReviewNotes,
		ExternalBillID:       inv.ExternalBillID,
		PaidAt:               inv.PaidAt,
		CreatedAt:            inv.CreatedAt,
		UpdatedAt:            inv.UpdatedAt,
	}
}

// InvoiceLineModel represents the invoice_lines table in the database.
type InvoiceLineModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	Position    int              `gorm:"not null"`
	Description *string          `gorm:"type:text"`
	Quantity    *decimal.Decimal `gorm:"type:decimal(15,4)"`
	UnitPrice   *decimal.Decimal `gorm:"type:decimal(15,4)"`
	LineTotal   *decimal.Decimal `gorm:"type:decimal(15,2)"`
}

// TableName returns the table name for the InvoiceLineModel.
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToEntity converts an InvoiceLineModel to a domain InvoiceLine.
func (m *InvoiceLineModel) ToEntity() entity.InvoiceLine {
	return entity.InvoiceLine{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Position:    m.Position,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
	}
}

// InvoiceLineModelFromEntity creates an InvoiceLineModel from a domain InvoiceLine.
func InvoiceLineModelFromEntity(l entity.InvoiceLine) InvoiceLineModel {
	return InvoiceLineModel{
		ID:          l.ID,
		InvoiceID:   l.InvoiceID,
		Position:    l.Position,
		Description: l.Description,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		LineTotal:   l.LineTotal,
	}
}

// AnomalyModel represents the anomalies table in the database.
type AnomalyModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"type:varchar(50);not null"`
	Description string    `gorm:"type:text"`
	Severity    string    `gorm:"type:varchar(10);not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the AnomalyModel.
func (AnomalyModel) TableName() string {
	return "anomalies"
}

// ToEntity converts an AnomalyModel to a domain Anomaly.
func (m *AnomalyModel) ToEntity() entity.Anomaly {
	return entity.Anomaly{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Type:        m.Type,
		Description: m.Description,
		Severity:    entity.AnomalySeverity(m.Severity),
		CreatedAt:   m.CreatedAt,
	}
}

// AnomalyModelFromEntity creates an AnomalyModel from a domain Anomaly.
func AnomalyModelFromEntity(a entity.Anomaly) AnomalyModel {
	return AnomalyModel{
		ID:          a.ID,
		InvoiceID:   a.InvoiceID,
		Type:        a.Type,
		Description: a.Description,
		Severity:    string(a.Severity),
		CreatedAt:   a.CreatedAt,
	}
}

// AllModels lists every model for auto-migration, parents first.
func AllModels() []any {
	return []any{
		&ReviewerModel{},
		&VendorModel{},
		&PurchaseOrderModel{},
		&GoodsReceiptModel{},
		&InvoiceModel{},
		&InvoiceLineModel{},
		&AnomalyModel{},
		&EmailQueueModel{},
	}
}
