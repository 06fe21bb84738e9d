package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedVendor(t *testing.T, repo interface {
	Create(context.Context, *entity.Vendor) error
}, externalID, name string, offset int) *entity.Vendor {
	t.Helper()
	v := entity.NewVendor(externalID, name, "Supplies", nil, nil)
	v.CreatedAt = time.Date(2024, 1, 1, 0, 0, offset, 0, time.UTC)
	if err := repo.Create(context.Background(), v); err != nil {
		t.Fatalf("failed to create vendor: %v", err)
	}
	return v
}

func TestVendorRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewVendorRepository(db)
	ctx := context.Background()

	acme := seedVendor(t, repo, "V001", "Acme Corp", 0)

	t.Run("exists by name ignores case", func(t *testing.T) {
		exists, err := repo.ExistsByExternalIDOrName(ctx, "", "  ACME corp ", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !exists {
			t.Error("expected clash on name")
		}
	})

	t.Run("exclude id skips the vendor itself", func(t *testing.T) {
		exists, err := repo.ExistsByExternalIDOrName(ctx, "V001", "Acme Corp", &acme.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if exists {
			t.Error("expected no clash with itself")
		}
	})

	t.Run("update keeps external id", func(t *testing.T) {
		acme.Name = "Acme Corporation"
		acme.ExternalID = "CHANGED"
		if err := repo.Update(ctx, acme); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := repo.FindByExternalID(ctx, "V001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "Acme Corporation" {
			t.Errorf("expected renamed vendor, got %s", got.Name)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, domainerror.ErrVendorNotFound) {
			t.Errorf("expected ErrVendorNotFound, got %v", err)
		}
	})
}

func TestReconciliationStore(t *testing.T) {
	db := newTestDB(t)
	vendors := NewVendorRepository(db)
	pos := NewPurchaseOrderRepository(db)
	store := NewReconciliationStore(db)
	ctx := context.Background()

	// Inserted out of order; listing must follow created_at.
	second := seedVendor(t, vendors, "V002", "Office Depot Inc", 2)
	first := seedVendor(t, vendors, "V001", "Office Depot", 1)

	listed, err := store.ListVendors(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != first.ID || listed[1].ID != second.ID {
		t.Errorf("expected store order V001, V002, got %v", listed)
	}

	t.Run("vendor lookup trims and ignores case", func(t *testing.T) {
		v, err := store.FindVendorByName(ctx, "  office DEPOT ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v == nil || v.ID != first.ID {
			t.Errorf("expected %s, got %v", first.ID, v)
		}
	})

	t.Run("miss is nil without error", func(t *testing.T) {
		v, err := store.FindVendorByName(ctx, "Globex")
		if err != nil || v != nil {
			t.Errorf("expected (nil, nil), got (%v, %v)", v, err)
		}
		po, err := store.FindPOByNumber(ctx, "PO-404")
		if err != nil || po != nil {
			t.Errorf("expected (nil, nil), got (%v, %v)", po, err)
		}
	})

	po := entity.NewPurchaseOrder("PO-001", first.ID, decimal.NewFromInt(5000), entity.DefaultPOTolerance, nil)
	if err := pos.Create(ctx, po); err != nil {
		t.Fatalf("failed to create PO: %v", err)
	}

	t.Run("PO lookup preloads vendor", func(t *testing.T) {
		found, err := store.FindPOByNumber(ctx, " po-001 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found == nil || found.VendorName() != "Office Depot" {
			t.Fatalf("expected PO with vendor, got %+v", found)
		}
		if !found.Tolerance.Equal(decimal.NewFromFloat(0.1)) {
			t.Errorf("expected tolerance 0.1, got %s", found.Tolerance)
		}
	})

	t.Run("receipts sum exactly", func(t *testing.T) {
		total, count, err := store.SumReceiptsForPO(ctx, po.ID)
		if err != nil || count != 0 || !total.IsZero() {
			t.Fatalf("expected no receipts, got %s %d %v", total, count, err)
		}

		for i, amount := range []string{"0.10", "0.20", "4799.70"} {
			receipt := entity.NewGoodsReceipt("GR-"+string(rune('A'+i)), po.ID, "2024-01-10", decimal.RequireFromString(amount), nil)
			if err := pos.CreateReceipt(ctx, receipt); err != nil {
				t.Fatalf("failed to create receipt: %v", err)
			}
		}
		total, count, err = store.SumReceiptsForPO(ctx, po.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 3 || !total.Equal(decimal.NewFromInt(4800)) {
			t.Errorf("expected 3 receipts totalling 4800, got %d totalling %s", count, total)
		}
	})

	t.Run("duplicate receipt number", func(t *testing.T) {
		receipt := entity.NewGoodsReceipt("GR-A", po.ID, "2024-01-11", decimal.NewFromInt(1), nil)
		if err := pos.CreateReceipt(ctx, receipt); !errors.Is(err, domainerror.ErrGoodsReceiptAlreadyExists) {
			t.Errorf("expected ErrGoodsReceiptAlreadyExists, got %v", err)
		}
	})

	t.Run("closed database is a store failure", func(t *testing.T) {
		broken := newTestDB(t)
		sqlDB, _ := broken.DB()
		_ = sqlDB.Close()

		_, err := NewReconciliationStore(broken).ListVendors(ctx)
		if !domainerror.IsStoreUnavailable(err) {
			t.Errorf("expected store unavailable, got %v", err)
		}
	})
}

func TestInvoiceRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	hash := "abc123"
	number := "INV-1"
	qty := decimal.NewFromInt(2)
	inv := entity.NewInvoice("Acme Corp", decimal.RequireFromString("5000.00"), entity.InvoiceStatusFlagged)
	inv.InvoiceNumber = &number
	inv.DocumentHash = &hash
	inv.RawExtraction = []byte(`{"vendor_name":"Acme Corp"}`)
	line := entity.NewInvoiceLine(inv.ID, 1)
	line.Quantity = &qty
	inv.Lines = []entity.InvoiceLine{line}
	inv.Anomalies = []entity.Anomaly{entity.NewAnomaly(entity.AnomalyPONotFound, "PO 'X' not found in database", entity.SeverityHigh)}

	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("failed to create invoice: %v", err)
	}

	got, err := repo.FindByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Lines) != 1 || got.Lines[0].Quantity == nil || !got.Lines[0].Quantity.Equal(qty) {
		t.Errorf("expected one line with quantity 2, got %+v", got.Lines)
	}
	if len(got.Anomalies) != 1 || got.Anomalies[0].Severity != entity.SeverityHigh {
		t.Errorf("expected one high anomaly, got %+v", got.Anomalies)
	}

	t.Run("update replaces anomalies and keeps the raw payload", func(t *testing.T) {
		got.Status = entity.InvoiceStatusApproved
		got.Anomalies = []entity.Anomaly{entity.NewAnomaly("handwritten_total", "Total corrected by hand", entity.SeverityLow)}
		got.RawExtraction = []byte(`{"tampered":true}`)
		if err := repo.Update(ctx, got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		reloaded, err := repo.FindByID(ctx, inv.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reloaded.Status != entity.InvoiceStatusApproved {
			t.Errorf("expected approved, got %s", reloaded.Status)
		}
		if len(reloaded.Anomalies) != 1 || reloaded.Anomalies[0].Type != "handwritten_total" {
			t.Errorf("expected replaced anomalies, got %+v", reloaded.Anomalies)
		}
		if string(reloaded.RawExtraction) != `{"vendor_name":"Acme Corp"}` {
			t.Errorf("expected raw payload unchanged, got %s", reloaded.RawExtraction)
		}
		if len(reloaded.Lines) != 1 {
			t.Errorf("expected lines untouched, got %d", len(reloaded.Lines))
		}
	})

	t.Run("find by document hash", func(t *testing.T) {
		found, err := repo.FindByDocumentHash(ctx, hash)
		if err != nil || found.ID != inv.ID {
			t.Errorf("expected %s, got %v (%v)", inv.ID, found, err)
		}
		if _, err := repo.FindByDocumentHash(ctx, "missing"); !errors.Is(err, domainerror.ErrInvoiceNotFound) {
			t.Errorf("expected ErrInvoiceNotFound, got %v", err)
		}
	})

	t.Run("list filters by status", func(t *testing.T) {
		other := entity.NewInvoice("Globex", decimal.NewFromInt(10), entity.InvoiceStatusProcessed)
		if err := repo.Create(ctx, other); err != nil {
			t.Fatalf("failed to create invoice: %v", err)
		}

		status := entity.InvoiceStatusProcessed
		result, err := repo.List(ctx, entity.InvoiceFilter{Status: &status, Limit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 1 || result.Invoices[0].ID != other.ID {
			t.Errorf("expected only the processed invoice, got %+v", result)
		}

		all, err := repo.ListAll(ctx)
		if err != nil || len(all) != 2 {
			t.Errorf("expected 2 invoices, got %d (%v)", len(all), err)
		}
	})
}

func TestEmailQueueRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewEmailQueueRepository(db)
	ctx := context.Background()

	job := entity.NewEmailJob(entity.TemplateInvoiceFlagged, "ap@example.com", "", "Invoice needs review", map[string]interface{}{
		"vendor_name": "Acme Corp",
		"anomalies":   []string{"PO not found"},
	})
	job.ScheduledAt = job.ScheduledAt.Add(-time.Second)
	if err := repo.Create(ctx, job); err != nil {
		t.Fatalf("failed to create job: %v", err)
	}

	later := entity.NewEmailJob(entity.TemplateDiscountOpportunity, "ap@example.com", "", "Save money", nil)
	later.ScheduledAt = later.ScheduledAt.Add(time.Hour)
	if err := repo.Create(ctx, later); err != nil {
		t.Fatalf("failed to create job: %v", err)
	}

	pending, err := repo.GetPendingJobs(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != job.ID {
		t.Fatalf("expected only the due job, got %d", len(pending))
	}
	if pending[0].TemplateData["vendor_name"] != "Acme Corp" {
		t.Errorf("expected template data round trip, got %v", pending[0].TemplateData)
	}

	t.Run("sent jobs leave the queue and expire", func(t *testing.T) {
		pending[0].MarkSent("re_123")
		old := time.Now().UTC().AddDate(0, 0, -40)
		pending[0].ProcessedAt = &old
		if err := repo.Update(ctx, pending[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := repo.GetByID(ctx, job.ID)
		if err != nil || got.Status != entity.EmailStatusSent || got.ResendID != "re_123" {
			t.Fatalf("expected sent job, got %+v (%v)", got, err)
		}

		deleted, err := repo.DeleteOldSentJobs(ctx, 30)
		if err != nil || deleted != 1 {
			t.Errorf("expected 1 deleted job, got %d (%v)", deleted, err)
		}
		if _, err := repo.GetByID(ctx, job.ID); !errors.Is(err, domainerror.ErrEmailJobNotFound) {
			t.Errorf("expected ErrEmailJobNotFound, got %v", err)
		}
	})

	t.Run("update of unknown job", func(t *testing.T) {
		ghost := entity.NewEmailJob(entity.TemplateInvoiceFlagged, "x@example.com", "", "x", nil)
		if err := repo.Update(ctx, ghost); !errors.Is(err, domainerror.ErrEmailJobNotFound) {
			t.Errorf("expected ErrEmailJobNotFound, got %v", err)
		}
	})
}
