package purchaseorder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

type memVendorRepo struct {
	vendors []*entity.Vendor
}

func (r *memVendorRepo) Create(_ context.Context, v *entity.Vendor) error {
	r.vendors = append(r.vendors, v)
	return nil
}
func (r *memVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Vendor, error) {
	for _, v := range r.vendors {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, domainerror.ErrVendorNotFound
}
func (r *memVendorRepo) FindByExternalID(_ context.Context, externalID string) (*entity.Vendor, error) {
	for _, v := range r.vendors {
		if v.ExternalID == externalID {
			return v, nil
		}
	}
	return nil, domainerror.ErrVendorNotFound
}
func (r *memVendorRepo) List(context.Context) ([]*entity.Vendor, error) { return r.vendors, nil }
func (r *memVendorRepo) Update(context.Context, *entity.Vendor) error   { return nil }
func (r *memVendorRepo) ExistsByExternalIDOrName(context.Context, string, string, *uuid.UUID) (bool, error) {
	return false, nil
}

type memPORepo struct {
	pos      []*entity.PurchaseOrder
	receipts []*entity.GoodsReceipt
}

func (r *memPORepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	r.pos = append(r.pos, po)
	return nil
}
func (r *memPORepo) FindByNumber(_ context.Context, number string) (*entity.PurchaseOrder, error) {
	for _, po := range r.pos {
		if strings.EqualFold(po.PONumber, number) {
			return po, nil
		}
	}
	return nil, domainerror.ErrPurchaseOrderNotFound
}
func (r *memPORepo) List(context.Context, *entity.POStatus) ([]*entity.PurchaseOrder, error) {
	return r.pos, nil
}
func (r *memPORepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.POStatus) error {
	for _, po := range r.pos {
		if po.ID == id {
			po.Status = status
		}
	}
	return nil
}
func (r *memPORepo) CreateReceipt(_ context.Context, receipt *entity.GoodsReceipt) error {
	for _, existing := range r.receipts {
		if existing.ReceiptNumber == receipt.ReceiptNumber {
			return domainerror.ErrGoodsReceiptAlreadyExists
		}
	}
	r.receipts = append(r.receipts, receipt)
	return nil
}
func (r *memPORepo) ListReceipts(_ context.Context, id uuid.UUID) ([]*entity.GoodsReceipt, error) {
	var out []*entity.GoodsReceipt
	for _, receipt := range r.receipts {
		if receipt.PurchaseOrderID == id {
			out = append(out, receipt)
		}
	}
	return out, nil
}

func errorCode(err error) domainerror.ReconciliationErrorCode {
	var recErr *domainerror.ReconciliationError
	if errors.As(err, &recErr) {
		return recErr.Code
	}
	return ""
}

func TestCreatePurchaseOrderUseCase_Execute(t *testing.T) {
	vendors := &memVendorRepo{}
	vendors.vendors = append(vendors.vendors, entity.NewVendor("V001", "Acme Corp", "Supplies", nil, nil))
	pos := &memPORepo{}
	uc := NewCreatePurchaseOrderUseCase(pos, vendors)
	ctx := context.Background()

	t.Run("creates with default tolerance", func(t *testing.T) {
		out, err := uc.Execute(ctx, CreatePurchaseOrderInput{
			PONumber: "po-001", VendorExternalID: "V001", ExpectedAmount: decimal.NewFromInt(5000),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.PurchaseOrder.PONumber != "PO-001" || !out.PurchaseOrder.Tolerance.Equal(decimal.NewFromFloat(0.1)) {
			t.Errorf("unexpected purchase order %+v", out.PurchaseOrder)
		}
		if out.PurchaseOrder.Status != entity.POStatusActive {
			t.Errorf("expected active status, got %s", out.PurchaseOrder.Status)
		}
	})

	tests := []struct {
		name  string
		input CreatePurchaseOrderInput
		code  domainerror.ReconciliationErrorCode
	}{
		{"duplicate number", CreatePurchaseOrderInput{PONumber: "PO-001", VendorExternalID: "V001", ExpectedAmount: decimal.NewFromInt(1)}, domainerror.ErrCodePurchaseOrderExists},
		{"unknown vendor", CreatePurchaseOrderInput{PONumber: "PO-002", VendorExternalID: "V999", ExpectedAmount: decimal.NewFromInt(1)}, domainerror.ErrCodeVendorNotFound},
		{"tolerance above one", CreatePurchaseOrderInput{PONumber: "PO-003", VendorExternalID: "V001", ExpectedAmount: decimal.NewFromInt(1), Tolerance: ptr(decimal.NewFromFloat(1.5))}, domainerror.ErrCodeInvalidTolerance},
		{"negative tolerance", CreatePurchaseOrderInput{PONumber: "PO-003", VendorExternalID: "V001", ExpectedAmount: decimal.NewFromInt(1), Tolerance: ptr(decimal.NewFromFloat(-0.1))}, domainerror.ErrCodeInvalidTolerance},
		{"negative amount", CreatePurchaseOrderInput{PONumber: "PO-004", VendorExternalID: "V001", ExpectedAmount: decimal.NewFromInt(-1)}, domainerror.ErrCodeInvalidAmount},
		{"missing number", CreatePurchaseOrderInput{VendorExternalID: "V001"}, domainerror.ErrCodeMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.input)
			if code := errorCode(err); code != tt.code {
				t.Errorf("expected code %s, got %s (%v)", tt.code, code, err)
			}
		})
	}
}

func TestRecordReceiptUseCase_Execute(t *testing.T) {
	vendor := entity.NewVendor("V001", "Acme Corp", "Supplies", nil, nil)
	pos := &memPORepo{}
	po := entity.NewPurchaseOrder("PO-001", vendor.ID, decimal.NewFromInt(5000), entity.DefaultPOTolerance, nil)
	pos.pos = append(pos.pos, po)
	uc := NewRecordReceiptUseCase(pos)
	ctx := context.Background()

	receipt, err := uc.Execute(ctx, RecordReceiptInput{
		PONumber: "po-001", ReceiptNumber: "GR-1", ReceivedDate: "2024-01-10", Amount: decimal.NewFromInt(4800),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.PurchaseOrderID != po.ID {
		t.Errorf("expected receipt on %s, got %s", po.ID, receipt.PurchaseOrderID)
	}

	t.Run("duplicate receipt number conflicts", func(t *testing.T) {
		_, err := uc.Execute(ctx, RecordReceiptInput{
			PONumber: "PO-001", ReceiptNumber: "GR-1", ReceivedDate: "2024-01-11", Amount: decimal.NewFromInt(1),
		})
		if code := errorCode(err); code != domainerror.ErrCodeGoodsReceiptExists {
			t.Errorf("expected %s, got %s", domainerror.ErrCodeGoodsReceiptExists, code)
		}
	})

	t.Run("bad date is rejected", func(t *testing.T) {
		_, err := uc.Execute(ctx, RecordReceiptInput{
			PONumber: "PO-001", ReceiptNumber: "GR-2", ReceivedDate: "10/01/2024", Amount: decimal.NewFromInt(1),
		})
		if code := errorCode(err); code != domainerror.ErrCodeInvalidInvoiceDate {
			t.Errorf("expected %s, got %s", domainerror.ErrCodeInvalidInvoiceDate, code)
		}
	})

	t.Run("unknown PO is not found", func(t *testing.T) {
		_, err := uc.Execute(ctx, RecordReceiptInput{
			PONumber: "PO-404", ReceiptNumber: "GR-3", ReceivedDate: "2024-01-10", Amount: decimal.NewFromInt(1),
		})
		if code := errorCode(err); code != domainerror.ErrCodePurchaseOrderNotFound {
			t.Errorf("expected %s, got %s", domainerror.ErrCodePurchaseOrderNotFound, code)
		}
	})

	t.Run("get reports the received total", func(t *testing.T) {
		out, err := NewGetPurchaseOrderUseCase(pos).Execute(ctx, "PO-001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.TotalReceived.Equal(decimal.NewFromInt(4800)) || len(out.Receipts) != 1 {
			t.Errorf("unexpected output %+v", out)
		}
	})
}

func TestUpdateStatusUseCase_Execute(t *testing.T) {
	pos := &memPORepo{}
	pos.pos = append(pos.pos, entity.NewPurchaseOrder("PO-001", uuid.New(), decimal.NewFromInt(1), entity.DefaultPOTolerance, nil))
	uc := NewUpdateStatusUseCase(pos)

	po, err := uc.Execute(context.Background(), UpdateStatusInput{PONumber: "PO-001", Status: entity.POStatusClosed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !po.IsClosed() {
		t.Errorf("expected closed, got %s", po.Status)
	}

	_, err = uc.Execute(context.Background(), UpdateStatusInput{PONumber: "PO-001", Status: "archived"})
	if code := errorCode(err); code != domainerror.ErrCodeInvalidStatus {
		t.Errorf("expected %s, got %s", domainerror.ErrCodeInvalidStatus, code)
	}
}

func ptr[T any](v T) *T { return &v }
