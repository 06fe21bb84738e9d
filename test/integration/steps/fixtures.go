package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	purchaseorder "github.com/ap-reconciler/backend/internal/application/usecase/purchase_order"
	"github.com/ap-reconciler/backend/internal/application/usecase/vendor"
	"github.com/ap-reconciler/backend/internal/integration/adapters"
	"github.com/ap-reconciler/backend/internal/integration/persistence"
	"github.com/ap-reconciler/backend/internal/integration/persistence/model"
)

const defaultReviewerPassword = "ReviewerPass123!"

func (t *TestContext) aReviewerExistsWithEmailAndPassword(email, password string) error {
	hash, err := adapters.NewPasswordService().HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	now := time.Now().UTC()
	return testDB.DbConn.Create(&model.ReviewerModel{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test Reviewer",
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error
}

func (t *TestContext) iAmLoggedInAsReviewer(email string) error {
	if err := t.aReviewerExistsWithEmailAndPassword(email, defaultReviewerPassword); err != nil {
		return err
	}

	payload, _ := json.Marshal(map[string]string{"email": email, "password": defaultReviewerPassword})
	if err := t.executeRequest("POST", "/api/v1/auth/login", payload); err != nil {
		return err
	}
	if err := t.theResponseStatusShouldBe(200); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	token, ok := body["access_token"].(string)
	if !ok || token == "" {
		return fmt.Errorf("login response has no access_token: %v", body)
	}
	t.accessToken = token
	t.response = nil
	return nil
}

func (t *TestContext) theSampleVendorsAndPurchaseOrdersExist() error {
	ctx := context.Background()
	vendorRepo := persistence.NewVendorRepository(testDB.DbConn)
	poRepo := persistence.NewPurchaseOrderRepository(testDB.DbConn)
	createVendor := vendor.NewCreateVendorUseCase(vendorRepo)
	createPO := purchaseorder.NewCreatePurchaseOrderUseCase(poRepo, vendorRepo)

	vendors := []struct{ id, name, category, terms string }{
		{"V001", "Acme Corp", "supplies", "Net 30"},
		{"V002", "Tech Solutions Inc", "software", "Net 45"},
		{"V003", "Office Depot", "supplies", "Net 30"},
		{"V004", "AWS", "cloud services", "monthly"},
	}
	for _, v := range vendors {
		terms := v.terms
		if _, err := createVendor.Execute(ctx, vendor.CreateVendorInput{
			ExternalID:          v.id,
			Name:                v.name,
			Category:            v.category,
			DefaultPaymentTerms: &terms,
		}); err != nil {
			return fmt.Errorf("failed to create vendor %s: %w", v.id, err)
		}
	}

	pos := []struct {
		number, vendorID  string
		amount, tolerance string
	}{
		{"PO-2024-001", "V001", "5000", "0.10"},
		{"PO-2024-002", "V002", "15000", "0.10"},
		{"PO-2024-003", "V003", "2500", "0.10"},
		{"PO-2024-004", "V004", "8500", "0.15"},
	}
	for _, po := range pos {
		tolerance := decimal.RequireFromString(po.tolerance)
		if _, err := createPO.Execute(ctx, purchaseorder.CreatePurchaseOrderInput{
			PONumber:         po.number,
			VendorExternalID: po.vendorID,
			ExpectedAmount:   decimal.RequireFromString(po.amount),
			Tolerance:        &tolerance,
		}); err != nil {
			return fmt.Errorf("failed to create PO %s: %w", po.number, err)
		}
	}
	return nil
}

func (t *TestContext) anInvoiceExists(status, vendorName, amount string) error {
	total, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	number := "INV-" + uuid.NewString()[:8]
	invoiceDate := "2024-01-15"
	dueDate := "2024-02-14"
	now := time.Now().UTC()

	inv := &model.InvoiceModel{
		ID:            uuid.New(),
		VendorName:    vendorName,
		InvoiceNumber: &number,
		InvoiceDate:   &invoiceDate,
		DueDate:       &dueDate,
		TotalAmount:   total,
		Status:        status,
		MatchType:     "2_way_success",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := testDB.DbConn.Create(inv).Error; err != nil {
		return err
	}
	t.vars["invoice_id"] = inv.ID.String()
	t.vars["invoice_number"] = number
	return nil
}

func (t *TestContext) theAccountingAPIRespondsWith(method, path string, status int, body *godog.DocString) error {
	var payload any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(body.Content)), &payload); err != nil {
		return fmt.Errorf("invalid mock body: %w", err)
	}
	accountsAPI.SetResponse(method, t.replacePlaceholders(path), status, payload)
	return nil
}

func (t *TestContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	count, err := testDB.CountRows(table, nil)
	if err != nil {
		return err
	}
	if count != int64(quantity) {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *TestContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	count, err := testDB.CountRows(table, criteria)
	if err != nil {
		return err
	}
	if count != int64(quantity) {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func (t *TestContext) theAccountingAPIShouldHaveReceived(quantity int, method, path string) error {
	got := len(accountsAPI.Requests(method, t.replacePlaceholders(path)))
	if got != quantity {
		return fmt.Errorf("expected %d %s requests to %s, got %d", quantity, method, path, got)
	}
	return nil
}

func (t *TestContext) theLastAccountingRequestShouldHaveHeader(method, path, header, value string) error {
	requests := accountsAPI.Requests(method, t.replacePlaceholders(path))
	if len(requests) == 0 {
		return fmt.Errorf("no %s requests to %s", method, path)
	}
	last := requests[len(requests)-1]
	if got := last.Headers[header]; got != value {
		return fmt.Errorf("header %s expected '%s', got '%s'", header, value, got)
	}
	return nil
}
