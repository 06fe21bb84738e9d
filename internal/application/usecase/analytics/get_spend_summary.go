// Package analytics contains spend analytics use cases.
package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
)

const (
	unknownVendor = "Unknown"
	unknownMonth  = "unknown"
)

// SpendBucket is the spend attributed to one vendor or one month.
type SpendBucket struct {
	Key          string
	Amount       decimal.Decimal
	InvoiceCount int
}

// GetSpendSummaryOutput represents spend analytics over all invoices.
type GetSpendSummaryOutput struct {
	TotalSpend      decimal.Decimal
	InvoiceCount    int
	DistinctVendors int
	ByVendor        []SpendBucket // amount descending
	ByMonth         []SpendBucket // YYYY-MM ascending, unknown last
}

// GetSpendSummaryUseCase aggregates spend by vendor and month.
type GetSpendSummaryUseCase struct {
	invoiceRepo adapter.InvoiceRepository
}

// NewGetSpendSummaryUseCase creates a new GetSpendSummaryUseCase instance.
func NewGetSpendSummaryUseCase(invoiceRepo adapter.InvoiceRepository) *GetSpendSummaryUseCase {
	return &GetSpendSummaryUseCase{
		invoiceRepo: invoiceRepo,
	}
}

// Execute computes the spend summary. Rejected invoices are excluded.
func (uc *GetSpendSummaryUseCase) Execute(ctx context.Context) (*GetSpendSummaryOutput, error) {
	invoices, err := uc.invoiceRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	output := &GetSpendSummaryOutput{TotalSpend: decimal.Zero}
	byVendor := make(map[string]*SpendBucket)
	byMonth := make(map[string]*SpendBucket)

	for _, inv := range invoices {
		if inv.Status == entity.InvoiceStatusRejected {
			continue
		}
		output.InvoiceCount++
		output.TotalSpend = output.TotalSpend.Add(inv.TotalAmount)
		add(byVendor, vendorKey(inv), inv.TotalAmount)
		add(byMonth, monthKey(inv), inv.TotalAmount)
	}

	for key, bucket := range byVendor {
		if key != unknownVendor {
			output.DistinctVendors++
		}
		output.ByVendor = append(output.ByVendor, *bucket)
	}
	sort.Slice(output.ByVendor, func(i, j int) bool {
		a, b := output.ByVendor[i], output.ByVendor[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Key < b.Key
	})

	for _, bucket := range byMonth {
		output.ByMonth = append(output.ByMonth, *bucket)
	}
	sort.Slice(output.ByMonth, func(i, j int) bool {
		a, b := output.ByMonth[i].Key, output.ByMonth[j].Key
		if a == unknownMonth || b == unknownMonth {
			return b == unknownMonth && a != unknownMonth
		}
		return a < b
	})

	return output, nil
}

func add(buckets map[string]*SpendBucket, key string, amount decimal.Decimal) {
	bucket, ok := buckets[key]
	if !ok {
		bucket = &SpendBucket{Key: key, Amount: decimal.Zero}
		buckets[key] = bucket
	}
	bucket.Amount = bucket.Amount.Add(amount)
	bucket.InvoiceCount++
}

func vendorKey(inv *entity.Invoice) string {
	if inv.VendorID == nil || inv.VendorName == "" {
		return unknownVendor
	}
	return inv.VendorName
}

func monthKey(inv *entity.Invoice) string {
	if inv.InvoiceDate == nil || len(*inv.InvoiceDate) < len("2006-01") {
		return unknownMonth
	}
	return (*inv.InvoiceDate)[:7]
}
