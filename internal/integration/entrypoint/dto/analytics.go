package dto

import (
	"github.com/ap-reconciler/backend/internal/application/usecase/analytics"
)

// SpendBucketResponse is spend grouped by one key.
type SpendBucketResponse struct {
	Key          string `json:"key"`
	Amount       string `json:"amount"`
	InvoiceCount int    `json:"invoice_count"`
}

// SpendSummaryResponse represents the spend analytics response.
type SpendSummaryResponse struct {
	TotalSpend      string                `json:"total_spend"`
	InvoiceCount    int                   `json:"invoice_count"`
	DistinctVendors int                   `json:"distinct_vendors"`
	ByVendor        []SpendBucketResponse `json:"by_vendor"`
	ByMonth         []SpendBucketResponse `json:"by_month"`
}

// ToSpendSummaryResponse converts a GetSpendSummaryOutput.
func ToSpendSummaryResponse(out *analytics.GetSpendSummaryOutput) SpendSummaryResponse {
	return SpendSummaryResponse{
		TotalSpend:      money(out.TotalSpend),
		InvoiceCount:    out.InvoiceCount,
		DistinctVendors: out.DistinctVendors,
		ByVendor:        toBuckets(out.ByVendor),
		ByMonth:         toBuckets(out.ByMonth),
	}
}

func toBuckets(buckets []analytics.SpendBucket) []SpendBucketResponse {
	out := make([]SpendBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, SpendBucketResponse{
			Key:          b.Key,
			Amount:       money(b.Amount),
			InvoiceCount: b.InvoiceCount,
		})
	}
	return out
}
