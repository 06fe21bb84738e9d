// Package email queues and delivers reviewer notifications.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

// Service queues notifications for every configured reviewer address.
type Service struct {
	queue      adapter.EmailQueueRepository
	recipients []string
	appBaseURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, recipients []string, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		recipients: recipients,
		appBaseURL: strings.TrimSuffix(appBaseURL, "/"),
	}
}

func (s *Service) invoiceURL(id string) string {
	return fmt.Sprintf("%s/invoices/%s", s.appBaseURL, id)
}

// QueueInvoiceFlagged queues a review request for a flagged or low-confidence invoice.
func (s *Service) QueueInvoiceFlagged(ctx context.Context, input adapter.InvoiceFlaggedNotice) error {
	subject := fmt.Sprintf("Invoice %s from %s needs review", displayNumber(input.InvoiceNumber), input.VendorName)

	anomalies := make([]interface{}, len(input.Anomalies))
	for i, a := range input.Anomalies {
		anomalies[i] = a
	}
	data := map[string]interface{}{
		"invoice_id":     input.InvoiceID,
		"invoice_number": displayNumber(input.InvoiceNumber),
		"vendor_name":    input.VendorName,
		"total_amount":   input.TotalAmount,
		"status":         input.Status,
		"match_type":     input.MatchType,
		"match_message":  input.MatchMessage,
		"anomalies":      anomalies,
		"invoice_url":    s.invoiceURL(input.InvoiceID),
	}

	return s.queueAll(ctx, entity.TemplateInvoiceFlagged, subject, data)
}

// QueueDiscountOpportunity queues an early-payment reminder.
func (s *Service) QueueDiscountOpportunity(ctx context.Context, input adapter.DiscountOpportunityNotice) error {
	subject := fmt.Sprintf("Save %s by paying %s before %s", input.PotentialSavings, input.VendorName, input.DiscountDate)

	data := map[string]interface{}{
		"invoice_id":        input.InvoiceID,
		"invoice_number":    displayNumber(input.InvoiceNumber),
		"vendor_name":       input.VendorName,
		"total_amount":      input.TotalAmount,
		"discount_date":     input.DiscountDate,
		"potential_savings": input.PotentialSavings,
		"reasoning":         input.Reasoning,
		"invoice_url":       s.invoiceURL(input.InvoiceID),
	}

	return s.queueAll(ctx, entity.TemplateDiscountOpportunity, subject, data)
}

// queueAll creates one job per recipient. Without recipients it is a no-op.
func (s *Service) queueAll(ctx context.Context, template entity.EmailTemplateType, subject string, data map[string]interface{}) error {
	for _, recipient := range s.recipients {
		job := entity.NewEmailJob(template, recipient, "", subject, data)
		if err := s.queue.Create(ctx, job); err != nil {
			return domainerror.NewEmailError(
				domainerror.ErrCodeEmailQueueFailed,
				fmt.Sprintf("failed to queue %s email", template),
				err,
			)
		}
	}
	return nil
}

func displayNumber(number string) string {
	if number == "" {
		return "(no number)"
	}
	return number
}
