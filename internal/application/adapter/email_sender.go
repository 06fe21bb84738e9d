package adapter

import (
	"context"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService queues reviewer notifications.
type EmailService interface {
	// QueueInvoiceFlagged notifies reviewers that an invoice needs attention.
	QueueInvoiceFlagged(ctx context.Context, input InvoiceFlaggedNotice) error

	// QueueDiscountOpportunity notifies reviewers that paying early saves money.
	QueueDiscountOpportunity(ctx context.Context, input DiscountOpportunityNotice) error
}

// InvoiceFlaggedNotice describes an invoice routed to review.
type InvoiceFlaggedNotice struct {
	InvoiceID     string
	InvoiceNumber string
	VendorName    string
	TotalAmount   string
	Status        string
	MatchType     string
	MatchMessage  string
	Anomalies     []string
}

// DiscountOpportunityNotice describes a captured early-payment discount.
type DiscountOpportunityNotice struct {
	InvoiceID        string
	InvoiceNumber    string
	VendorName       string
	TotalAmount      string
	DiscountDate     string
	PotentialSavings string
	Reasoning        string
}
