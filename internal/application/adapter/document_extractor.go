package adapter

import (
	"context"
	"strings"
)

// Tool names offered to extraction agents.
const (
	ToolValidateVendor     = "validate_vendor"
	ToolThreeWayMatch      = "perform_3_way_match"
	ToolCheckPO            = "check_po"
	ToolOptimizePayment    = "optimize_payment"
	ToolFlagAnomaly        = "flag_anomaly"
	ToolResolveDiscrepancy = "resolve_discrepancy"
)

// Document is an uploaded invoice file.
type Document struct {
	Filename string
	MIMEType string
	Content  []byte
}

// IsImage reports whether the document is a raster image.
func (d Document) IsImage() bool {
	return strings.HasPrefix(d.MIMEType, "image/")
}

// IsText reports whether the document is plain text.
func (d Document) IsText() bool {
	return strings.HasPrefix(d.MIMEType, "text/")
}

// ToolExecutor runs agent tool calls against the reconciliation engine.
type ToolExecutor interface {
	// ExecuteTool runs one tool. Unknown tools return an {"error": ...} result, not an error.
	ExecuteTool(ctx context.Context, name string, args map[string]any) (map[string]any, error)
}

// ToolCall records one tool invocation made during extraction.
type ToolCall struct {
	Name   string
	Args   map[string]any
	Result map[string]any
}

// ExtractionOutput is what a document extractor returns.
type ExtractionOutput struct {
	Provider string
	// Fields maps field names to raw values or {value, confidence} envelopes.
	Fields     map[string]any
	ToolCalls  []ToolCall
	Iterations int
	Summary    string
}

// DocumentExtractor turns a document into extracted invoice fields.
type DocumentExtractor interface {
	// Extract reads doc. Extractors that support tool calling use tools; others ignore it.
	Extract(ctx context.Context, doc Document, tools ToolExecutor) (*ExtractionOutput, error)

	// IsAvailable checks if the extractor is properly configured.
	IsAvailable() bool

	Name() string
}

// ImagePreprocessor normalizes images before extraction.
type ImagePreprocessor interface {
	// Prepare returns doc unchanged when it is not an image.
	Prepare(doc Document) (Document, error)
}

// DocumentDeduplicator makes ingestion idempotent per document content hash.
type DocumentDeduplicator interface {
	// Claim reserves hash for ingestion. When the hash is already claimed it returns
	// false and the bound invoice id, which is empty while ingestion is in flight.
	Claim(ctx context.Context, hash string) (claimed bool, existingInvoiceID string, err error)

	// Bind records the invoice created for a claimed hash.
	Bind(ctx context.Context, hash, invoiceID string) error

	// Release drops a claim after a failed ingestion.
	Release(ctx context.Context, hash string) error
}
