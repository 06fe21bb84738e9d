package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/email/templates"
)

type memQueue struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entity.EmailJob
	fail error
}

func newMemQueue() *memQueue {
	return &memQueue{jobs: make(map[uuid.UUID]*entity.EmailJob)}
}

func (q *memQueue) Create(_ context.Context, job *entity.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fail != nil {
		return q.fail
	}
	copied := *job
	q.jobs[job.ID] = &copied
	return nil
}

func (q *memQueue) GetPendingJobs(_ context.Context, limit int) ([]*entity.EmailJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*entity.EmailJob
	for _, job := range q.jobs {
		if job.IsReadyToProcess() && len(out) < limit {
			copied := *job
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (q *memQueue) Update(_ context.Context, job *entity.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	copied := *job
	q.jobs[job.ID] = &copied
	return nil
}

func (q *memQueue) GetByID(_ context.Context, id uuid.UUID) (*entity.EmailJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return nil, domainerror.ErrEmailJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (q *memQueue) DeleteOldSentJobs(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

func (q *memQueue) all() []*entity.EmailJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*entity.EmailJob
	for _, job := range q.jobs {
		out = append(out, job)
	}
	return out
}

type failingSender struct {
	err error
}

func (s failingSender) Send(context.Context, adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	return nil, s.err
}

func newRenderer(t *testing.T) *templates.Renderer {
	t.Helper()
	r, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return r
}

func TestServiceQueuesPerRecipient(t *testing.T) {
	queue := newMemQueue()
	svc := NewService(queue, []string{"ap@example.com", "controller@example.com"}, "http://localhost:5173/")

	err := svc.QueueInvoiceFlagged(context.Background(), adapter.InvoiceFlaggedNotice{
		InvoiceID:    "abc",
		VendorName:   "Acme Corp",
		TotalAmount:  "5000.00",
		Status:       "flagged",
		MatchType:    "PO_NOT_FOUND",
		MatchMessage: "PO 'PO-999' not found in database",
		Anomalies:    []string{"PO 'PO-999' not found in database"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	jobs := queue.all()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	for _, job := range jobs {
		if job.TemplateType != entity.TemplateInvoiceFlagged {
			t.Errorf("expected invoice_flagged, got %s", job.TemplateType)
		}
		if !strings.Contains(job.Subject, "(no number)") {
			t.Errorf("expected placeholder invoice number in subject, got %q", job.Subject)
		}
		if job.TemplateData["invoice_url"] != "http://localhost:5173/invoices/abc" {
			t.Errorf("unexpected invoice url %v", job.TemplateData["invoice_url"])
		}
	}

	t.Run("no recipients is a no-op", func(t *testing.T) {
		empty := newMemQueue()
		if err := NewService(empty, nil, "").QueueDiscountOpportunity(context.Background(), adapter.DiscountOpportunityNotice{}); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if len(empty.all()) != 0 {
			t.Error("expected no jobs")
		}
	})

	t.Run("queue failure is an email error", func(t *testing.T) {
		broken := newMemQueue()
		broken.fail = errors.New("db down")
		err := NewService(broken, []string{"ap@example.com"}, "").QueueDiscountOpportunity(context.Background(), adapter.DiscountOpportunityNotice{})
		var emailErr *domainerror.EmailError
		if !errors.As(err, &emailErr) || emailErr.Code != domainerror.ErrCodeEmailQueueFailed {
			t.Errorf("expected EMAIL-010001, got %v", err)
		}
	})
}

func TestWorkerDelivers(t *testing.T) {
	ctx := context.Background()
	queue := newMemQueue()
	svc := NewService(queue, []string{"ap@example.com"}, "http://app")
	if err := svc.QueueDiscountOpportunity(ctx, adapter.DiscountOpportunityNotice{
		InvoiceID:        "abc",
		InvoiceNumber:    "INV-7",
		VendorName:       "Acme Corp",
		TotalAmount:      "5000.00",
		DiscountDate:     "2024-01-25",
		PotentialSavings: "100.00",
		Reasoning:        "Annualized return 36.7% beats the 10% hurdle",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sender := &LogSender{}
	worker := NewWorker(queue, sender, newRenderer(t), DefaultWorkerConfig())
	worker.ProcessNow(ctx)

	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sent))
	}
	if !strings.Contains(sent[0].HTML, "100.00") || !strings.Contains(sent[0].Text, "2024-01-25") {
		t.Errorf("expected rendered savings and date, got html=%q text=%q", sent[0].HTML, sent[0].Text)
	}
	if job := queue.all()[0]; job.Status != entity.EmailStatusSent || job.ResendID != "log-1" {
		t.Errorf("expected sent job with log-1, got %s %s", job.Status, job.ResendID)
	}
}

func TestWorkerFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("temporary failure is rescheduled", func(t *testing.T) {
		queue := newMemQueue()
		job := entity.NewEmailJob(entity.TemplateInvoiceFlagged, "ap@example.com", "", "x", map[string]interface{}{"anomalies": []interface{}{"a"}})
		_ = queue.Create(ctx, job)

		sender := failingSender{err: domainerror.NewEmailError(domainerror.ErrCodeTemporaryEmailFailure, "temporary", errors.New("503"))}
		NewWorker(queue, sender, newRenderer(t), DefaultWorkerConfig()).ProcessNow(ctx)

		got, _ := queue.GetByID(ctx, job.ID)
		if got.Status != entity.EmailStatusPending || got.Attempts != 1 {
			t.Errorf("expected pending retry after 1 attempt, got %s/%d", got.Status, got.Attempts)
		}
	})

	t.Run("permanent failure stops", func(t *testing.T) {
		queue := newMemQueue()
		job := entity.NewEmailJob(entity.TemplateInvoiceFlagged, "ap@example.com", "", "x", nil)
		_ = queue.Create(ctx, job)

		sender := failingSender{err: domainerror.NewEmailError(domainerror.ErrCodePermanentEmailFailure, "permanent", errors.New("422"))}
		NewWorker(queue, sender, newRenderer(t), DefaultWorkerConfig()).ProcessNow(ctx)

		got, _ := queue.GetByID(ctx, job.ID)
		if got.Status != entity.EmailStatusFailed {
			t.Errorf("expected failed, got %s", got.Status)
		}
	})

	t.Run("unknown template fails permanently", func(t *testing.T) {
		queue := newMemQueue()
		job := entity.NewEmailJob("weekly_digest", "ap@example.com", "", "x", nil)
		_ = queue.Create(ctx, job)

		NewWorker(queue, &LogSender{}, newRenderer(t), DefaultWorkerConfig()).ProcessNow(ctx)

		got, _ := queue.GetByID(ctx, job.ID)
		if got.Status != entity.EmailStatusFailed {
			t.Errorf("expected failed, got %s", got.Status)
		}
	})
}

func TestIsPermanentError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"422 validation_error: invalid from address", true},
		{"401 unauthorized", true},
		{"429 rate limit exceeded", false},
		{"502 bad gateway", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := isPermanentError(errors.New(tt.msg)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
