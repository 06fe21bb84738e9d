package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ap-reconciler/backend/internal/domain/valueobject"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/dto"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func useTempStore(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "apctl.db"))
}

func TestOptimizeCommand(t *testing.T) {
	t.Run("discount terms", func(t *testing.T) {
		out, err := run(t, "optimize", "--terms", "2/10 Net 30", "--date", "2024-01-15", "--amount", "5200")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var plan dto.PaymentPlanResponse
		if err := json.Unmarshal([]byte(out), &plan); err != nil {
			t.Fatalf("failed to decode output %q: %v", out, err)
		}
		if plan.OptimalPaymentDate != "2024-01-25" {
			t.Errorf("expected optimal date 2024-01-25, got %s", plan.OptimalPaymentDate)
		}
		if plan.DueDate != "2024-02-14" {
			t.Errorf("expected due date 2024-02-14, got %s", plan.DueDate)
		}
		if plan.PotentialSavings != "104.00" {
			t.Errorf("expected savings 104.00, got %s", plan.PotentialSavings)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		if _, err := run(t, "optimize", "--terms", "Net 30", "--date", "01/15/2024"); err == nil {
			t.Error("expected error for invalid date")
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		if _, err := run(t, "optimize", "--date", "2024-01-15", "--amount", "lots"); err == nil {
			t.Error("expected error for invalid amount")
		}
	})

	t.Run("date is required", func(t *testing.T) {
		if _, err := run(t, "optimize", "--terms", "Net 30"); err == nil {
			t.Error("expected error when --date is missing")
		}
	})
}

func TestSeedAndMatchCommands(t *testing.T) {
	useTempStore(t)

	out, err := run(t, "seed")
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !strings.Contains(out, "seeded 15 vendors and 4 purchase orders (0 already present)") {
		t.Errorf("unexpected seed output %q", out)
	}

	out, err = run(t, "seed")
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if !strings.Contains(out, "seeded 0 vendors and 0 purchase orders (19 already present)") {
		t.Errorf("expected seed to be idempotent, got %q", out)
	}

	t.Run("two way match", func(t *testing.T) {
		out, err := run(t, "match",
			"--vendor", "Acme Corp", "--po", "PO-2024-001", "--amount", "5200",
			"--terms", "2/10 Net 30", "--date", "2024-01-15")
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		var got dto.MatchResponse
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("failed to decode output %q: %v", out, err)
		}
		if !got.Valid || got.POMatch.MatchType != string(valueobject.MatchTypeTwoWaySuccess) {
			t.Errorf("expected 2_way_success, got %+v", got.POMatch)
		}
		if got.PaymentPlan == nil || got.PaymentPlan.OptimalPaymentDate != "2024-01-25" {
			t.Errorf("unexpected payment plan %+v", got.PaymentPlan)
		}
	})

	t.Run("unknown PO", func(t *testing.T) {
		out, err := run(t, "match", "--vendor", "Acme Corp", "--po", "PO-9999", "--amount", "100")
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		var got dto.MatchResponse
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("failed to decode output %q: %v", out, err)
		}
		if got.Valid || got.POMatch.MatchType != string(valueobject.MatchTypePONotFound) {
			t.Errorf("expected po_not_found, got %+v", got.POMatch)
		}
	})
}

func TestReviewerCreateCommand(t *testing.T) {
	useTempStore(t)

	out, err := run(t, "reviewer", "create", "--email", "AP@Example.com", "--name", "AP Clerk", "--password", "long-enough-pass")
	if err != nil {
		t.Fatalf("reviewer create failed: %v", err)
	}
	var reviewer dto.ReviewerResponse
	if err := json.Unmarshal([]byte(out), &reviewer); err != nil {
		t.Fatalf("failed to decode output %q: %v", out, err)
	}
	if reviewer.Email != "ap@example.com" {
		t.Errorf("expected normalized email, got %s", reviewer.Email)
	}

	if _, err := run(t, "reviewer", "create", "--email", "ap@example.com", "--password", "long-enough-pass"); err == nil {
		t.Error("expected error for duplicate reviewer email")
	}
	if _, err := run(t, "reviewer", "create", "--email", "other@example.com", "--password", "short"); err == nil {
		t.Error("expected error for weak password")
	}
}
