package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// ReviewerRepository defines the interface for reviewer persistence operations.
type ReviewerRepository interface {
	// Create creates a new reviewer in the database.
	Create(ctx context.Context, reviewer *entity.Reviewer) error

	// FindByID retrieves a reviewer by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reviewer, error)

	// FindByEmail retrieves a reviewer by email address.
	FindByEmail(ctx context.Context, email string) (*entity.Reviewer, error)

	// ExistsByEmail checks if a reviewer with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
