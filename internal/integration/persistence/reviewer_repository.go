// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/persistence/model"
)

// reviewerRepository implements the adapter.ReviewerRepository interface.
type reviewerRepository struct {
	db *gorm.DB
}

// NewReviewerRepository creates a new reviewer repository instance.
func NewReviewerRepository(db *gorm.DB) adapter.ReviewerRepository {
	return &reviewerRepository{
		db: db,
	}
}

// Create creates a new reviewer in the database.
func (r *reviewerRepository) Create(ctx context.Context, reviewer *entity.Reviewer) error {
	result := r.db.WithContext(ctx).Create(model.ReviewerModelFromEntity(reviewer))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerror.ErrEmailAlreadyExists
		}
		return result.Error
	}
	return nil
}

// FindByID retrieves a reviewer by ID.
func (r *reviewerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reviewer, error) {
	var reviewerModel model.ReviewerModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&reviewerModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrReviewerNotFound
		}
		return nil, result.Error
	}
	return reviewerModel.ToEntity(), nil
}

// FindByEmail retrieves a reviewer by email address.
func (r *reviewerRepository) FindByEmail(ctx context.Context, email string) (*entity.Reviewer, error) {
	var reviewerModel model.ReviewerModel
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&reviewerModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrReviewerNotFound
		}
		return nil, result.Error
	}
	return reviewerModel.ToEntity(), nil
}

// ExistsByEmail checks if a reviewer with the given email exists.
func (r *reviewerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.ReviewerModel{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}
