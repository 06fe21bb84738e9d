package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// CreateReviewerInput represents the input for creating a reviewer.
type CreateReviewerInput struct {
	Email    string
	Name     string
	Password string
}

// CreateReviewerUseCase creates reviewer accounts. There is no self sign-up;
// operators call it from the CLI.
type CreateReviewerUseCase struct {
	reviewerRepo    adapter.ReviewerRepository
	passwordService adapter.PasswordService
}

// NewCreateReviewerUseCase creates a new CreateReviewerUseCase instance.
func NewCreateReviewerUseCase(
	reviewerRepo adapter.ReviewerRepository,
	passwordService adapter.PasswordService,
) *CreateReviewerUseCase {
	return &CreateReviewerUseCase{
		reviewerRepo:    reviewerRepo,
		passwordService: passwordService,
	}
}

// Execute validates and stores the reviewer.
func (uc *CreateReviewerUseCase) Execute(ctx context.Context, input CreateReviewerInput) (*entity.Reviewer, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailRegex.MatchString(email) {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidEmail,
			"invalid email format",
			domainerror.ErrInvalidEmail,
		)
	}

	if err := uc.passwordService.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeWeakPassword,
			"password does not meet minimum requirements",
			domainerror.ErrWeakPassword,
		)
	}

	exists, err := uc.reviewerRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeEmailExists,
			"email already exists",
			domainerror.ErrEmailAlreadyExists,
		)
	}

	passwordHash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = email
	}
	reviewer := entity.NewReviewer(email, name, passwordHash)
	if err := uc.reviewerRepo.Create(ctx, reviewer); err != nil {
		return nil, fmt.Errorf("failed to create reviewer: %w", err)
	}

	return reviewer, nil
}
