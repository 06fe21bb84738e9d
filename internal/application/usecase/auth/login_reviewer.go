// Package auth contains reviewer authentication use cases.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

// LoginReviewerInput represents the input for reviewer login.
type LoginReviewerInput struct {
	Email    string
	Password string
}

// LoginReviewerOutput represents the output of reviewer login.
type LoginReviewerOutput struct {
	AccessToken string
	ExpiresAt   time.Time
	Reviewer    *entity.Reviewer
}

// LoginReviewerUseCase handles reviewer login logic.
type LoginReviewerUseCase struct {
	reviewerRepo    adapter.ReviewerRepository
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
}

// NewLoginReviewerUseCase creates a new LoginReviewerUseCase instance.
func NewLoginReviewerUseCase(
	reviewerRepo adapter.ReviewerRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
) *LoginReviewerUseCase {
	return &LoginReviewerUseCase{
		reviewerRepo:    reviewerRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

// Execute performs the reviewer login.
func (uc *LoginReviewerUseCase) Execute(ctx context.Context, input LoginReviewerInput) (*LoginReviewerOutput, error) {
	reviewer, err := uc.reviewerRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		// Same error for unknown emails and bad passwords.
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidCredentials,
			"invalid email or password",
			domainerror.ErrInvalidCredentials,
		)
	}

	if err := uc.passwordService.VerifyPassword(reviewer.PasswordHash, input.Password); err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidCredentials,
			"invalid email or password",
			domainerror.ErrInvalidCredentials,
		)
	}

	token, err := uc.tokenService.GenerateAccessToken(ctx, reviewer.ID, reviewer.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginReviewerOutput{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		Reviewer:    reviewer,
	}, nil
}
