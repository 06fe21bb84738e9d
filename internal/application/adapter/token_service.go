package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccessToken is a signed reviewer token and its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenClaims represents the claims contained in a reviewer token.
type TokenClaims struct {
	ReviewerID uuid.UUID
	Email      string
	ExpiresAt  time.Time
}

// TokenService defines the interface for reviewer token operations.
type TokenService interface {
	// GenerateAccessToken signs a new access token for the reviewer.
	GenerateAccessToken(ctx context.Context, reviewerID uuid.UUID, email string) (*AccessToken, error)

	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
