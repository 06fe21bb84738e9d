package dto

import (
	"time"

	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// LoginRequest represents the request body for reviewer login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Reviewer    ReviewerResponse `json:"reviewer"`
}

// ReviewerResponse represents the reviewer data in API responses.
type ReviewerResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToReviewerResponse converts a domain Reviewer entity to a ReviewerResponse DTO.
func ToReviewerResponse(r *entity.Reviewer) ReviewerResponse {
	return ReviewerResponse{
		ID:        r.ID.String(),
		Email:     r.Email,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
	}
}
