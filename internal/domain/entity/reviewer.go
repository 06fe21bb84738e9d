package entity

import (
	"time"

	"github.com/google/uuid"
)

// Reviewer is an AP clerk allowed to approve, reject and export invoices.
type Reviewer struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewReviewer creates a new Reviewer entity.
func NewReviewer(email, name, passwordHash string) *Reviewer {
	now := time.Now().UTC()
	return &Reviewer{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
