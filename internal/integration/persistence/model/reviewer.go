// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// ReviewerModel represents the reviewers table in the database.
type ReviewerModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(100);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the ReviewerModel.
func (ReviewerModel) TableName() string {
	return "reviewers"
}

// ToEntity converts a ReviewerModel to a domain Reviewer entity.
func (m *ReviewerModel) ToEntity() *entity.Reviewer {
	return &entity.Reviewer{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ReviewerModelFromEntity creates a ReviewerModel from a domain Reviewer entity.
func ReviewerModelFromEntity(reviewer *entity.Reviewer) *ReviewerModel {
	return &ReviewerModel{
		ID:           reviewer.ID,
		Email:        reviewer.Email,
		Name:         reviewer.Name,
		PasswordHash: reviewer.PasswordHash,
		CreatedAt:    reviewer.CreatedAt,
		UpdatedAt:    reviewer.UpdatedAt,
	}
}
