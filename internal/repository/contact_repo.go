package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/portfolio-api/internal/models"
)

// ContactRepository persists contact form submissions. It only ever inserts.
type ContactRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository constructs a repository backed by GORM.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create inserts the submission and writes the generated id back into it.
func (r *contactRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}
