// Package board serves the FAQ page: category tabs plus a keyword
// search over questions and answers.
package board

import (
	"context"

	"gorm.io/gorm"

	"github.com/modamarket/backend/pkg/db/models"
	"github.com/modamarket/backend/pkg/enums"
)

// Repository exposes read access to the FAQ rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an FAQ repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByCategory loads FAQ rows in display order. The all category
// returns every row.
func (r *Repository) ListByCategory(ctx context.Context, category enums.FAQCategory) ([]models.FAQItem, error) {
	query := r.db.WithContext(ctx).Order("position ASC, id ASC")
	if category != enums.FAQCategoryAll {
		query = query.Where("category = ?", category)
	}
	var rows []models.FAQItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
