// Package users holds account persistence shared by the login and
// register flows.
package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/modamarket/backend/pkg/db/models"
)

// Repository exposes account rows to the auth and register services.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByEmail loads an account by email. Returns (nil, nil) when the
// email is unknown so callers can distinguish absence from failure.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).First(&row, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// FindByID loads an account by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ExistsByEmail reports whether an account already uses the email.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new account row.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// MarkEmailVerified flips the verified flag after code confirmation.
func (r *Repository) MarkEmailVerified(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Update("email_verified", true).Error
}
