package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/modamarket/backend/pkg/db/models"
)

// Repository exposes persistence operations for cart lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListByUser loads the user's cart lines in insertion order with
// product data attached.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindLine returns the cart line for the (user, product, size) key.
func (r *Repository) FindLine(ctx context.Context, userID, productID int64, size int) (*models.CartItem, error) {
	var row models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND size = ?", userID, productID, size).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new cart line.
func (r *Repository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Save persists the provided cart line.
func (r *Repository) Save(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteLines removes the identified lines for the user and reports
// how many rows went away.
func (r *Repository) DeleteLines(ctx context.Context, userID int64, keys []LineKey) (int64, error) {
	var total int64
	for _, key := range keys {
		res := r.db.WithContext(ctx).
			Where("user_id = ? AND product_id = ? AND size = ?", userID, key.ProductID, key.Size).
			Delete(&models.CartItem{})
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
	}
	return total, nil
}
