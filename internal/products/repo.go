package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/modamarket/backend/pkg/db/models"
)

// Repository exposes read operations over products and their size rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID loads one product.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListSizes loads the size rows for a product ordered by size.
func (r *Repository) ListSizes(ctx context.Context, productID int64) ([]models.ProductSize, error) {
	var rows []models.ProductSize
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("size ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListSizesForProducts loads size rows for a set of products in one
// query, used by stock reconciliation.
func (r *Repository) ListSizesForProducts(ctx context.Context, productIDs []int64) ([]models.ProductSize, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var rows []models.ProductSize
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListProducts loads products by id.
func (r *Repository) ListProducts(ctx context.Context, productIDs []int64) ([]models.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
