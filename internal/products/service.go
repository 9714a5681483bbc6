package products

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/modamarket/backend/pkg/db/models"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
)

// SizeOption is one selectable size for a product with its remaining
// stock. Size 0 is the one-size ("Free") sentinel; zero stock marks
// the option disabled.
type SizeOption struct {
	Size          int   `json:"size"`
	StockQuantity int   `json:"stockQuantity"`
	ProductID     int64 `json:"productId"`
	Disabled      bool  `json:"disabled"`
}

type productReader interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	ListSizes(ctx context.Context, productID int64) ([]models.ProductSize, error)
}

// Service exposes product reads for cart and checkout.
type Service interface {
	GetProduct(ctx context.Context, productID int64) (*models.Product, error)
	SizeOptions(ctx context.Context, productID int64) ([]SizeOption, error)
}

type service struct {
	repo productReader
}

// NewService wires product dependencies.
func NewService(repo productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// GetProduct loads an active product by id.
func (s *service) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not available")
	}
	return product, nil
}

// SizeOptions returns the product's sizes with stock, sold-out sizes
// marked disabled.
func (s *service) SizeOptions(ctx context.Context, productID int64) ([]SizeOption, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListSizes(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product sizes")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product has no size options")
	}

	options := make([]SizeOption, 0, len(rows))
	for _, row := range rows {
		options = append(options, SizeOption{
			Size:          row.Size,
			StockQuantity: row.StockQuantity,
			ProductID:     row.ProductID,
			Disabled:      row.StockQuantity == 0,
		})
	}
	return options, nil
}
