package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/modamarket/backend/internal/pricing"
	"github.com/modamarket/backend/internal/products"
	"github.com/modamarket/backend/pkg/db/models"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	SizeOptions(ctx context.Context, productID int64) ([]products.SizeOption, error)
	GetProduct(ctx context.Context, productID int64) (*models.Product, error)
}

type balanceReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Service exposes cart persistence operations.
type Service interface {
	AddItems(ctx context.Context, userID int64, items []AddItemInput) error
	List(ctx context.Context, userID int64) ([]models.CartItem, error)
	Summary(ctx context.Context, userID int64, bonusPointsUsed int) (pricing.Summary, error)
	UpdateOption(ctx context.Context, userID int64, change OptionChange) error
	Delete(ctx context.Context, userID int64, keys []LineKey) (int64, error)
}

type service struct {
	repo             CartRepository
	tx               txRunner
	products         productLoader
	balances         balanceReader
	shippingFee      int
	minBonusPointUse int
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, products productLoader, balances balanceReader, shippingFee, minBonusPointUse int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if balances == nil {
		return nil, fmt.Errorf("balance reader required")
	}
	if shippingFee < 0 {
		return nil, fmt.Errorf("shipping fee must be non-negative")
	}
	if minBonusPointUse < 0 {
		return nil, fmt.Errorf("minimum bonus point use must be non-negative")
	}
	return &service{
		repo:             repo,
		tx:               tx,
		products:         products,
		balances:         balances,
		shippingFee:      shippingFee,
		minBonusPointUse: minBonusPointUse,
	}, nil
}

// AddItemInput is one line of a cart add request.
type AddItemInput struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Size      int   `json:"size" validate:"gte=0"`
	Quantity  int   `json:"productQuantity" validate:"required,gte=1"`
}

// AddItems validates and inserts new cart lines. A line already in the
// cart on the same (product, size) key is a conflict, matching the
// storefront contract where the add call fails and the shopper edits
// the existing line instead.
func (s *service) AddItems(ctx context.Context, userID int64, items []AddItemInput) error {
	if userID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for _, item := range items {
			if item.Quantity < 1 {
				return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
			}

			product, err := s.products.GetProduct(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}

			stock, err := sizeStock(ctx, s.products, item.ProductID, item.Size)
			if err != nil {
				return err
			}
			if stock < item.Quantity {
				return pkgerrors.New(pkgerrors.CodeStockIssue, "requested quantity exceeds stock").
					WithDetails(map[string]any{"stock": stock})
			}

			if _, err := txRepo.FindLine(ctx, userID, item.ProductID, item.Size); err == nil {
				return pkgerrors.New(pkgerrors.CodeConflict, "item already in cart")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cart line")
			}

			line := &models.CartItem{
				UserID:    userID,
				ProductID: item.ProductID,
				Size:      item.Size,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			}
			if err := txRepo.Create(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart line")
			}
		}
		return nil
	})
}

// List returns the user's cart lines in insertion order.
func (s *service) List(ctx context.Context, userID int64) ([]models.CartItem, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	return rows, nil
}

// Summary computes the order summary over every cart line. The
// requested bonus point spend is clamped against the user's balance
// and the payable amount before it enters the calculation.
func (s *service) Summary(ctx context.Context, userID int64, bonusPointsUsed int) (pricing.Summary, error) {
	rows, err := s.List(ctx, userID)
	if err != nil {
		return pricing.Summary{}, err
	}
	lines := make([]pricing.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, pricing.Line{
			ProductID: row.ProductID,
			Size:      row.Size,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
			Discount:  row.Discount,
		})
	}

	if bonusPointsUsed > 0 {
		user, err := s.balances.FindByID(ctx, userID)
		if err != nil {
			return pricing.Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bonus point balance")
		}
		payable := pricing.Compute(lines, s.shippingFee, 0).FinalAmount
		bonusPointsUsed = pricing.ClampBonusPoints(bonusPointsUsed, user.BonusPoints, payable, s.minBonusPointUse)
	}

	return pricing.Compute(lines, s.shippingFee, bonusPointsUsed), nil
}

// UpdateOption applies a size/quantity change atomically. The change
// is validated through an OptionEditor against the product's current
// size options, so sold-out sizes and stock overflows are rejected
// before anything is written.
func (s *service) UpdateOption(ctx context.Context, userID int64, change OptionChange) error {
	if userID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if change.ProductID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if change.NewQuantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	options, err := s.products.SizeOptions(ctx, change.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load size options")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		line, err := txRepo.FindLine(ctx, userID, change.ProductID, change.PrevSize)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cart line")
		}

		editor := NewOptionEditor(change.ProductID, line.Size, line.Quantity, line.UnitPrice*line.Quantity, options)
		if change.NewSize != line.Size {
			if err := editor.SelectSize(change.NewSize); err != nil {
				return err
			}
		}
		if err := editor.SetQuantity(change.NewQuantity); err != nil {
			return err
		}

		if change.NewSize != change.PrevSize {
			if _, err := txRepo.FindLine(ctx, userID, change.ProductID, change.NewSize); err == nil {
				return pkgerrors.New(pkgerrors.CodeConflict, "item with selected option already in cart")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup target line")
			}
		}

		applied := editor.Change()
		line.Size = applied.NewSize
		line.Quantity = applied.NewQuantity
		if err := txRepo.Save(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
		}
		return nil
	})
}

// Delete removes the identified cart lines.
func (s *service) Delete(ctx context.Context, userID int64, keys []LineKey) (int64, error) {
	if userID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(keys) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	deleted, err := s.repo.DeleteLines(ctx, userID, keys)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart lines")
	}
	return deleted, nil
}

func sizeStock(ctx context.Context, loader productLoader, productID int64, size int) (int, error) {
	options, err := loader.SizeOptions(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load size options")
	}
	for _, opt := range options {
		if opt.Size == size {
			return opt.StockQuantity, nil
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeNotFound, "size not offered for this product")
}
