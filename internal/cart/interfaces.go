package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/modamarket/backend/pkg/db/models"
)

// CartRepository abstracts cart line persistence for the service layer.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	ListByUser(ctx context.Context, userID int64) ([]models.CartItem, error)
	FindLine(ctx context.Context, userID, productID int64, size int) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	Save(ctx context.Context, item *models.CartItem) error
	DeleteLines(ctx context.Context, userID int64, keys []LineKey) (int64, error)
}

// LineKey identifies one cart line for deletion.
type LineKey struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Size      int   `json:"size" validate:"gte=0"`
}
