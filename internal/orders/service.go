package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modamarket/backend/internal/pricing"
	"github.com/modamarket/backend/pkg/db/models"
	"github.com/modamarket/backend/pkg/enums"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OrderRepository abstracts order persistence for the service layer.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(ctx context.Context, order *models.Order) error
	FindByIDAndUser(ctx context.Context, id uuid.UUID, userID int64) (*models.Order, error)
}

// PrepareLine is one cart line entering order preparation.
type PrepareLine struct {
	ProductID   int64
	ProductName string
	Size        int
	Quantity    int
	UnitPrice   int
	Discount    int
}

// PrepareResult carries the draft order and the order sheet redirect
// target.
type PrepareResult struct {
	Order       *models.Order
	RedirectURL string
}

// Service exposes order preparation and order sheet reads.
type Service interface {
	Prepare(ctx context.Context, userID int64, lines []PrepareLine, bonusPointsUsed int) (*PrepareResult, error)
	Get(ctx context.Context, userID int64, orderID uuid.UUID) (*models.Order, error)
}

type balanceReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type service struct {
	repo             OrderRepository
	tx               txRunner
	balances         balanceReader
	shippingFee      int
	minBonusPointUse int
	orderSheetPath   string
}

// NewService wires order dependencies.
func NewService(repo OrderRepository, tx txRunner, balances balanceReader, shippingFee, minBonusPointUse int, orderSheetPath string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if balances == nil {
		return nil, fmt.Errorf("balance reader required")
	}
	if orderSheetPath == "" {
		return nil, fmt.Errorf("order sheet path required")
	}
	return &service{
		repo:             repo,
		tx:               tx,
		balances:         balances,
		shippingFee:      shippingFee,
		minBonusPointUse: minBonusPointUse,
		orderSheetPath:   strings.TrimSuffix(orderSheetPath, "/"),
	}, nil
}

// Prepare snapshots the lines into a draft order and returns the order
// sheet URL the shopper is redirected to. Prices are copied from the
// lines so later catalog edits do not move a drafted order.
func (s *service) Prepare(ctx context.Context, userID int64, lines []PrepareLine, bonusPointsUsed int) (*PrepareResult, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}

	priced := make([]pricing.Line, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		priced = append(priced, pricing.Line{
			ProductID: line.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Discount:  line.Discount,
		})
	}
	if bonusPointsUsed > 0 {
		user, err := s.balances.FindByID(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bonus point balance")
		}
		payable := pricing.Compute(priced, s.shippingFee, 0).FinalAmount
		bonusPointsUsed = pricing.ClampBonusPoints(bonusPointsUsed, user.BonusPoints, payable, s.minBonusPointUse)
	}
	summary := pricing.Compute(priced, s.shippingFee, bonusPointsUsed)

	order := &models.Order{
		ID:             uuid.New(),
		UserID:         userID,
		Status:         enums.OrderStatusDraft,
		ItemsSubtotal:  summary.ProductAmount,
		DiscountAmount: summary.DiscountAmount,
		ShippingFee:    summary.ShippingFee,
		UsedPoints:     bonusPointsUsed,
		AmountDue:      summary.FinalAmount,
		RawAmountDue:   summary.RawFinalAmount,
	}
	for _, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Name:      line.ProductName,
			Size:      line.Size,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist draft order")
	}

	return &PrepareResult{
		Order:       order,
		RedirectURL: fmt.Sprintf("%s/%s", s.orderSheetPath, order.ID),
	}, nil
}

// Get loads an order sheet for its owner.
func (s *service) Get(ctx context.Context, userID int64, orderID uuid.UUID) (*models.Order, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
