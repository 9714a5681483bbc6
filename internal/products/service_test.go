package products

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/modamarket/backend/pkg/db/models"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
)

type stubRepo struct {
	product *models.Product
	sizes   []models.ProductSize
	getErr  error
}

func (s *stubRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.product, nil
}

func (s *stubRepo) ListSizes(ctx context.Context, productID int64) ([]models.ProductSize, error) {
	return s.sizes, nil
}

func TestSizeOptionsMarksSoldOutDisabled(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		product: &models.Product{ID: 1, Name: "runner", Price: 59000, Active: true},
		sizes: []models.ProductSize{
			{ProductID: 1, Size: 0, StockQuantity: 3},
			{ProductID: 1, Size: 250, StockQuantity: 0},
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	options, err := svc.SizeOptions(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	if options[0].Disabled {
		t.Fatalf("in-stock size must not be disabled: %+v", options[0])
	}
	if !options[1].Disabled {
		t.Fatalf("sold-out size must be disabled: %+v", options[1])
	}
	if options[1].ProductID != 1 {
		t.Fatalf("option must carry product id: %+v", options[1])
	}
}

func TestGetProductHidesInactive(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{product: &models.Product{ID: 1, Active: false}}
	svc, _ := NewService(repo)

	_, err := svc.GetProduct(context.Background(), 1)
	if err == nil {
		t.Fatal("expected inactive product to be hidden")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{getErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo)

	_, err := svc.GetProduct(context.Background(), 404)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}
