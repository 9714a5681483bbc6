package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modamarket/backend/internal/pricing"
	"github.com/modamarket/backend/pkg/db/models"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
)

type stubRepo struct {
	created *models.Order
}

func (s *stubRepo) WithTx(tx *gorm.DB) OrderRepository { return s }

func (s *stubRepo) Create(ctx context.Context, order *models.Order) error {
	s.created = order
	return nil
}

func (s *stubRepo) FindByIDAndUser(ctx context.Context, id uuid.UUID, userID int64) (*models.Order, error) {
	if s.created != nil && s.created.ID == id && s.created.UserID == userID {
		return s.created, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubBalanceReader struct {
	points int
}

func (s stubBalanceReader) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id, BonusPoints: s.points}, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo OrderRepository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, stubBalanceReader{points: 10000}, pricing.ShippingFee, 1000, "/order")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestPrepareSnapshotsLinesAndBuildsRedirect(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc := newTestService(t, repo)

	res, err := svc.Prepare(context.Background(), 7, []PrepareLine{
		{ProductID: 1, ProductName: "white runner", Size: 250, Quantity: 1, UnitPrice: 15000},
		{ProductID: 2, ProductName: "black hoodie", Size: 0, Quantity: 2, UnitPrice: 5000},
	}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.created == nil {
		t.Fatal("expected order to be persisted")
	}
	if repo.created.ItemsSubtotal != 25000 {
		t.Fatalf("items subtotal = %d, want 25000", repo.created.ItemsSubtotal)
	}
	if repo.created.AmountDue != 28000 {
		t.Fatalf("amount due = %d, want 28000", repo.created.AmountDue)
	}
	if len(repo.created.Items) != 2 {
		t.Fatalf("expected 2 snapshot items, got %d", len(repo.created.Items))
	}
	if repo.created.Items[0].UnitPrice != 15000 || repo.created.Items[0].Name != "white runner" {
		t.Fatalf("snapshot lost line data: %+v", repo.created.Items[0])
	}

	want := "/order/" + repo.created.ID.String()
	if res.RedirectURL != want {
		t.Fatalf("redirect url = %q, want %q", res.RedirectURL, want)
	}
}

func TestPrepareAppliesBonusPoints(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc := newTestService(t, repo)

	res, err := svc.Prepare(context.Background(), 7, []PrepareLine{
		{ProductID: 1, ProductName: "tote", Quantity: 1, UnitPrice: 10000},
	}, 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.UsedPoints != 2000 {
		t.Fatalf("used points = %d, want 2000", res.Order.UsedPoints)
	}
	if res.Order.AmountDue != 10000-2000+pricing.ShippingFee {
		t.Fatalf("amount due = %d", res.Order.AmountDue)
	}
	if res.Order.DiscountAmount != 2000 {
		t.Fatalf("discount amount = %d, want 2000", res.Order.DiscountAmount)
	}
	if res.Order.RawAmountDue != res.Order.AmountDue {
		t.Fatalf("raw amount due = %d, want %d", res.Order.RawAmountDue, res.Order.AmountDue)
	}
}

func TestPrepareClampsBonusPointsToBalance(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc := newTestService(t, repo) // balance 10000, minimum spend 1000

	res, err := svc.Prepare(context.Background(), 7, []PrepareLine{
		{ProductID: 1, ProductName: "tote", Quantity: 1, UnitPrice: 50000},
	}, 999_999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.UsedPoints != 10000 {
		t.Fatalf("used points = %d, want 10000 (capped at balance)", res.Order.UsedPoints)
	}
	if res.Order.AmountDue != 50000-10000+pricing.ShippingFee {
		t.Fatalf("amount due = %d", res.Order.AmountDue)
	}
}

func TestPrepareRejectsEmptyLines(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubRepo{})
	_, err := svc.Prepare(context.Background(), 7, nil, 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetRestrictsToOwner(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc := newTestService(t, repo)

	res, err := svc.Prepare(context.Background(), 7, []PrepareLine{
		{ProductID: 1, ProductName: "tote", Quantity: 1, UnitPrice: 10000},
	}, 0)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}

	if _, err := svc.Get(context.Background(), 7, res.Order.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}

	_, err = svc.Get(context.Background(), 8, res.Order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found for other user, got %v", err)
	}
}

func TestNewServiceValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, stubTxRunner{}, stubBalanceReader{}, 0, 0, "/order"); err == nil || !strings.Contains(err.Error(), "repository") {
		t.Fatalf("expected repository error, got %v", err)
	}
	if _, err := NewService(&stubRepo{}, stubTxRunner{}, stubBalanceReader{}, 0, 0, ""); err == nil || !strings.Contains(err.Error(), "path") {
		t.Fatalf("expected path error, got %v", err)
	}
}
