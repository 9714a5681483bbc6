package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/modamarket/backend/pkg/db/models"
	"github.com/modamarket/backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  status TEXT NOT NULL,
  items_subtotal INTEGER NOT NULL,
  discount_amount INTEGER NOT NULL DEFAULT 0,
  shipping_fee INTEGER NOT NULL,
  used_points INTEGER NOT NULL DEFAULT 0,
  amount_due INTEGER NOT NULL,
  raw_amount_due INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id TEXT NOT NULL,
  product_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  size INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price INTEGER NOT NULL
);`
	require.NoError(t, conn.Exec(orders).Error)
	require.NoError(t, conn.Exec(items).Error)
	return conn
}

func TestRepositoryCreateAndFindByIDAndUser(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        77,
		Status:        enums.OrderStatusDraft,
		ItemsSubtotal: 59000,
		ShippingFee:   3000,
		UsedPoints:    1000,
		AmountDue:     61000,
		Items: []models.OrderItem{
			{ProductID: 1, Name: "베이직 슬랙스", Size: 270, Quantity: 2, UnitPrice: 19000},
			{ProductID: 3, Name: "오버핏 셔츠", Size: 260, Quantity: 1, UnitPrice: 21000},
		},
	}
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.FindByIDAndUser(ctx, order.ID, 77)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDraft, got.Status)
	assert.Equal(t, 61000, got.AmountDue)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "베이직 슬랙스", got.Items[0].Name)
	assert.Equal(t, order.ID, got.Items[0].OrderID)
}

func TestRepositoryFindByIDAndUserScopesToOwner(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        77,
		Status:        enums.OrderStatusDraft,
		ItemsSubtotal: 10000,
		ShippingFee:   3000,
		AmountDue:     13000,
	}
	require.NoError(t, repo.Create(ctx, order))

	_, err := repo.FindByIDAndUser(ctx, order.ID, 78)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryWithTxRebinds(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	id := uuid.New()
	err := conn.Transaction(func(tx *gorm.DB) error {
		return repo.WithTx(tx).Create(ctx, &models.Order{
			ID:            id,
			UserID:        5,
			Status:        enums.OrderStatusDraft,
			ItemsSubtotal: 5000,
			ShippingFee:   3000,
			AmountDue:     8000,
		})
	})
	require.NoError(t, err)

	got, err := repo.FindByIDAndUser(ctx, id, 5)
	require.NoError(t, err)
	assert.Equal(t, 8000, got.AmountDue)
}
