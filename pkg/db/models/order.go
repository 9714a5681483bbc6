package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/modamarket/backend/pkg/enums"
)

// Order is a draft order sheet created by checkout preparation. It is
// keyed by a UUID so the order page URL is not guessable.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID         int64             `gorm:"column:user_id;index;not null"`
	Status         enums.OrderStatus `gorm:"column:status;not null"`
	ItemsSubtotal  int               `gorm:"column:items_subtotal;not null"`
	DiscountAmount int               `gorm:"column:discount_amount;not null;default:0"`
	ShippingFee    int               `gorm:"column:shipping_fee;not null"`
	UsedPoints     int               `gorm:"column:used_points;not null;default:0"`
	AmountDue      int               `gorm:"column:amount_due;not null"`
	RawAmountDue   int               `gorm:"column:raw_amount_due;not null;default:0"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots one cart line into an order at preparation time.
// UnitPrice is copied from the product so later price changes do not
// move a drafted order.
type OrderItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;index;not null"`
	ProductID int64     `gorm:"column:product_id;not null"`
	Name      string    `gorm:"column:name;not null"`
	Size      int       `gorm:"column:size;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	UnitPrice int       `gorm:"column:unit_price;not null"`
}
