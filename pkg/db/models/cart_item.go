package models

import "time"

// CartItem is one cart line. A line is keyed by (user, product, size):
// adding the same product and size again merges quantities instead of
// creating a second row.
type CartItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;index:idx_cart_line,unique;not null"`
	ProductID int64     `gorm:"column:product_id;index:idx_cart_line,unique;not null"`
	Size      int       `gorm:"column:size;index:idx_cart_line,unique;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	UnitPrice int       `gorm:"column:unit_price;not null"`
	Discount  int       `gorm:"column:discount;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Product Product `gorm:"foreignKey:ProductID"`
}
