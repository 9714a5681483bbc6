package models

import "time"

// Product is a sellable item. Pricing is integral KRW.
type Product struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Price     int       `gorm:"column:price;not null"`
	ImageURL  string    `gorm:"column:image_url"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Sizes []ProductSize `gorm:"foreignKey:ProductID"`
}

// ProductSize is a per-size stock row. Size 0 is the one-size
// ("Free") sentinel.
type ProductSize struct {
	ID            int64 `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID     int64 `gorm:"column:product_id;index:idx_product_size,unique;not null"`
	Size          int   `gorm:"column:size;index:idx_product_size,unique;not null"`
	StockQuantity int   `gorm:"column:stock_quantity;not null;default:0"`
}
