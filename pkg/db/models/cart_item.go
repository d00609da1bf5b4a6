package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem holds one product/quantity pair in a user's cart. A user has at
// most one row per product; quantity is always >= 1 once persisted.
type CartItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TelegramID int64     `gorm:"column:telegram_id;not null;uniqueIndex:idx_cart_user_product"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	Quantity   int       `gorm:"column:quantity;not null"`
	Product    *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
