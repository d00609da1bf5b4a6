package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/juvshop/juv-backend/pkg/enums"
)

// OrderItem is the frozen per-line snapshot embedded in an order. Later
// catalog changes never alter it.
type OrderItem struct {
	ProductID      uuid.UUID `json:"product_id"`
	Title          string    `json:"title"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int64     `json:"line_total_cents"`
}

// OrderItems is stored as a single jsonb column.
type OrderItems []OrderItem

// Order records a completed cart submission.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TelegramID int64             `gorm:"column:telegram_id;not null;index"`
	Email      string            `gorm:"column:email;not null"`
	Phone      string            `gorm:"column:phone;not null"`
	Items      OrderItems        `gorm:"column:items;type:jsonb;serializer:json;not null"`
	TotalCents int64             `gorm:"column:total_cents;not null"`
	Status     enums.OrderStatus `gorm:"column:status;not null;default:'new'"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
