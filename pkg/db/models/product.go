package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog listing. The core reads it; admin CRUD
// happens elsewhere.
type Product struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title             string    `gorm:"column:title;not null"`
	Description       *string   `gorm:"column:description"`
	Category          *string   `gorm:"column:category"`
	ImageURL          *string   `gorm:"column:image_url"`
	PriceCents        int64     `gorm:"column:price_cents;not null"`
	QuantityAvailable int       `gorm:"column:quantity_available;not null;default:0"`
	IsActive          bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
