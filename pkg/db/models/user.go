package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the lazily created record for a Telegram identity. It is written
// on first contact and never deleted by the core.
type User struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TelegramID       int64     `gorm:"column:telegram_id;not null;uniqueIndex"`
	TelegramUsername *string   `gorm:"column:telegram_username"`
	FirstName        *string   `gorm:"column:first_name"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
