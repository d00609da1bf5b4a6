package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/juvshop/juv-backend/pkg/enums"
)

// ActionLog captures one user activity event. Writes are fire-and-forget;
// the table feeds the admin stats command.
type ActionLog struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TelegramID       int64            `gorm:"column:telegram_id;not null;index"`
	TelegramUsername *string          `gorm:"column:telegram_username"`
	ActionType       enums.ActionType `gorm:"column:action_type;not null"`
	Metadata         map[string]any   `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName keeps the table name the admin tooling expects.
func (ActionLog) TableName() string {
	return "logs"
}
