package users

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/juvshop/juv-backend/pkg/db/models"
)

// Repository manages the lazily created user records.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Ensure upserts the first-seen record for a Telegram identity. The username
// is refreshed on conflict since handles change.
func (r *Repository) Ensure(ctx context.Context, telegramID int64, username, firstName *string) error {
	user := models.User{
		TelegramID:       telegramID,
		TelegramUsername: username,
		FirstName:        firstName,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"telegram_username", "updated_at"}),
		}).
		Create(&user).Error
}

// Count returns the total number of known users.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}
