package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/juvshop/juv-backend/pkg/db/models"
)

// Repository defines the persistence surface required by the cart service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// AddQuantity applies a single atomic insert-or-increment for the
	// (user, product) row so concurrent adds never lose an increment.
	AddQuantity(ctx context.Context, telegramID int64, productID uuid.UUID, quantity int) error
	UpdateQuantity(ctx context.Context, telegramID int64, itemID uuid.UUID, quantity int) (int64, error)
	Delete(ctx context.Context, telegramID int64, itemID uuid.UUID) (int64, error)
	ListWithProducts(ctx context.Context, telegramID int64) ([]models.CartItem, error)
	Clear(ctx context.Context, telegramID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a cart repository to the provided DB handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) AddQuantity(ctx context.Context, telegramID int64, productID uuid.UUID, quantity int) error {
	item := models.CartItem{
		ID:         uuid.New(),
		TelegramID: telegramID,
		ProductID:  productID,
		Quantity:   quantity,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "telegram_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
			}),
		}).
		Create(&item).Error
}

func (r *repository) UpdateQuantity(ctx context.Context, telegramID int64, itemID uuid.UUID, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND telegram_id = ?", itemID, telegramID).
		Update("quantity", quantity)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, telegramID int64, itemID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND telegram_id = ?", itemID, telegramID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *repository) ListWithProducts(ctx context.Context, telegramID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("telegram_id = ?", telegramID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Clear(ctx context.Context, telegramID int64) error {
	return r.db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		Delete(&models.CartItem{}).Error
}
