package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/juvshop/juv-backend/pkg/db/models"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service applies the cart quantity invariants on top of the repository.
type Service interface {
	// AddItem increments the (user, product) row by quantity, creating it
	// when absent. Stock sufficiency is not checked here; overselling is
	// resolved at fulfillment.
	AddItem(ctx context.Context, telegramID int64, productID uuid.UUID, quantity int) error
	// UpdateQuantity overwrites the quantity. A value below 1 removes the
	// row instead, so a persisted quantity is always >= 1.
	UpdateQuantity(ctx context.Context, telegramID int64, itemID uuid.UUID, quantity int) error
	// RemoveItem deletes the row. Removing an absent item is a no-op.
	RemoveItem(ctx context.Context, telegramID int64, itemID uuid.UUID) error
	// List returns cart items with a live product snapshot, insertion order.
	List(ctx context.Context, telegramID int64) ([]models.CartItem, error)
	// Clear empties the user's cart. Reserved for the checkout pipeline.
	Clear(ctx context.Context, telegramID int64) error
}

type service struct {
	repo     Repository
	products productLoader
}

// NewService builds a cart service.
func NewService(repo Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) AddItem(ctx context.Context, telegramID int64, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.AddQuantity(ctx, telegramID, productID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return nil
}

func (s *service) UpdateQuantity(ctx context.Context, telegramID int64, itemID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, telegramID, itemID)
	}
	rows, err := s.repo.UpdateQuantity(ctx, telegramID, itemID, quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

func (s *service) RemoveItem(ctx context.Context, telegramID int64, itemID uuid.UUID) error {
	if _, err := s.repo.Delete(ctx, telegramID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return nil
}

func (s *service) List(ctx context.Context, telegramID int64) ([]models.CartItem, error) {
	items, err := s.repo.ListWithProducts(ctx, telegramID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}
	return items, nil
}

func (s *service) Clear(ctx context.Context, telegramID int64) error {
	if err := s.repo.Clear(ctx, telegramID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
