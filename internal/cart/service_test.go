package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/juvshop/juv-backend/pkg/db/models"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
)

type stubCartRepo struct {
	added      map[uuid.UUID]int
	updateRows int64
	deleteRows int64
	items      []models.CartItem
	cleared    bool
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) AddQuantity(ctx context.Context, telegramID int64, productID uuid.UUID, quantity int) error {
	if s.added == nil {
		s.added = map[uuid.UUID]int{}
	}
	s.added[productID] += quantity
	return nil
}

func (s *stubCartRepo) UpdateQuantity(ctx context.Context, telegramID int64, itemID uuid.UUID, quantity int) (int64, error) {
	return s.updateRows, nil
}

func (s *stubCartRepo) Delete(ctx context.Context, telegramID int64, itemID uuid.UUID) (int64, error) {
	return s.deleteRows, nil
}

func (s *stubCartRepo) ListWithProducts(ctx context.Context, telegramID int64) ([]models.CartItem, error) {
	return s.items, nil
}

func (s *stubCartRepo) Clear(ctx context.Context, telegramID int64) error {
	s.cleared = true
	return nil
}

type stubProducts struct {
	product *models.Product
	err     error
}

func (s *stubProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	repo := &stubCartRepo{}
	svc, err := NewService(repo, &stubProducts{product: &models.Product{}})
	require.NoError(t, err)

	for _, qty := range []int{0, -1} {
		err := svc.AddItem(context.Background(), 42, uuid.New(), qty)
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	}
	assert.Empty(t, repo.added)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, err := NewService(&stubCartRepo{}, &stubProducts{err: gorm.ErrRecordNotFound})
	require.NoError(t, err)

	err = svc.AddItem(context.Background(), 42, uuid.New(), 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestAddItemAccumulates(t *testing.T) {
	repo := &stubCartRepo{}
	svc, err := NewService(repo, &stubProducts{product: &models.Product{}})
	require.NoError(t, err)

	productID := uuid.New()
	require.NoError(t, svc.AddItem(context.Background(), 42, productID, 1))
	require.NoError(t, svc.AddItem(context.Background(), 42, productID, 2))
	assert.Equal(t, 3, repo.added[productID])
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	repo := &stubCartRepo{deleteRows: 1}
	svc, err := NewService(repo, &stubProducts{product: &models.Product{}})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(context.Background(), 42, uuid.New(), 0))
}

func TestUpdateQuantityMissingRow(t *testing.T) {
	repo := &stubCartRepo{updateRows: 0}
	svc, err := NewService(repo, &stubProducts{product: &models.Product{}})
	require.NoError(t, err)

	err = svc.UpdateQuantity(context.Background(), 42, uuid.New(), 3)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	repo := &stubCartRepo{deleteRows: 0}
	svc, err := NewService(repo, &stubProducts{product: &models.Product{}})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), 42, uuid.New()))
}
