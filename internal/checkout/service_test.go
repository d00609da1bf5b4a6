package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/juvshop/juv-backend/internal/orders"
	"github.com/juvshop/juv-backend/pkg/db/models"
	"github.com/juvshop/juv-backend/pkg/enums"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
	"github.com/juvshop/juv-backend/pkg/logger"
)

type stubCart struct {
	items      []models.CartItem
	listErr    error
	clearErr   error
	listCalls  int
	clearCalls int
}

func (s *stubCart) AddItem(context.Context, int64, uuid.UUID, int) error { return nil }
func (s *stubCart) UpdateQuantity(context.Context, int64, uuid.UUID, int) error {
	return nil
}
func (s *stubCart) RemoveItem(context.Context, int64, uuid.UUID) error { return nil }

func (s *stubCart) List(context.Context, int64) ([]models.CartItem, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.items, nil
}

func (s *stubCart) Clear(context.Context, int64) error {
	s.clearCalls++
	return s.clearErr
}

type stubOrders struct {
	created   []*models.Order
	createErr error
}

func (s *stubOrders) WithTx(*gorm.DB) orders.Repository { return s }

func (s *stubOrders) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	order.ID = uuid.New()
	s.created = append(s.created, order)
	return order, nil
}

func (s *stubOrders) ListByUser(context.Context, int64) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrders) Count(context.Context) (int64, error) { return int64(len(s.created)), nil }

func cartLine(priceCents int64, quantity int) models.CartItem {
	productID := uuid.New()
	return models.CartItem{
		ID:         uuid.New(),
		TelegramID: 42,
		ProductID:  productID,
		Quantity:   quantity,
		Product: &models.Product{
			ID:         productID,
			Title:      "Кольцо с сапфиром",
			PriceCents: priceCents,
			IsActive:   true,
		},
	}
}

func newTestService(t *testing.T, cartStub *stubCart, orderStub *stubOrders) Service {
	t.Helper()
	svc, err := NewService(cartStub, orderStub, logger.New(logger.Options{ServiceName: "test"}), nil)
	require.NoError(t, err)
	return svc
}

func validContact() Contact {
	return Contact{Email: "anna@example.com", Phone: "+7 (921) 555-01-02"}
}

func TestSubmitRejectsBadContactBeforeAnyStoreAccess(t *testing.T) {
	cartStub := &stubCart{items: []models.CartItem{cartLine(1000, 1)}}
	orderStub := &stubOrders{}
	svc := newTestService(t, cartStub, orderStub)

	cases := []Contact{
		{Email: "", Phone: "+79215550102"},
		{Email: "not-an-email", Phone: "+79215550102"},
		{Email: "anna@example.com", Phone: ""},
		{Email: "anna@example.com", Phone: "12345"},
	}
	for _, contact := range cases {
		_, err := svc.Submit(context.Background(), 42, contact)
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "contact %+v", contact)
	}

	assert.Zero(t, cartStub.listCalls)
	assert.Empty(t, orderStub.created)
}

func TestSubmitValidationDetailsNameFields(t *testing.T) {
	svc := newTestService(t, &stubCart{}, &stubOrders{})

	_, err := svc.Submit(context.Background(), 42, Contact{Email: "nope", Phone: ""})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	fields, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone")
}

func TestSubmitEmptyCart(t *testing.T) {
	cartStub := &stubCart{}
	orderStub := &stubOrders{}
	svc := newTestService(t, cartStub, orderStub)

	_, err := svc.Submit(context.Background(), 42, validContact())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart))
	assert.Empty(t, orderStub.created)
	assert.Zero(t, cartStub.clearCalls)
}

func TestSubmitPricesFromLiveCatalog(t *testing.T) {
	cartStub := &stubCart{items: []models.CartItem{
		cartLine(1000, 2),
		cartLine(500, 1),
	}}
	orderStub := &stubOrders{}
	svc := newTestService(t, cartStub, orderStub)

	order, err := svc.Submit(context.Background(), 42, validContact())
	require.NoError(t, err)

	assert.Equal(t, int64(2500), order.TotalCents)
	assert.Equal(t, enums.OrderStatusNew, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(2000), order.Items[0].LineTotalCents)
	assert.Equal(t, int64(500), order.Items[1].LineTotalCents)
	assert.Equal(t, 1, cartStub.clearCalls)
}

func TestSubmitPriceUnavailable(t *testing.T) {
	orphan := cartLine(1000, 1)
	orphan.Product = nil
	cartStub := &stubCart{items: []models.CartItem{orphan}}
	orderStub := &stubOrders{}
	svc := newTestService(t, cartStub, orderStub)

	_, err := svc.Submit(context.Background(), 42, validContact())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodePriceUnavailable))
	assert.Empty(t, orderStub.created)
	assert.Zero(t, cartStub.clearCalls)
}

func TestSubmitOrderWriteFailureLeavesCart(t *testing.T) {
	cartStub := &stubCart{items: []models.CartItem{cartLine(1000, 1)}}
	orderStub := &stubOrders{createErr: fmt.Errorf("connection reset")}
	svc := newTestService(t, cartStub, orderStub)

	_, err := svc.Submit(context.Background(), 42, validContact())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeOrderCreation))
	assert.Zero(t, cartStub.clearCalls)
}

func TestSubmitClearFailureStillReturnsOrder(t *testing.T) {
	cartStub := &stubCart{
		items:    []models.CartItem{cartLine(1000, 1)},
		clearErr: fmt.Errorf("connection reset"),
	}
	orderStub := &stubOrders{}
	svc := newTestService(t, cartStub, orderStub)

	order, err := svc.Submit(context.Background(), 42, validContact())
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, int64(1000), order.TotalCents)
	require.Len(t, orderStub.created, 1)
}
