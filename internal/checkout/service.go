package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/juvshop/juv-backend/internal/cart"
	"github.com/juvshop/juv-backend/internal/orders"
	"github.com/juvshop/juv-backend/pkg/db/models"
	"github.com/juvshop/juv-backend/pkg/enums"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
	"github.com/juvshop/juv-backend/pkg/logger"
	"github.com/juvshop/juv-backend/pkg/metrics"
)

// Service runs the order submission pipeline: validate the contact, load
// the cart, reprice every line from the live catalog, write the order, then
// clear the cart. The order is the source of truth once written; a failed
// cart clear is logged and the order stands.
type Service interface {
	Submit(ctx context.Context, telegramID int64, contact Contact) (*models.Order, error)
}

type service struct {
	cart    cart.Service
	orders  orders.Repository
	logg    *logger.Logger
	metrics *metrics.BotMetrics
}

// NewService builds a checkout service.
func NewService(cartSvc cart.Service, orderRepo orders.Repository, logg *logger.Logger, botMetrics *metrics.BotMetrics) (Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		cart:    cartSvc,
		orders:  orderRepo,
		logg:    logg,
		metrics: botMetrics,
	}, nil
}

func (s *service) Submit(ctx context.Context, telegramID int64, contact Contact) (*models.Order, error) {
	if err := validateContact(contact); err != nil {
		return nil, err
	}

	items, err := s.cart.List(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	lines, totalCents, err := priceLines(items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		TelegramID: telegramID,
		Email:      contact.Email,
		Phone:      contact.Phone,
		Items:      lines,
		TotalCents: totalCents,
		Status:     enums.OrderStatusNew,
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderCreation, err, "create order")
	}
	s.metrics.IncOrderCreated()

	// The order is already durable; a cart left behind surfaces as a
	// duplicate submission risk, not a lost order, so only log it.
	if err := s.cart.Clear(ctx, telegramID); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"telegram_id": telegramID,
			"order_id":    created.ID,
		})
		s.logg.Error(logCtx, "cart.clear.failed", err)
	}

	return created, nil
}

// priceLines snapshots each cart line at the catalog price read during this
// submission. Prices stored on cart rows (if any client sent them) are
// ignored.
func priceLines(items []models.CartItem) (models.OrderItems, int64, error) {
	lines := make(models.OrderItems, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			return nil, 0, pkgerrors.New(pkgerrors.CodePriceUnavailable, "product price unavailable").
				WithDetails(map[string]string{"product_id": item.ProductID.String()})
		}
		unit := decimal.NewFromInt(item.Product.PriceCents)
		line := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines = append(lines, models.OrderItem{
			ProductID:      item.ProductID,
			Title:          item.Product.Title,
			UnitPriceCents: unit.IntPart(),
			Quantity:       item.Quantity,
			LineTotalCents: line.IntPart(),
		})
		total = total.Add(line)
	}
	return lines, total.IntPart(), nil
}
