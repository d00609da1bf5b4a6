package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/juvshop/juv-backend/api/middleware"
	"github.com/juvshop/juv-backend/api/responses"
	"github.com/juvshop/juv-backend/api/validators"
	checkoutsvc "github.com/juvshop/juv-backend/internal/checkout"
	"github.com/juvshop/juv-backend/pkg/db/models"
	"github.com/juvshop/juv-backend/pkg/enums"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
	"github.com/juvshop/juv-backend/pkg/logger"
)

type orderActivity interface {
	Record(ctx context.Context, telegramID int64, username *string, action enums.ActionType, metadata map[string]any)
}

// Checkout submits the caller's cart with the provided contact details.
func Checkout(svc checkoutsvc.Service, activity orderActivity, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		telegramID := middleware.TelegramIDFromContext(r.Context())
		if telegramID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "telegram identity required"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), telegramID, checkoutsvc.Contact{
			Email: payload.Email,
			Phone: payload.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if activity != nil {
			activity.Record(r.Context(), telegramID, nil, enums.ActionConfirmOrder, map[string]any{
				"order_id":    order.ID.String(),
				"total_cents": order.TotalCents,
			})
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

type checkoutRequest struct {
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

type orderResponse struct {
	OrderID    uuid.UUID           `json:"order_id"`
	Status     string              `json:"status"`
	TotalCents int64               `json:"total_cents"`
	Items      []orderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"created_at"`
}

type orderItemResponse struct {
	ProductID      uuid.UUID `json:"product_id"`
	Title          string    `json:"title"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int64     `json:"line_total_cents"`
}

func newOrderResponse(order *models.Order) orderResponse {
	if order == nil {
		return orderResponse{}
	}
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID:      item.ProductID,
			Title:          item.Title,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return orderResponse{
		OrderID:    order.ID,
		Status:     string(order.Status),
		TotalCents: order.TotalCents,
		Items:      items,
		CreatedAt:  order.CreatedAt,
	}
}
