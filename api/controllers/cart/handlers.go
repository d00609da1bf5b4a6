package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/juvshop/juv-backend/api/middleware"
	"github.com/juvshop/juv-backend/api/responses"
	"github.com/juvshop/juv-backend/api/validators"
	cartsvc "github.com/juvshop/juv-backend/internal/cart"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
	"github.com/juvshop/juv-backend/pkg/logger"
)

// CartFetch returns the caller's cart joined with live product data.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		telegramID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), telegramID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartAdd increments the (user, product) row, creating it when absent.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		telegramID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AddItem(r.Context(), telegramID, payload.ProductID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), telegramID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(items))
	}
}

// CartUpdateItem overwrites an item quantity; zero removes the item.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		telegramID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := itemIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateQuantity(r.Context(), telegramID, itemID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), telegramID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartRemoveItem deletes an item; removing an absent item succeeds.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		telegramID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := itemIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), telegramID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), telegramID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(items))
	}
}

func callerID(r *http.Request) (int64, error) {
	telegramID := middleware.TelegramIDFromContext(r.Context())
	if telegramID == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "telegram identity required")
	}
	return telegramID, nil
}

func itemIDFromURL(r *http.Request) (uuid.UUID, error) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart item id")
	}
	return itemID, nil
}
