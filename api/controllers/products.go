package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/juvshop/juv-backend/api/responses"
	"github.com/juvshop/juv-backend/pkg/db/models"
	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
	"github.com/juvshop/juv-backend/pkg/logger"
)

type productLister interface {
	ListActive(ctx context.Context) ([]models.Product, error)
}

// ProductList serves the active catalog for the WebApp grid.
func ProductList(repo productLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product repository unavailable"))
			return
		}
		items, err := repo.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products"))
			return
		}
		responses.WriteSuccess(w, newProductList(items))
	}
}

type productResponse struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Description       *string   `json:"description,omitempty"`
	Category          *string   `json:"category,omitempty"`
	ImageURL          *string   `json:"image_url,omitempty"`
	PriceCents        int64     `json:"price_cents"`
	QuantityAvailable int       `json:"quantity_available"`
}

func newProductList(items []models.Product) []productResponse {
	out := make([]productResponse, 0, len(items))
	for _, item := range items {
		out = append(out, productResponse{
			ID:                item.ID,
			Title:             item.Title,
			Description:       item.Description,
			Category:          item.Category,
			ImageURL:          item.ImageURL,
			PriceCents:        item.PriceCents,
			QuantityAvailable: item.QuantityAvailable,
		})
	}
	return out
}
