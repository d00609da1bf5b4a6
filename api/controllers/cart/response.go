package cart

import (
	"github.com/google/uuid"

	"github.com/juvshop/juv-backend/pkg/db/models"
)

type cartResponse struct {
	Items         []cartItemResponse `json:"items"`
	SubtotalCents int64              `json:"subtotal_cents"`
}

type cartItemResponse struct {
	ItemID         uuid.UUID `json:"item_id"`
	ProductID      uuid.UUID `json:"product_id"`
	Title          string    `json:"title"`
	ImageURL       *string   `json:"image_url,omitempty"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int64     `json:"line_total_cents"`
}

func newCartResponse(items []models.CartItem) cartResponse {
	out := cartResponse{Items: make([]cartItemResponse, 0, len(items))}
	for _, item := range items {
		line := cartItemResponse{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			line.Title = item.Product.Title
			line.ImageURL = item.Product.ImageURL
			line.UnitPriceCents = item.Product.PriceCents
			line.LineTotalCents = item.Product.PriceCents * int64(item.Quantity)
		}
		out.Items = append(out.Items, line)
		out.SubtotalCents += line.LineTotalCents
	}
	return out
}
