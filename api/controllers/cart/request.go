package cart

import "github.com/google/uuid"

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type updateItemRequest struct {
	// Quantity 0 (or below) removes the row, matching the store invariant
	// that persisted quantities are always >= 1.
	Quantity int `json:"quantity"`
}
