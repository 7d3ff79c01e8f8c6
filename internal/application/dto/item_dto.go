package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un artículo.
type CreateItemRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
}

// UpdateItemRequest entrada para actualizar un artículo.
type UpdateItemRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,min=0"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CategoryItemsResponse artículos asociados a una categoría.
type CategoryItemsResponse struct {
	CategoryID int64          `json:"category_id"`
	Items      []ItemResponse `json:"items"`
}

// AssociationResponse resultado de asociar o desasociar un artículo.
type AssociationResponse struct {
	CategoryID int64 `json:"category_id"`
	ItemID     int64 `json:"item_id"`
	Changed    bool  `json:"changed"`
}
