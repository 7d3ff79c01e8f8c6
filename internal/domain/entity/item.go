package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo. Las categorías lo referencian por identidad;
// borrar una categoría nunca borra sus artículos.
type Item struct {
	ID            int64
	Name          string
	Price         decimal.Decimal
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
