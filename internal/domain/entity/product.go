package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo a la venta.
// CategoryID es la referencia inversa de Category.ProductIDs; solo la modifica el mantenedor de relaciones.
type Product struct {
	ID            string
	Name          string
	Image         string
	Price         decimal.Decimal // precio unitario
	StockQuantity int             // nunca negativo
	Description   string
	CategoryID    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
