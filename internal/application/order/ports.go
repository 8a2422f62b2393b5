package order

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// ReceiptLine línea de la orden enriquecida con el nombre del producto.
type ReceiptLine struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// ReceiptGenerator genera el comprobante (PDF) de una orden. user puede ser nil si fue eliminado.
type ReceiptGenerator interface {
	GenerateOrderReceipt(ctx context.Context, order *entity.Order, user *entity.User, lines []ReceiptLine) ([]byte, error)
}
