package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// orderTransitions transiciones permitidas desde cada estado.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// IsValidOrderStatus indica si s es un estado conocido.
func IsValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition indica si una orden puede pasar de from a to. Repetir el mismo estado está permitido.
func CanTransition(from, to string) bool {
	if from == to {
		return IsValidOrderStatus(to)
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem línea de una orden. Total = Quantity * UnitPrice, calculado en el servidor.
type OrderItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Order orden de compra. Las líneas quedan fijas al crearla.
// OrderedAt, ShippedAt y DeliveredAt son cadenas opacas que envía el cliente.
type Order struct {
	ID          string
	UserID      string
	Items       []OrderItem
	OrderAmount decimal.Decimal
	Status      string
	OrderedAt   string
	ShippedAt   string
	DeliveredAt string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrderItem construye una línea con su total exacto.
func NewOrderItem(productID string, quantity int, unitPrice decimal.Decimal) OrderItem {
	return OrderItem{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// SumItems suma los totales de línea.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total)
	}
	return total
}
