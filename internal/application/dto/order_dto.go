package dto

import (
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity tope de unidades por producto en una orden (cabe en INTEGER de PostgreSQL).
const MaxLineQuantity = math.MaxInt32

// OrderLineRequest línea solicitada: producto y cantidad.
type OrderLineRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// CreateOrderRequest entrada para registrar una orden. Totales y montos se calculan en el servidor.
type CreateOrderRequest struct {
	UserID      string             `json:"userId" validate:"required"`
	Products    []OrderLineRequest `json:"products" validate:"required,min=1,dive"`
	Status      string             `json:"status"`
	OrderedAt   string             `json:"orderedAt"`
	ShippedAt   string             `json:"shippedAt"`
	DeliveredAt string             `json:"deliveredAt"`
}

// Validate verifica usuario, líneas y cantidades.
func (r *CreateOrderRequest) Validate() error {
	if r.UserID == "" {
		return invalid("userId es requerido")
	}
	if len(r.Products) == 0 {
		return invalid("la orden debe tener al menos un producto")
	}
	for i, line := range r.Products {
		if line.ProductID == "" {
			return invalid("products[" + itoa(i) + "].productId es requerido")
		}
		if line.Quantity <= 0 {
			return invalid("products[" + itoa(i) + "].quantity debe ser mayor que cero")
		}
		if line.Quantity > MaxLineQuantity {
			return invalid("products[" + itoa(i) + "].quantity supera el máximo de " + itoa(MaxLineQuantity))
		}
	}
	return nil
}

// UpdateOrderRequest estado y fechas a actualizar; los campos nil no cambian.
type UpdateOrderRequest struct {
	Status      *string `json:"status"`
	ShippedAt   *string `json:"shippedAt"`
	DeliveredAt *string `json:"deliveredAt"`
}

// OrderItemResponse línea de una orden; Product se incluye cuando la orden se consulta poblada.
type OrderItemResponse struct {
	ProductID string           `json:"productId"`
	Product   *ProductResponse `json:"product,omitempty"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	Total     decimal.Decimal  `json:"total"`
}

// OrderResponse salida de una orden; User se incluye cuando la orden se consulta poblada.
type OrderResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	User        *UserResponse       `json:"user,omitempty"`
	Products    []OrderItemResponse `json:"products"`
	OrderAmount decimal.Decimal     `json:"orderAmount"`
	Status      string              `json:"status"`
	OrderedAt   string              `json:"orderedAt"`
	ShippedAt   string              `json:"shippedAt"`
	DeliveredAt string              `json:"deliveredAt"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func itoa(i int) string { return strconv.Itoa(i) }
