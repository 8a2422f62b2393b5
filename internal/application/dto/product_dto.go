package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto dentro de una categoría.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	CategoryID    string          `json:"categoryId" validate:"required"`
	Price         decimal.Decimal `json:"price" validate:"gte=0"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
	Description   string          `json:"description"`
}

// Validate verifica campos obligatorios y rangos.
func (r *CreateProductRequest) Validate() error {
	return requireFields(map[string]string{
		"name":       r.Name,
		"categoryId": r.CategoryID,
	}, func() error {
		if r.Price.IsNegative() {
			return invalid("price no puede ser negativo")
		}
		if r.StockQuantity < 0 {
			return invalid("stockQuantity no puede ser negativo")
		}
		return nil
	})
}

// UpdateProductRequest entrada para actualizar un producto. CategoryID distinto al actual mueve el producto.
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	CategoryID    *string          `json:"categoryId"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stockQuantity"`
	Description   *string          `json:"description"`
}

// Validate verifica rangos de los campos presentes.
func (r *UpdateProductRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return invalid("name no puede ser vacío")
	}
	if r.CategoryID != nil && *r.CategoryID == "" {
		return invalid("categoryId no puede ser vacío")
	}
	if r.Price != nil && r.Price.IsNegative() {
		return invalid("price no puede ser negativo")
	}
	if r.StockQuantity != nil && *r.StockQuantity < 0 {
		return invalid("stockQuantity no puede ser negativo")
	}
	return nil
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Image         string          `json:"image"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"categoryId"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
