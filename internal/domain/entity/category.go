package entity

import "time"

// Category agrupa productos. ProductIDs refleja Product.CategoryID de cada producto.
type Category struct {
	ID         string
	Name       string // único
	Image      string
	ProductIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasProduct indica si el producto está en la lista de la categoría.
func (c *Category) HasProduct(productID string) bool {
	return containsID(c.ProductIDs, productID)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
