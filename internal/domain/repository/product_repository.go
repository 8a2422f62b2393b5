package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea el documento hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// List devuelve todos los productos ordenados por precio ascendente.
	List(ctx context.Context) ([]*entity.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error)
	// Update reescribe nombre, precio, stock y descripción (no toca Image ni CategoryID).
	Update(ctx context.Context, product *entity.Product) error
	UpdateImage(ctx context.Context, id, image string) error
	// SetCategory reescribe la referencia inversa; solo la usa el mantenedor de relaciones.
	SetCategory(ctx context.Context, productID, categoryID string) error
	// DecrementStock resta qty solo si hay stock suficiente; si no, ErrInsufficientStock.
	DecrementStock(ctx context.Context, productID string, qty int) error
	Delete(ctx context.Context, id string) error
}
