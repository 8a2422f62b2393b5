package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// List devuelve las categorías ordenadas por nombre.
	List(ctx context.Context) ([]*entity.Category, error)
	Rename(ctx context.Context, id, name string) error
	UpdateImage(ctx context.Context, id, image string) error
	Delete(ctx context.Context, id string) error

	// AddProduct y RemoveProduct mutan la lista de productos; solo los usa el mantenedor de relaciones.
	AddProduct(ctx context.Context, categoryID, productID string) error
	RemoveProduct(ctx context.Context, categoryID, productID string) error
}
