package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) si el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByFirebaseID(ctx context.Context, firebaseID string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	// Update reescribe los datos de perfil (no toca Image ni OrderIDs).
	Update(ctx context.Context, user *entity.User) error
	UpdateImage(ctx context.Context, id, image string) error
	Delete(ctx context.Context, id string) error

	// AddOrder y RemoveOrder mutan la lista de órdenes; solo los usa el mantenedor de relaciones.
	AddOrder(ctx context.Context, userID, orderID string) error
	RemoveOrder(ctx context.Context, userID, orderID string) error
}
