package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context) ([]*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	// UpdateStatus reescribe estado y fechas; las líneas no cambian.
	UpdateStatus(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
}
