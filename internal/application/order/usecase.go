package order

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/application/relations"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// OrderUseCase consultas, actualización de estado y eliminación de órdenes.
type OrderUseCase struct {
	repos     repository.Set
	txRunner  ports.TxRunner
	relations *relations.Maintainer
}

// NewOrderUseCase construye el caso de uso. repos son los repositorios fuera de transacción.
func NewOrderUseCase(repos repository.Set, txRunner ports.TxRunner, rel *relations.Maintainer) *OrderUseCase {
	return &OrderUseCase{repos: repos, txRunner: txRunner, relations: rel}
}

// List devuelve todas las órdenes con usuario y productos poblados.
func (uc *OrderUseCase) List(ctx context.Context) ([]*dto.OrderResponse, error) {
	orders, err := uc.repos.Orders.List(ctx)
	if err != nil {
		return nil, err
	}
	p := newPopulator(uc.repos)
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp, err := p.populate(ctx, o)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// GetByID devuelve la orden poblada.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return newPopulator(uc.repos).populate(ctx, o)
}

// ListByUser devuelve las órdenes de un usuario (sin poblar).
func (uc *OrderUseCase) ListByUser(ctx context.Context, userID string) ([]*dto.OrderResponse, error) {
	orders, err := uc.repos.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.NewOrderResponse(o, nil, nil))
	}
	return out, nil
}

// Update cambia estado y fechas. Las transiciones de estado se validan; las líneas no cambian.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	var updated *entity.Order
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		o, err := repos.Orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		if in.Status != nil {
			if !entity.IsValidOrderStatus(*in.Status) {
				return domain.NewValidationError("status inválido: " + *in.Status)
			}
			if !entity.CanTransition(o.Status, *in.Status) {
				return domain.NewValidationError(fmt.Sprintf("transición de estado no permitida: %s → %s", o.Status, *in.Status))
			}
			o.Status = *in.Status
		}
		if in.ShippedAt != nil {
			o.ShippedAt = *in.ShippedAt
		}
		if in.DeliveredAt != nil {
			o.DeliveredAt = *in.DeliveredAt
		}
		o.UpdatedAt = time.Now()
		if err := repos.Orders.UpdateStatus(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewOrderResponse(updated, nil, nil), nil
}

// Delete elimina la orden y la quita de la lista del usuario en la misma transacción.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		o, err := repos.Orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		return uc.relations.UnlinkOrderOnDeleteInTx(ctx, repos, o.ID, o.UserID)
	})
}

// populator carga usuarios y productos referenciados, con caché por consulta.
type populator struct {
	repos    repository.Set
	users    map[string]*entity.User
	products map[string]*entity.Product
}

func newPopulator(repos repository.Set) *populator {
	return &populator{
		repos:    repos,
		users:    make(map[string]*entity.User),
		products: make(map[string]*entity.Product),
	}
}

func (p *populator) populate(ctx context.Context, o *entity.Order) (*dto.OrderResponse, error) {
	user, ok := p.users[o.UserID]
	if !ok {
		var err error
		user, err = p.repos.Users.GetByID(ctx, o.UserID)
		if err != nil {
			return nil, err
		}
		p.users[o.UserID] = user
	}
	for _, it := range o.Items {
		if _, ok := p.products[it.ProductID]; ok {
			continue
		}
		product, err := p.repos.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		p.products[it.ProductID] = product
	}
	return dto.NewOrderResponse(o, user, p.products), nil
}
