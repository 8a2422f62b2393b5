package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo órdenes en memoria.
type OrderRepo struct {
	s    *Store
	inTx bool
}

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	if _, ok := t.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	t.orders[order.ID] = cloneOrder(order)
	t.nextSeq(order.ID)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	defer r.s.lock(r.inTx)()
	if o, ok := r.s.data.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, nil
}

func (r *OrderRepo) List(_ context.Context) ([]*entity.Order, error) {
	defer r.s.lock(r.inTx)()
	return r.filter(func(*entity.Order) bool { return true }), nil
}

func (r *OrderRepo) ListByUser(_ context.Context, userID string) ([]*entity.Order, error) {
	defer r.s.lock(r.inTx)()
	return r.filter(func(o *entity.Order) bool { return o.UserID == userID }), nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, order *entity.Order) error {
	defer r.s.lock(r.inTx)()
	o, ok := r.s.data.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = order.Status
	o.ShippedAt = order.ShippedAt
	o.DeliveredAt = order.DeliveredAt
	o.UpdatedAt = order.UpdatedAt
	return nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	if _, ok := t.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(t.orders, id)
	delete(t.order, id)
	return nil
}

func (r *OrderRepo) filter(keep func(*entity.Order) bool) []*entity.Order {
	t := r.s.data
	list := make([]*entity.Order, 0)
	for _, o := range t.orders {
		if keep(o) {
			list = append(list, cloneOrder(o))
		}
	}
	sort.Slice(list, func(i, j int) bool { return t.order[list[i].ID] < t.order[list[j].ID] })
	return list
}
