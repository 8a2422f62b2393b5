package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, order_amount, status, ordered_at, shipped_at, delivered_at, created_at, updated_at`

// OrderRepo implementación de OrderRepository: cabecera en orders, líneas en order_items.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera y sus líneas en un solo batch. Debe llamarse dentro de una tx.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if !validID(order.UserID) {
		return domain.ErrUserNotFound
	}
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO orders (id, user_id, order_amount, status, ordered_at, shipped_at, delivered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.ID, order.UserID, order.OrderAmount, order.Status, order.OrderedAt,
		order.ShippedAt, order.DeliveredAt, order.CreatedAt, order.UpdatedAt,
	)
	for i, it := range order.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, position, product_id, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, i, it.ProductID, it.Quantity, it.UnitPrice, it.Total,
		)
	}

	br := r.q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if i == 0 {
				return fmt.Errorf("insert order: %w", err)
			}
			return fmt.Errorf("insert order item %d: %w", i-1, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene la orden con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, nil
	}
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.loadItems(ctx, `WHERE oi.order_id = $1`, id)
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// List devuelve todas las órdenes por fecha de creación.
func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	orders, err := r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, ``)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}
	return orders, nil
}

// ListByUser devuelve las órdenes del usuario por fecha de creación.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	if !validID(userID) {
		return nil, nil
	}
	orders, err := r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, `JOIN orders o ON o.id = oi.order_id WHERE o.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}
	return orders, nil
}

// UpdateStatus reescribe estado y fechas.
func (r *OrderRepo) UpdateStatus(ctx context.Context, order *entity.Order) error {
	if !validID(order.ID) {
		return domain.ErrOrderNotFound
	}
	query := `
		UPDATE orders SET status = $2, shipped_at = $3, delivered_at = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, order.ID, order.Status, order.ShippedAt, order.DeliveredAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Delete elimina la orden; las líneas caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrOrderNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// loadItems carga las líneas agrupadas por orden; filter es el JOIN/WHERE opcional sobre oi.
func (r *OrderRepo) loadItems(ctx context.Context, filter string, args ...any) (map[string][]entity.OrderItem, error) {
	query := `
		SELECT oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.total
		FROM order_items oi ` + filter + `
		ORDER BY oi.order_id, oi.position`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.OrderItem)
	for rows.Next() {
		var orderID string
		var it entity.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.OrderAmount, &o.Status, &o.OrderedAt, &o.ShippedAt,
		&o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
