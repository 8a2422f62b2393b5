package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/application/relations"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// PlacementState etapa del registro de una orden.
type PlacementState string

const (
	StateValidating PlacementState = "validating"
	StateReserving  PlacementState = "reserving"
	StatePersisting PlacementState = "persisting"
	StateLinked     PlacementState = "linked"
	StateRejected   PlacementState = "rejected"
)

// PlaceOrderUseCase registra una orden: valida todas las líneas, descuenta stock, crea la orden
// y la enlaza al usuario, todo en una sola transacción.
type PlaceOrderUseCase struct {
	txRunner  ports.TxRunner
	relations *relations.Maintainer
	log       *logger.Logger
	now       func() time.Time
}

// NewPlaceOrderUseCase construye el caso de uso.
func NewPlaceOrderUseCase(txRunner ports.TxRunner, rel *relations.Maintainer, log *logger.Logger) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		txRunner:  txRunner,
		relations: rel,
		log:       log,
		now:       time.Now,
	}
}

// PlaceOrder ejecuta Validating → Reserving → Persisting → Linked.
// Errores de validación (producto inexistente, stock insuficiente) se devuelven tal cual;
// cualquier falla posterior se devuelve como OrderPlacementError. En ambos casos no queda
// nada aplicado.
func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = entity.OrderStatusPending
	}
	if !entity.IsValidOrderStatus(status) {
		return nil, domain.NewValidationError("status inválido: " + status)
	}

	// Cantidad total por producto; las filas se bloquean en orden de ID para evitar deadlocks.
	requested := make(map[string]int, len(in.Products))
	for _, line := range in.Products {
		if requested[line.ProductID] > dto.MaxLineQuantity-line.Quantity {
			return nil, domain.NewValidationError(fmt.Sprintf(
				"la cantidad total del producto %s supera el máximo de %d", line.ProductID, dto.MaxLineQuantity))
		}
		requested[line.ProductID] += line.Quantity
	}
	productIDs := make([]string, 0, len(requested))
	for id := range requested {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	var (
		state    PlacementState
		order    *entity.Order
		user     *entity.User
		products map[string]*entity.Product
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		state = StateValidating
		var err error
		user, err = repos.Users.GetByID(ctx, in.UserID)
		if err != nil {
			return fmt.Errorf("obtener usuario: %w", err)
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		products, err = validateLines(ctx, repos.Products, productIDs, requested)
		if err != nil {
			return err
		}

		state = StateReserving
		for _, id := range productIDs {
			if err := repos.Products.DecrementStock(ctx, id, requested[id]); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					return err
				}
				return domain.NewOrderPlacementError(fmt.Errorf("descontar stock de %s: %w", id, err))
			}
			products[id].StockQuantity -= requested[id]
		}
		items := make([]entity.OrderItem, 0, len(in.Products))
		for _, line := range in.Products {
			items = append(items, entity.NewOrderItem(line.ProductID, line.Quantity, products[line.ProductID].Price))
		}
		now := uc.now()
		order = &entity.Order{
			ID:          uuid.New().String(),
			UserID:      user.ID,
			Items:       items,
			OrderAmount: entity.SumItems(items),
			Status:      status,
			OrderedAt:   in.OrderedAt,
			ShippedAt:   in.ShippedAt,
			DeliveredAt: in.DeliveredAt,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		state = StatePersisting
		if err := repos.Orders.Create(ctx, order); err != nil {
			return domain.NewOrderPlacementError(fmt.Errorf("persistir orden: %w", err))
		}
		if err := uc.relations.LinkOrderToUserInTx(ctx, repos, order.ID, user.ID); err != nil {
			return domain.NewOrderPlacementError(err)
		}
		state = StateLinked
		return nil
	})
	if err != nil {
		failedAt := state
		state = StateRejected
		uc.log.Warn().Err(err).
			Str("user_id", in.UserID).
			Str("failed_at", string(failedAt)).
			Str("state", string(state)).
			Msg("orden rechazada")
		var de *domain.Error
		if errors.As(err, &de) || failedAt == StateValidating {
			return nil, err
		}
		// Falla del commit u otra falla del almacén después de validar.
		return nil, domain.NewOrderPlacementError(err)
	}

	uc.log.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Str("amount", order.OrderAmount.StringFixed(2)).
		Int("lines", len(order.Items)).
		Msg("orden registrada")
	return dto.NewOrderResponse(order, user, products), nil
}

// validateLines revisa todas las líneas antes de cualquier mutación: existencia y stock suficiente.
func validateLines(ctx context.Context, repo repository.ProductRepository, ids []string, requested map[string]int) (map[string]*entity.Product, error) {
	products := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("obtener producto %s: %w", id, err)
		}
		if p == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		products[id] = p
	}
	for _, id := range ids {
		if products[id].StockQuantity < requested[id] {
			return nil, &domain.InsufficientStockError{
				ProductID: id,
				Requested: requested[id],
				Available: products[id].StockQuantity,
			}
		}
	}
	return products, nil
}
