// Package relations mantiene consistentes las referencias bidireccionales
// categoría⇄producto y usuario⇄orden. Ningún otro paquete muta las listas de
// referencias directamente.
package relations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// Nombres de operación usados en los errores de consistencia.
const (
	opLinkProduct   = "enlazar producto a categoría"
	opMoveProduct   = "mover producto de categoría"
	opUnlinkProduct = "desenlazar producto eliminado"
	opLinkOrder     = "enlazar orden a usuario"
	opUnlinkOrder   = "desenlazar orden eliminada"
)

// Maintainer aplica ambos lados de cada relación dentro de una sola transacción.
// Los métodos *InTx reciben los repositorios de una transacción ya abierta por el caller
// para componer varias relaciones en una sola escritura; el resto abre su propia transacción.
type Maintainer struct {
	txRunner ports.TxRunner
}

// NewMaintainer construye el mantenedor de relaciones.
func NewMaintainer(txRunner ports.TxRunner) *Maintainer {
	return &Maintainer{txRunner: txRunner}
}

// LinkProductToCategory agrega el producto a la lista de la categoría y fija su referencia inversa.
func (m *Maintainer) LinkProductToCategory(ctx context.Context, productID, categoryID string) error {
	return m.run(ctx, opLinkProduct, func(ctx context.Context, repos repository.Set) error {
		return m.LinkProductToCategoryInTx(ctx, repos, productID, categoryID)
	})
}

// LinkProductToCategoryInTx versión de LinkProductToCategory dentro de la transacción del caller.
func (m *Maintainer) LinkProductToCategoryInTx(ctx context.Context, repos repository.Set, productID, categoryID string) error {
	category, err := repos.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return domain.NewConsistencyError(opLinkProduct, err)
	}
	if category == nil {
		return domain.NewConsistencyError(opLinkProduct, domain.ErrCategoryNotFound)
	}
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return domain.NewConsistencyError(opLinkProduct, err)
	}
	if product == nil {
		return domain.NewConsistencyError(opLinkProduct, domain.ErrProductNotFound)
	}
	if !category.HasProduct(productID) {
		if err := repos.Categories.AddProduct(ctx, categoryID, productID); err != nil {
			return domain.NewConsistencyError(opLinkProduct, err)
		}
	}
	if err := repos.Products.SetCategory(ctx, productID, categoryID); err != nil {
		return domain.NewConsistencyError(opLinkProduct, err)
	}
	return nil
}

// MoveProductToCategory saca el producto de fromCategoryID, lo agrega a toCategoryID y
// reescribe su referencia inversa. Todo o nada.
func (m *Maintainer) MoveProductToCategory(ctx context.Context, productID, fromCategoryID, toCategoryID string) error {
	return m.run(ctx, opMoveProduct, func(ctx context.Context, repos repository.Set) error {
		return m.MoveProductToCategoryInTx(ctx, repos, productID, fromCategoryID, toCategoryID)
	})
}

// MoveProductToCategoryInTx versión de MoveProductToCategory dentro de la transacción del caller.
func (m *Maintainer) MoveProductToCategoryInTx(ctx context.Context, repos repository.Set, productID, fromCategoryID, toCategoryID string) error {
	product, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return domain.NewConsistencyError(opMoveProduct, err)
	}
	if product == nil {
		return domain.NewConsistencyError(opMoveProduct, domain.ErrProductNotFound)
	}
	if product.CategoryID != fromCategoryID {
		return domain.NewConsistencyError(opMoveProduct, fmt.Errorf(
			"%w: el producto %s pertenece a la categoría %s, no a %s",
			domain.ErrConflict, productID, product.CategoryID, fromCategoryID))
	}

	from, err := repos.Categories.GetByID(ctx, fromCategoryID)
	if err != nil {
		return domain.NewConsistencyError(opMoveProduct, err)
	}
	if from == nil {
		return domain.NewConsistencyError(opMoveProduct, fmt.Errorf("origen: %w", domain.ErrCategoryNotFound))
	}
	to, err := repos.Categories.GetByID(ctx, toCategoryID)
	if err != nil {
		return domain.NewConsistencyError(opMoveProduct, err)
	}
	if to == nil {
		return domain.NewConsistencyError(opMoveProduct, fmt.Errorf("destino: %w", domain.ErrCategoryNotFound))
	}
	if fromCategoryID == toCategoryID {
		return nil
	}

	if from.HasProduct(productID) {
		if err := repos.Categories.RemoveProduct(ctx, fromCategoryID, productID); err != nil {
			return domain.NewConsistencyError(opMoveProduct, err)
		}
	}
	if !to.HasProduct(productID) {
		if err := repos.Categories.AddProduct(ctx, toCategoryID, productID); err != nil {
			return domain.NewConsistencyError(opMoveProduct, err)
		}
	}
	if err := repos.Products.SetCategory(ctx, productID, toCategoryID); err != nil {
		return domain.NewConsistencyError(opMoveProduct, err)
	}
	return nil
}

// UnlinkProductOnDelete quita el producto de la lista de su categoría y elimina el producto
// en la misma transacción.
func (m *Maintainer) UnlinkProductOnDelete(ctx context.Context, productID, categoryID string) error {
	return m.run(ctx, opUnlinkProduct, func(ctx context.Context, repos repository.Set) error {
		return m.UnlinkProductOnDeleteInTx(ctx, repos, productID, categoryID)
	})
}

// UnlinkProductOnDeleteInTx versión de UnlinkProductOnDelete dentro de la transacción del caller.
func (m *Maintainer) UnlinkProductOnDeleteInTx(ctx context.Context, repos repository.Set, productID, categoryID string) error {
	category, err := repos.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return domain.NewConsistencyError(opUnlinkProduct, err)
	}
	if category == nil {
		return domain.NewConsistencyError(opUnlinkProduct, domain.ErrCategoryNotFound)
	}
	if category.HasProduct(productID) {
		if err := repos.Categories.RemoveProduct(ctx, categoryID, productID); err != nil {
			return domain.NewConsistencyError(opUnlinkProduct, err)
		}
	}
	if err := repos.Products.Delete(ctx, productID); err != nil {
		return domain.NewConsistencyError(opUnlinkProduct, err)
	}
	return nil
}

// LinkOrderToUser agrega la orden a la lista del usuario. La orden debe pertenecer al usuario.
func (m *Maintainer) LinkOrderToUser(ctx context.Context, orderID, userID string) error {
	return m.run(ctx, opLinkOrder, func(ctx context.Context, repos repository.Set) error {
		order, err := repos.Orders.GetByID(ctx, orderID)
		if err != nil {
			return domain.NewConsistencyError(opLinkOrder, err)
		}
		if order == nil {
			return domain.NewConsistencyError(opLinkOrder, domain.ErrOrderNotFound)
		}
		if order.UserID != userID {
			return domain.NewConsistencyError(opLinkOrder, fmt.Errorf(
				"%w: la orden %s pertenece al usuario %s", domain.ErrConflict, orderID, order.UserID))
		}
		return m.LinkOrderToUserInTx(ctx, repos, orderID, userID)
	})
}

// LinkOrderToUserInTx enlaza una orden recién creada en la transacción del caller.
func (m *Maintainer) LinkOrderToUserInTx(ctx context.Context, repos repository.Set, orderID, userID string) error {
	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return domain.NewConsistencyError(opLinkOrder, err)
	}
	if user == nil {
		return domain.NewConsistencyError(opLinkOrder, domain.ErrUserNotFound)
	}
	if user.HasOrder(orderID) {
		return nil
	}
	if err := repos.Users.AddOrder(ctx, userID, orderID); err != nil {
		return domain.NewConsistencyError(opLinkOrder, err)
	}
	return nil
}

// UnlinkOrderOnDelete elimina la orden y la quita de la lista del usuario en la misma transacción.
func (m *Maintainer) UnlinkOrderOnDelete(ctx context.Context, orderID, userID string) error {
	return m.run(ctx, opUnlinkOrder, func(ctx context.Context, repos repository.Set) error {
		return m.UnlinkOrderOnDeleteInTx(ctx, repos, orderID, userID)
	})
}

// UnlinkOrderOnDeleteInTx versión de UnlinkOrderOnDelete dentro de la transacción del caller.
// Si el usuario ya no existe (se eliminó sin cascada) solo se elimina la orden.
func (m *Maintainer) UnlinkOrderOnDeleteInTx(ctx context.Context, repos repository.Set, orderID, userID string) error {
	if err := repos.Orders.Delete(ctx, orderID); err != nil {
		return domain.NewConsistencyError(opUnlinkOrder, err)
	}
	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return domain.NewConsistencyError(opUnlinkOrder, err)
	}
	if user == nil || !user.HasOrder(orderID) {
		return nil
	}
	if err := repos.Users.RemoveOrder(ctx, userID, orderID); err != nil {
		return domain.NewConsistencyError(opUnlinkOrder, err)
	}
	return nil
}

// run abre la transacción y normaliza cualquier falla (begin/commit incluidos) a ConsistencyError.
func (m *Maintainer) run(ctx context.Context, op string, fn func(ctx context.Context, repos repository.Set) error) error {
	err := m.txRunner.Run(ctx, fn)
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.NewConsistencyError(op, err)
}
