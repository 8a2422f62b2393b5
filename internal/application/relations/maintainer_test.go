package relations_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/application/relations"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
)

func setup(t *testing.T) (*memory.Store, *relations.Maintainer) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	now := time.Now()
	for _, id := range []string{"cat-a", "cat-b"} {
		require.NoError(t, repos.Categories.Create(ctx, &entity.Category{ID: id, Name: id, CreatedAt: now, UpdatedAt: now}))
	}
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "p1", Name: "Té", Price: decimal.NewFromInt(3), StockQuantity: 1, CategoryID: "cat-a", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u1", Email: "u1@example.com", FirebaseID: "fb-u1"}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u2", Email: "u2@example.com", FirebaseID: "fb-u2"}))
	return store, relations.NewMaintainer(store)
}

func productIDs(t *testing.T, store *memory.Store, categoryID string) []string {
	t.Helper()
	c, err := store.Repositories().Categories.GetByID(context.Background(), categoryID)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c.ProductIDs
}

var errFrozen = errors.New("lista de referencias congelada")

// frozenCategories rechaza cualquier escritura sobre la lista de productos.
type frozenCategories struct {
	repository.CategoryRepository
}

func (frozenCategories) AddProduct(context.Context, string, string) error    { return errFrozen }
func (frozenCategories) RemoveProduct(context.Context, string, string) error { return errFrozen }

// frozenUsers rechaza cualquier escritura sobre la lista de órdenes.
type frozenUsers struct {
	repository.UserRepository
}

func (frozenUsers) AddOrder(context.Context, string, string) error    { return errFrozen }
func (frozenUsers) RemoveOrder(context.Context, string, string) error { return errFrozen }

// frozenListsRunner abre la transacción real con las listas de referencias congeladas:
// una operación que intente reescribirlas falla.
type frozenListsRunner struct {
	inner ports.TxRunner
}

func (r frozenListsRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error {
	return r.inner.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		repos.Categories = frozenCategories{repos.Categories}
		repos.Users = frozenUsers{repos.Users}
		return fn(ctx, repos)
	})
}

func TestLinkProductToCategory_Idempotent(t *testing.T) {
	store, m := setup(t)
	ctx := context.Background()

	require.NoError(t, m.LinkProductToCategory(ctx, "p1", "cat-a"))
	require.NoError(t, m.LinkProductToCategory(ctx, "p1", "cat-a"))
	assert.Equal(t, []string{"p1"}, productIDs(t, store, "cat-a"), "enlazar dos veces no duplica")
}

func TestMoveProductToCategory(t *testing.T) {
	store, m := setup(t)
	ctx := context.Background()
	require.NoError(t, m.LinkProductToCategory(ctx, "p1", "cat-a"))

	require.NoError(t, m.MoveProductToCategory(ctx, "p1", "cat-a", "cat-b"))

	assert.Empty(t, productIDs(t, store, "cat-a"), "el origen ya no lista el producto")
	assert.Equal(t, []string{"p1"}, productIDs(t, store, "cat-b"))
	p, err := store.Repositories().Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "cat-b", p.CategoryID, "la referencia inversa también cambia")
}

func TestMoveProductToCategory_MissingTargetRollsBack(t *testing.T) {
	store, m := setup(t)
	ctx := context.Background()
	require.NoError(t, m.LinkProductToCategory(ctx, "p1", "cat-a"))

	err := m.MoveProductToCategory(ctx, "p1", "cat-a", "cat-x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConsistency))
	assert.Equal(t, []string{"p1"}, productIDs(t, store, "cat-a"), "nada debe aplicarse")
}

func TestUnlinkProductOnDelete(t *testing.T) {
	store, m := setup(t)
	ctx := context.Background()
	require.NoError(t, m.LinkProductToCategory(ctx, "p1", "cat-a"))

	require.NoError(t, m.UnlinkProductOnDelete(ctx, "p1", "cat-a"))

	assert.Empty(t, productIDs(t, store, "cat-a"))
	p, err := store.Repositories().Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLinkOrderToUser_WrongOwner(t *testing.T) {
	store, m := setup(t)
	ctx := context.Background()
	require.NoError(t, store.Repositories().Orders.Create(ctx, &entity.Order{ID: "o1", UserID: "u1", Status: entity.OrderStatusPending}))

	err := m.LinkOrderToUser(ctx, "o1", "u2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict), "la orden pertenece a otro usuario")

	require.NoError(t, m.LinkOrderToUser(ctx, "o1", "u1"))
	u, err := store.Repositories().Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, u.OrderIDs)
}

func TestUnlinkOrderOnDelete_UserAlreadyGone(t *testing.T) {
	store, m := setup(t)
	ctx := context.Background()
	repos := store.Repositories()
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: "o1", UserID: "u1", Status: entity.OrderStatusPending}))
	require.NoError(t, repos.Users.Delete(ctx, "u1"))

	require.NoError(t, m.UnlinkOrderOnDelete(ctx, "o1", "u1"), "la orden se elimina aunque el usuario no exista")
	o, err := repos.Orders.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestLinks_SkipWritesWhenAlreadyConsistent(t *testing.T) {
	store, m := setup(t)
	ctx := context.Background()
	repos := store.Repositories()
	require.NoError(t, m.LinkProductToCategory(ctx, "p1", "cat-a"))
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: "o1", UserID: "u1", Status: entity.OrderStatusPending}))
	require.NoError(t, m.LinkOrderToUser(ctx, "o1", "u1"))

	frozen := relations.NewMaintainer(frozenListsRunner{inner: store})

	require.NoError(t, frozen.LinkProductToCategory(ctx, "p1", "cat-a"), "el producto ya está en la lista")
	require.NoError(t, frozen.LinkOrderToUser(ctx, "o1", "u1"), "la orden ya está en la lista")
	require.NoError(t, frozen.MoveProductToCategory(ctx, "p1", "cat-a", "cat-a"))

	err := frozen.LinkProductToCategory(ctx, "p1", "cat-b")
	require.Error(t, err, "un enlace nuevo sí escribe la lista")
	assert.True(t, errors.Is(err, errFrozen))
	assert.Empty(t, productIDs(t, store, "cat-b"))
}

func TestUnlinks_SkipListsThatDoNotReference(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()
	repos := store.Repositories()
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: "o1", UserID: "u1", Status: entity.OrderStatusPending}))

	frozen := relations.NewMaintainer(frozenListsRunner{inner: store})

	require.NoError(t, frozen.UnlinkOrderOnDelete(ctx, "o1", "u1"), "el usuario no lista la orden")
	o, err := repos.Orders.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Nil(t, o)

	require.NoError(t, frozen.UnlinkProductOnDelete(ctx, "p1", "cat-a"), "la categoría no lista el producto")
	p, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p)
}
