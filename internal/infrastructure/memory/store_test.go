package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := NewStore()
	repos := s.Repositories()
	require.NoError(t, repos.Categories.Create(ctx, &entity.Category{ID: "c1", Name: "Bebidas"}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "p1", Name: "Café", Price: decimal.NewFromInt(8), StockQuantity: 4, CategoryID: "c1", CreatedAt: time.Now(),
	}))
	require.NoError(t, repos.Categories.AddProduct(ctx, "c1", "p1"))
	return s
}

func TestRun_RollsBackOnError(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	err := s.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		require.NoError(t, repos.Products.DecrementStock(ctx, "p1", 3))
		require.NoError(t, repos.Categories.Rename(ctx, "c1", "Otra"))
		return errors.New("abortar")
	})
	require.Error(t, err)

	p, _ := s.Repositories().Products.GetByID(ctx, "p1")
	assert.Equal(t, 4, p.StockQuantity, "el stock vuelve al valor previo")
	c, _ := s.Repositories().Categories.GetByID(ctx, "c1")
	assert.Equal(t, "Bebidas", c.Name)
}

func TestRun_RollsBackOnPanic(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.Run(ctx, func(ctx context.Context, repos repository.Set) error {
			_ = repos.Products.DecrementStock(ctx, "p1", 4)
			panic("fallo")
		})
	})

	p, _ := s.Repositories().Products.GetByID(ctx, "p1")
	assert.Equal(t, 4, p.StockQuantity)
}

func TestRun_CommitsOnSuccess(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		return repos.Products.DecrementStock(ctx, "p1", 4)
	}))
	p, _ := s.Repositories().Products.GetByID(ctx, "p1")
	assert.Equal(t, 0, p.StockQuantity)
}

func TestDecrementStock_NeverNegative(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	err := s.Repositories().Products.DecrementStock(ctx, "p1", 5)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 4, ise.Available)

	err = s.Repositories().Products.DecrementStock(ctx, "nope", 1)
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))

	for _, qty := range []int{0, -3} {
		err = s.Repositories().Products.DecrementStock(ctx, "p1", qty)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad %d no permitida", qty)
	}
	p, _ := s.Repositories().Products.GetByID(ctx, "p1")
	assert.Equal(t, 4, p.StockQuantity, "una cantidad negativa no puede sumar stock")
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	c, _ := s.Repositories().Categories.GetByID(ctx, "c1")
	c.ProductIDs[0] = "mutado"
	again, _ := s.Repositories().Categories.GetByID(ctx, "c1")
	assert.Equal(t, []string{"p1"}, again.ProductIDs, "el almacén no debe compartir slices con el caller")
}

func TestCategoryDelete_RejectsWhileReferenced(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	err := s.Repositories().Categories.Delete(ctx, "c1")
	require.Error(t, err, "como la FK: no se elimina con productos")

	require.NoError(t, s.Repositories().Products.Delete(ctx, "p1"))
	require.NoError(t, s.Repositories().Categories.Delete(ctx, "c1"))
}

func TestUniqueConstraints(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	users := s.Repositories().Users

	require.NoError(t, users.Create(ctx, &entity.User{ID: "u1", Email: "a@x.com", FirebaseID: "f1"}))
	err := users.Create(ctx, &entity.User{ID: "u2", Email: "a@x.com", FirebaseID: "f2"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
	err = users.Create(ctx, &entity.User{ID: "u3", Email: "b@x.com", FirebaseID: "f1"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	cats := s.Repositories().Categories
	require.NoError(t, cats.Create(ctx, &entity.Category{ID: "c1", Name: "A"}))
	assert.True(t, errors.Is(cats.Create(ctx, &entity.Category{ID: "c2", Name: "A"}), domain.ErrDuplicate))
}
