package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	if _, ok := t.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := t.categories[product.CategoryID]; !ok {
		return domain.ErrCategoryNotFound
	}
	t.products[product.ID] = cloneProduct(product)
	t.nextSeq(product.ID)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	if p, ok := r.s.data.products[id]; ok {
		return cloneProduct(p), nil
	}
	return nil, nil
}

// GetForUpdate dentro de Run el mutex global ya aísla la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	return r.filter(func(*entity.Product) bool { return true }), nil
}

func (r *ProductRepo) ListByCategory(_ context.Context, categoryID string) ([]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	return r.filter(func(p *entity.Product) bool { return p.CategoryID == categoryID }), nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.mutate(product.ID, func(p *entity.Product) {
		p.Name = product.Name
		p.Price = product.Price
		p.StockQuantity = product.StockQuantity
		p.Description = product.Description
	})
}

func (r *ProductRepo) UpdateImage(_ context.Context, id, image string) error {
	return r.mutate(id, func(p *entity.Product) { p.Image = image })
}

func (r *ProductRepo) SetCategory(_ context.Context, productID, categoryID string) error {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	p, ok := t.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if _, ok := t.categories[categoryID]; !ok {
		return domain.ErrCategoryNotFound
	}
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	return nil
}

func (r *ProductRepo) DecrementStock(_ context.Context, productID string, qty int) error {
	if qty <= 0 {
		return domain.NewValidationError(fmt.Sprintf("cantidad a descontar inválida: %d", qty))
	}
	defer r.s.lock(r.inTx)()
	p, ok := r.s.data.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.StockQuantity < qty {
		return &domain.InsufficientStockError{ProductID: productID, Requested: qty, Available: p.StockQuantity}
	}
	p.StockQuantity -= qty
	p.UpdatedAt = time.Now()
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	if _, ok := t.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(t.products, id)
	delete(t.order, id)
	return nil
}

func (r *ProductRepo) mutate(id string, fn func(p *entity.Product)) error {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.data.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	fn(p)
	p.UpdatedAt = time.Now()
	return nil
}

// filter se llama con el mutex tomado. Orden: precio ascendente, luego nombre.
func (r *ProductRepo) filter(keep func(*entity.Product) bool) []*entity.Product {
	list := make([]*entity.Product, 0)
	for _, p := range r.s.data.products {
		if keep(p) {
			list = append(list, cloneProduct(p))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if c := list[i].Price.Cmp(list[j].Price); c != 0 {
			return c < 0
		}
		return list[i].Name < list[j].Name
	})
	return list
}
