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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías en memoria. El nombre es único.
type CategoryRepo struct {
	s    *Store
	inTx bool
}

func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	if err := checkCategoryName(t, category.ID, category.Name); err != nil {
		return err
	}
	c := cloneCategory(category)
	c.ProductIDs = []string{}
	t.categories[c.ID] = c
	t.nextSeq(c.ID)
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	defer r.s.lock(r.inTx)()
	if c, ok := r.s.data.categories[id]; ok {
		return cloneCategory(c), nil
	}
	return nil, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	defer r.s.lock(r.inTx)()
	list := make([]*entity.Category, 0, len(r.s.data.categories))
	for _, c := range r.s.data.categories {
		list = append(list, cloneCategory(c))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *CategoryRepo) Rename(_ context.Context, id, name string) error {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	c, ok := t.categories[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	if err := checkCategoryName(t, id, name); err != nil {
		return err
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return nil
}

func (r *CategoryRepo) UpdateImage(_ context.Context, id, image string) error {
	return r.mutate(id, func(c *entity.Category) { c.Image = image })
}

// Delete igual que la FK de PostgreSQL: no elimina una categoría referenciada por productos.
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	t := r.s.data
	if _, ok := t.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	for _, p := range t.products {
		if p.CategoryID == id {
			return fmt.Errorf("%w: el producto %s referencia la categoría", domain.ErrCategoryNotEmpty, p.ID)
		}
	}
	delete(t.categories, id)
	delete(t.order, id)
	return nil
}

func (r *CategoryRepo) AddProduct(_ context.Context, categoryID, productID string) error {
	return r.mutate(categoryID, func(c *entity.Category) { c.ProductIDs = appendUnique(c.ProductIDs, productID) })
}

func (r *CategoryRepo) RemoveProduct(_ context.Context, categoryID, productID string) error {
	return r.mutate(categoryID, func(c *entity.Category) { c.ProductIDs = removeID(c.ProductIDs, productID) })
}

func (r *CategoryRepo) mutate(id string, fn func(c *entity.Category)) error {
	defer r.s.lock(r.inTx)()
	c, ok := r.s.data.categories[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	fn(c)
	c.UpdatedAt = time.Now()
	return nil
}

func checkCategoryName(t *tables, id, name string) error {
	for otherID, c := range t.categories {
		if otherID != id && c.Name == name {
			return fmt.Errorf("%w: ya existe una categoría llamada %q", domain.ErrDuplicate, name)
		}
	}
	return nil
}
