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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, name, image, product_ids::text[], created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría vacía.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, image, product_ids, created_at, updated_at)
		VALUES ($1, $2, $3, '{}', $4, $5)`
	_, err := r.q.Exec(ctx, query, category.ID, category.Name, category.Image, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return mapCategoryUniqueViolation(err, category.Name, "insert category")
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	if !validID(id) {
		return nil, nil
	}
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// List devuelve las categorías ordenadas por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Rename cambia el nombre.
func (r *CategoryRepo) Rename(ctx context.Context, id, name string) error {
	if !validID(id) {
		return domain.ErrCategoryNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE categories SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	if err != nil {
		return mapCategoryUniqueViolation(err, name, "rename category")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// UpdateImage reemplaza la ruta de la imagen.
func (r *CategoryRepo) UpdateImage(ctx context.Context, id, image string) error {
	return r.exec(ctx, "update category image",
		`UPDATE categories SET image = $2, updated_at = now() WHERE id = $1`, id, image)
}

// Delete elimina la categoría. Falla por FK si todavía tiene productos.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete category", `DELETE FROM categories WHERE id = $1`, id)
}

// AddProduct agrega el producto al final de la lista si todavía no está.
func (r *CategoryRepo) AddProduct(ctx context.Context, categoryID, productID string) error {
	query := `
		UPDATE categories SET
			product_ids = CASE WHEN $2::uuid = ANY(product_ids) THEN product_ids ELSE array_append(product_ids, $2::uuid) END,
			updated_at = now()
		WHERE id = $1`
	return r.exec(ctx, "add product to category", query, categoryID, productID)
}

// RemoveProduct quita el producto de la lista.
func (r *CategoryRepo) RemoveProduct(ctx context.Context, categoryID, productID string) error {
	return r.exec(ctx, "remove product from category",
		`UPDATE categories SET product_ids = array_remove(product_ids, $2::uuid), updated_at = now() WHERE id = $1`,
		categoryID, productID)
}

func (r *CategoryRepo) exec(ctx context.Context, op, query string, id string, args ...any) error {
	if !validID(id) {
		return domain.ErrCategoryNotFound
	}
	tag, err := r.q.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Image, &c.ProductIDs, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if c.ProductIDs == nil {
		c.ProductIDs = []string{}
	}
	return &c, nil
}

func mapCategoryUniqueViolation(err error, name, op string) error {
	if _, ok := isUniqueViolation(err); ok {
		return fmt.Errorf("%w: ya existe una categoría llamada %q", domain.ErrDuplicate, name)
	}
	return fmt.Errorf("%s: %w", op, err)
}
