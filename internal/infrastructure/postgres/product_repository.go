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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, image, price, stock_quantity, description, category_id, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if !validID(product.CategoryID) {
		return domain.ErrCategoryNotFound
	}
	query := `
		INSERT INTO products (id, name, image, price, stock_quantity, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Image, product.Price, product.StockQuantity,
		product.Description, product.CategoryID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto con bloqueo de fila (FOR UPDATE) para usar dentro de una tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// List lista todos los productos por precio ascendente.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY price ASC, name ASC`)
}

// ListByCategory lista los productos de la categoría por precio ascendente.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error) {
	if !validID(categoryID) {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY price ASC, name ASC`, categoryID)
}

// Update actualiza nombre, precio, stock y descripción.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, price = $3, stock_quantity = $4, description = $5, updated_at = $6
		WHERE id = $1`
	return r.exec(ctx, "update product", query,
		product.ID, product.Name, product.Price, product.StockQuantity, product.Description, product.UpdatedAt)
}

// UpdateImage reemplaza la ruta de la imagen.
func (r *ProductRepo) UpdateImage(ctx context.Context, id, image string) error {
	return r.exec(ctx, "update product image",
		`UPDATE products SET image = $2, updated_at = now() WHERE id = $1`, id, image)
}

// SetCategory reescribe la referencia a la categoría.
func (r *ProductRepo) SetCategory(ctx context.Context, productID, categoryID string) error {
	if !validID(categoryID) {
		return domain.ErrCategoryNotFound
	}
	return r.exec(ctx, "set product category",
		`UPDATE products SET category_id = $2, updated_at = now() WHERE id = $1`, productID, categoryID)
}

// DecrementStock resta qty con la condición stock_quantity >= qty en el mismo UPDATE.
// Si no se actualiza ninguna fila se distingue entre producto inexistente y stock insuficiente.
func (r *ProductRepo) DecrementStock(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return domain.NewValidationError(fmt.Sprintf("cantidad a descontar inválida: %d", qty))
	}
	if !validID(productID) {
		return domain.ErrProductNotFound
	}
	query := `
		UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id = $1 AND stock_quantity >= $2`
	tag, err := r.q.Exec(ctx, query, productID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var available int
	err = r.q.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("read stock: %w", err)
	}
	return &domain.InsufficientStockError{ProductID: productID, Requested: qty, Available: available}
}

// Delete elimina el producto.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete product", `DELETE FROM products WHERE id = $1`, id)
}

func (r *ProductRepo) exec(ctx context.Context, op, query string, id string, args ...any) error {
	if !validID(id) {
		return domain.ErrProductNotFound
	}
	tag, err := r.q.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, query, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Image, &p.Price, &p.StockQuantity, &p.Description,
		&p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
