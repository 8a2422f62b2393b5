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

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, name, email, phone, address, city, postal_code, state, firebase_id, image, order_ids::text[], created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, phone, address, city, postal_code, state, firebase_id, image, order_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '{}', $11, $12)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.Address, user.City, user.PostalCode,
		user.State, user.FirebaseID, user.Image, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return mapUserUniqueViolation(err, "insert user")
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByFirebaseID obtiene un usuario por su identificador externo.
func (r *UserRepo) GetByFirebaseID(ctx context.Context, firebaseID string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE firebase_id = $1`, firebaseID)
}

// List devuelve los usuarios por fecha de creación.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Update actualiza los datos de perfil.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	if !validID(user.ID) {
		return domain.ErrUserNotFound
	}
	query := `
		UPDATE users SET name = $2, email = $3, phone = $4, address = $5, city = $6,
			postal_code = $7, state = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.Address, user.City,
		user.PostalCode, user.State, user.UpdatedAt,
	)
	if err != nil {
		return mapUserUniqueViolation(err, "update user")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateImage reemplaza la ruta de la imagen.
func (r *UserRepo) UpdateImage(ctx context.Context, id, image string) error {
	return r.exec(ctx, "update user image",
		`UPDATE users SET image = $2, updated_at = now() WHERE id = $1`, id, image)
}

// Delete elimina el usuario. Sus órdenes no se tocan.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

// AddOrder agrega la orden al final de la lista si todavía no está.
func (r *UserRepo) AddOrder(ctx context.Context, userID, orderID string) error {
	query := `
		UPDATE users SET
			order_ids = CASE WHEN $2::uuid = ANY(order_ids) THEN order_ids ELSE array_append(order_ids, $2::uuid) END,
			updated_at = now()
		WHERE id = $1`
	return r.exec(ctx, "add order to user", query, userID, orderID)
}

// RemoveOrder quita la orden de la lista.
func (r *UserRepo) RemoveOrder(ctx context.Context, userID, orderID string) error {
	return r.exec(ctx, "remove order from user",
		`UPDATE users SET order_ids = array_remove(order_ids, $2::uuid), updated_at = now() WHERE id = $1`,
		userID, orderID)
}

func (r *UserRepo) exec(ctx context.Context, op, query string, id string, args ...any) error {
	if !validID(id) {
		return domain.ErrUserNotFound
	}
	tag, err := r.q.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.City, &u.PostalCode, &u.State,
		&u.FirebaseID, &u.Image, &u.OrderIDs, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.OrderIDs == nil {
		u.OrderIDs = []string{}
	}
	return &u, nil
}

func mapUserUniqueViolation(err error, op string) error {
	constraint, ok := isUniqueViolation(err)
	if !ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	if constraint == "users_firebase_id_key" {
		return fmt.Errorf("%w: firebaseId ya registrado", domain.ErrDuplicate)
	}
	return domain.ErrEmailAlreadyExists
}
