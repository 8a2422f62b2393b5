package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/domain"
)

// recordingQuerier guarda las sentencias recibidas por Exec.
type recordingQuerier struct {
	execs []string
	tag   pgconn.CommandTag
	err   error
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.execs = append(q.execs, sql)
	return q.tag, q.err
}

func (q *recordingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("no usado")
}

func (q *recordingQuerier) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func (q *recordingQuerier) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }

func TestValidID(t *testing.T) {
	assert.True(t, validID("9b2f6a52-6a6c-4a3e-9d0e-1c2b3a4d5e6f"))
	assert.False(t, validID("no-es-uuid"))
	assert.False(t, validID(""))
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	constraint, ok := isUniqueViolation(fmt.Errorf("insert: %w", pgErr))
	assert.True(t, ok)
	assert.Equal(t, "users_email_key", constraint)

	_, ok = isUniqueViolation(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok, "FK no es unicidad")
}

func TestMapUserUniqueViolation(t *testing.T) {
	err := mapUserUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "users_firebase_id_key"}, "insert user")
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.False(t, errors.Is(err, domain.ErrEmailAlreadyExists))

	err = mapUserUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, "insert user")
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
}

func TestMigrate_ExecutesEmbeddedSchema(t *testing.T) {
	q := &recordingQuerier{}
	require.NoError(t, Migrate(context.Background(), q))
	require.Len(t, q.execs, 1)
	for _, table := range []string{"categories", "products", "users", "orders", "order_items"} {
		assert.Contains(t, q.execs[0], "CREATE TABLE IF NOT EXISTS "+table, "falta la tabla %s", table)
	}
	assert.True(t, strings.Contains(q.execs[0], "stock_quantity"), "el esquema define el stock")
}

func TestMalformedIDsActAsMissing(t *testing.T) {
	q := &recordingQuerier{}
	ctx := context.Background()

	p, err := NewProductRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.True(t, errors.Is(NewProductRepository(q).DecrementStock(ctx, "abc", 1), domain.ErrProductNotFound))
	assert.True(t, errors.Is(NewOrderRepository(q).Delete(ctx, "abc"), domain.ErrOrderNotFound))
	assert.True(t, errors.Is(NewCategoryRepository(q).Delete(ctx, "abc"), domain.ErrCategoryNotFound))
	assert.Empty(t, q.execs, "no se consulta la base con ids inválidos")
}

func TestExec_NoRowsIsNotFound(t *testing.T) {
	q := &recordingQuerier{tag: pgconn.NewCommandTag("UPDATE 0")}
	err := NewUserRepository(q).AddOrder(context.Background(), "9b2f6a52-6a6c-4a3e-9d0e-1c2b3a4d5e6f", "9b2f6a52-6a6c-4a3e-9d0e-1c2b3a4d5e70")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestDecrementStock_RejectsNonPositive(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewProductRepository(q)

	err := repo.DecrementStock(context.Background(), "9b2f6a52-6a6c-4a3e-9d0e-1c2b3a4d5e6f", -1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	err = repo.DecrementStock(context.Background(), "9b2f6a52-6a6c-4a3e-9d0e-1c2b3a4d5e6f", 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, q.execs, "no se envía el UPDATE con cantidades no positivas")
}
