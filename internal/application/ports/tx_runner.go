package ports

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción del almacén, pasando repositorios atados a ella.
// Si fn devuelve error se revierten todas las escrituras; si no, se confirman juntas.
// fn debe usar el ctx recibido: algunos almacenes propagan la sesión por el contexto.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error
}
