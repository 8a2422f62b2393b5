package ports

import (
	"context"
	"io"
)

// FileStorage adaptador de almacenamiento de imágenes.
// Put guarda el contenido y devuelve una ruta estable; Delete elimina el objeto guardado.
type FileStorage interface {
	Put(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}
