package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// imageStore envuelve el adaptador de almacenamiento: Put propaga errores, discard solo los registra.
type imageStore struct {
	storage ports.FileStorage
	log     *logger.Logger
}

func (s imageStore) put(ctx context.Context, upload *dto.FileUpload) (string, error) {
	if upload == nil {
		return "", nil
	}
	path, err := s.storage.Put(ctx, upload.Filename, upload.Content)
	if err != nil {
		return "", fmt.Errorf("guardar imagen: %w", err)
	}
	return path, nil
}

// discard elimina la imagen sin afectar la operación del caller.
func (s imageStore) discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.storage.Delete(ctx, path); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("no se pudo eliminar la imagen")
		return
	}
	s.log.Debug().Str("path", path).Msg("imagen eliminada")
}
