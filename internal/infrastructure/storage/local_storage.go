package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/domain"
)

var _ ports.FileStorage = (*LocalStorage)(nil)

// extensiones aceptadas para imágenes.
var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// LocalStorage guarda las imágenes en un directorio y las expone bajo urlPrefix.
// En producción usa el disco (afero.NewOsFs); en tests un afero.NewMemMapFs.
type LocalStorage struct {
	fs        afero.Fs
	dir       string
	urlPrefix string
}

// NewLocalStorage crea el directorio si no existe.
func NewLocalStorage(fs afero.Fs, dir, urlPrefix string) (*LocalStorage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de uploads: %w", err)
	}
	return &LocalStorage{fs: fs, dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Put guarda el contenido con un nombre nuevo (uuid + extensión original) y devuelve la ruta pública.
func (s *LocalStorage) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", domain.NewValidationError(fmt.Sprintf("extensión de imagen no permitida: %q", ext))
	}
	name := uuid.New().String() + ext
	if err := afero.WriteReader(s.fs, filepath.Join(s.dir, name), r); err != nil {
		return "", fmt.Errorf("escribir %s: %w", name, err)
	}
	return path.Join(s.urlPrefix, name), nil
}

// Delete elimina el archivo referenciado por una ruta devuelta por Put.
func (s *LocalStorage) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(p, s.urlPrefix+"/") {
		return fmt.Errorf("ruta fuera del almacenamiento: %s", p)
	}
	name := path.Base(p)
	if name == "." || name == "/" || name == ".." {
		return fmt.Errorf("ruta inválida: %s", p)
	}
	if err := s.fs.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("eliminar %s: %w", name, err)
	}
	return nil
}
