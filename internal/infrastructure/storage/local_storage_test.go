package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/infrastructure/storage"
)

func newStorage(t *testing.T) (*storage.LocalStorage, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s, err := storage.NewLocalStorage(fs, "/data/uploads", "uploads/")
	require.NoError(t, err)
	return s, fs
}

func TestPut_GuardaYDevuelveRutaPublica(t *testing.T) {
	s, fs := newStorage(t)

	p, err := s.Put(context.Background(), "Foto.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/uploads/"), "ruta: %s", p)
	assert.True(t, strings.HasSuffix(p, ".png"), "la extensión se normaliza a minúsculas")

	content, err := afero.ReadFile(fs, "/data/uploads/"+strings.TrimPrefix(p, "/uploads/"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))
}

func TestPut_RechazaExtension(t *testing.T) {
	s, _ := newStorage(t)

	_, err := s.Put(context.Background(), "script.sh", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "debe ser un error de validación")
}

func TestDelete(t *testing.T) {
	s, fs := newStorage(t)
	ctx := context.Background()

	p, err := s.Put(ctx, "a.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, p))

	exists, err := afero.Exists(fs, "/data/uploads/"+strings.TrimPrefix(p, "/uploads/"))
	require.NoError(t, err)
	assert.False(t, exists, "el archivo debe eliminarse")

	assert.Error(t, s.Delete(ctx, p), "eliminar dos veces falla")
	assert.Error(t, s.Delete(ctx, "/otro/../../etc/passwd"), "rutas fuera del prefijo se rechazan")
}
