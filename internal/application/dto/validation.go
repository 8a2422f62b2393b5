package dto

import (
	"sort"
	"strings"

	"github.com/jhoicas/tienda-api/internal/domain"
)

// requireFields devuelve un error de validación con los campos vacíos (en orden alfabético)
// y, si no falta ninguno, ejecuta las validaciones extra.
func requireFields(fields map[string]string, extra ...func() error) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return invalid("campos requeridos: " + strings.Join(missing, ", "))
	}
	for _, fn := range extra {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(msg string) error {
	return domain.NewValidationError(msg)
}
