package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
// Devuelve además el nombre del constraint cuando está disponible.
func isUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName, pgErr.Code == "23505"
	}
	return "", strings.Contains(err.Error(), "23505")
}

// validID las columnas id son UUID; un id mal formado nunca existe.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
