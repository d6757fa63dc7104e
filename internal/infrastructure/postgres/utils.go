package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// unique_violation según la clasificación de errores de PostgreSQL.
const codeUniqueViolation = "23505"

// isUniqueViolation verifica si un error es una violación de constraint único.
// Los repositorios la traducen al error de dominio del agregado (SKU duplicado,
// email ya registrado, requisición activa duplicada).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
