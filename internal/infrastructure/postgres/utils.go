package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/comercializacion-api/internal/domain"
)

// isUUID indica si id puede compararse contra una columna UUID. Un id mal formado
// no existe: las búsquedas lo tratan como fila ausente en vez de error del driver.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// dbError clasifica el error del driver: único -> ErrDuplicate, FK -> ErrNotFound, resto -> PersistenceError.
func dbError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: referencia inexistente: %w", op, domain.ErrNotFound)
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

// nullIfEmpty convierte "" en NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// likePattern %texto% para búsquedas ILIKE.
func likePattern(s string) string {
	return "%" + strings.ReplaceAll(strings.ReplaceAll(s, "%", `\%`), "_", `\_`) + "%"
}
