package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidState      = errors.New("operación no permitida en el estado actual")
	ErrPersistence       = errors.New("error de persistencia")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// NotFoundError indica que la entidad referenciada no existe.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError describe una entrada rechazada antes de cualquier escritura.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError se devuelve cuando una salida o ajuste dejaría el stock en negativo.
type InsufficientStockError struct {
	ProductID   string
	ProductCode string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductCode
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d", name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidStateError indica una transición de estado no permitida.
type InvalidStateError struct {
	Entity    string
	Current   string
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("no se puede %s %s en estado %s", e.Operation, e.Entity, e.Current)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// PersistenceError envuelve fallas del almacenamiento (begin, commit, driver).
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// IsDomainError indica si err ya pertenece a una de las categorías del dominio.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrInsufficientStock, ErrInvalidState,
		ErrPersistence, ErrDuplicate, ErrUnauthorized, ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Invalid atajo para construir un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
