package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = fmt.Errorf("usuario no encontrado: %w", ErrNotFound)
	ErrProductNotFound    = fmt.Errorf("producto no encontrado: %w", ErrNotFound)
	ErrCategoryNotFound   = fmt.Errorf("categoría no encontrada: %w", ErrNotFound)
	ErrOrderNotFound      = fmt.Errorf("orden no encontrada: %w", ErrNotFound)
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrEmailAlreadyExists = fmt.Errorf("el email ya está registrado: %w", ErrDuplicate)
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrCategoryNotEmpty   = errors.New("la categoría todavía tiene productos")
	ErrConsistency        = errors.New("no se pudo mantener la consistencia entre documentos")
	ErrOrderPlacement     = errors.New("no se pudo registrar la orden")
)

// Error error de dominio con el código HTTP que le corresponde.
// Kind es uno de los sentinelas de arriba; Err la causa original (puede ser nil).
type Error struct {
	Kind       error
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap expone tanto el sentinela como la causa para errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewValidationError entrada mal formada o incompleta (400).
func NewValidationError(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, StatusCode: http.StatusBadRequest, Message: msg}
}

// NewConsistencyError falla al aplicar ambos lados de una relación bidireccional.
// Una búsqueda fallida se reporta 404 y una referencia desactualizada 409; el resto es 500.
func NewConsistencyError(op string, err error) *Error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrConflict):
		status = http.StatusConflict
	}
	return &Error{Kind: ErrConsistency, StatusCode: status, Message: op, Err: err}
}

// NewOrderPlacementError envuelve cualquier falla en reserva, persistencia o enlace de una orden.
func NewOrderPlacementError(err error) *Error {
	return &Error{
		Kind:       ErrOrderPlacement,
		StatusCode: http.StatusInternalServerError,
		Message:    "no se pudo registrar la orden",
		Err:        err,
	}
}

// NewCategoryNotEmptyError la categoría aún tiene productos y la política es rechazar (409).
func NewCategoryNotEmptyError(name string, products int) *Error {
	return &Error{
		Kind:       ErrCategoryNotEmpty,
		StatusCode: http.StatusConflict,
		Message:    fmt.Sprintf("la categoría %s tiene %d productos", name, products),
	}
}

// InsufficientStockError detalle del rechazo por stock (409).
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s: solicitado %d, disponible %d",
		e.ProductID, e.Requested, e.Available)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StatusCode devuelve el código HTTP asociado a err.
func StatusCode(err error) int {
	var de *Error
	if errors.As(err, &de) && de.StatusCode != 0 {
		return de.StatusCode
	}
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrCategoryNotEmpty):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Code código corto estable para el cuerpo de error HTTP.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrCategoryNotEmpty):
		return "CATEGORY_NOT_EMPTY"
	case errors.Is(err, ErrOrderPlacement):
		return "ORDER_PLACEMENT"
	case errors.Is(err, ErrConsistency):
		return "CONSISTENCY"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicate):
		return "DUPLICATE"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}
