package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeAndCode(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", NewValidationError("x"), http.StatusBadRequest, "VALIDATION"},
		{"no encontrado envuelto", fmt.Errorf("ctx: %w", ErrProductNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"email duplicado", ErrEmailAlreadyExists, http.StatusConflict, "DUPLICATE"},
		{"stock", &InsufficientStockError{ProductID: "p", Requested: 2, Available: 1}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"categoría con productos", NewCategoryNotEmptyError("Frutas", 3), http.StatusConflict, "CATEGORY_NOT_EMPTY"},
		{"registro de orden", NewOrderPlacementError(errors.New("tx")), http.StatusInternalServerError, "ORDER_PLACEMENT"},
		{"desconocido", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, StatusCode(tc.err))
			assert.Equal(t, tc.code, Code(tc.err))
		})
	}
}

func TestConsistencyError_StatusFollowsCause(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(NewConsistencyError("op", ErrUserNotFound)))
	assert.Equal(t, http.StatusConflict, StatusCode(NewConsistencyError("op", ErrConflict)))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(NewConsistencyError("op", errors.New("red"))))

	err := NewConsistencyError("enlazar", ErrUserNotFound)
	assert.True(t, errors.Is(err, ErrConsistency), "expone el sentinela")
	assert.True(t, errors.Is(err, ErrUserNotFound), "y la causa")
	assert.Equal(t, "CONSISTENCY", Code(err))
}

func TestOrderPlacementError_KeepsCause(t *testing.T) {
	cause := &InsufficientStockError{ProductID: "p1", Requested: 3, Available: 0}
	err := NewOrderPlacementError(cause)

	var ise *InsufficientStockError
	assert.True(t, errors.As(err, &ise))
	assert.Equal(t, "p1", ise.ProductID)
	assert.Contains(t, err.Error(), "no se pudo registrar la orden")
}
