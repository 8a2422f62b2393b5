package dto

import (
	"strings"
	"time"
)

// CreateUserRequest entrada para registrar un usuario (multipart: campos + archivo "image").
type CreateUserRequest struct {
	Name       string `json:"name" form:"name" validate:"required,max=200"`
	Email      string `json:"email" form:"email" validate:"required,email"`
	Phone      string `json:"phone" form:"phone" validate:"required"`
	Address    string `json:"address" form:"address" validate:"required"`
	City       string `json:"city" form:"city" validate:"required"`
	PostalCode string `json:"pin" form:"pin" validate:"required"`
	State      string `json:"state" form:"state" validate:"required"`
	FirebaseID string `json:"firebaseId" form:"firebaseId" validate:"required"`
}

// Validate verifica los campos obligatorios.
func (r *CreateUserRequest) Validate() error {
	return requireFields(map[string]string{
		"name":       r.Name,
		"email":      r.Email,
		"phone":      r.Phone,
		"address":    r.Address,
		"city":       r.City,
		"pin":        r.PostalCode,
		"state":      r.State,
		"firebaseId": r.FirebaseID,
	}, func() error {
		if !strings.Contains(r.Email, "@") {
			return invalid("email inválido")
		}
		return nil
	})
}

// UpdateUserRequest datos de perfil a actualizar; los campos nil no cambian.
type UpdateUserRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	PostalCode *string `json:"pin"`
	State      *string `json:"state"`
}

// UserResponse salida de un usuario.
type UserResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"pin"`
	State      string    `json:"state"`
	FirebaseID string    `json:"firebaseId"`
	Image      string    `json:"image"`
	Orders     []string  `json:"orders"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
