package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=100"`
}

// Validate verifica el nombre.
func (r *CreateCategoryRequest) Validate() error {
	return requireFields(map[string]string{"name": r.Name})
}

// UpdateCategoryRequest renombra una categoría.
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Validate verifica el nombre.
func (r *UpdateCategoryRequest) Validate() error {
	return requireFields(map[string]string{"name": r.Name})
}

// CategoryResponse salida de una categoría con sus productos poblados.
type CategoryResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Image     string            `json:"image"`
	Products  []ProductResponse `json:"products"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
