package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
)

// UserHandler maneja las peticiones HTTP para usuarios.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar usuario
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        name        formData  string  true   "Nombre"
// @Param        email       formData  string  true   "Email"
// @Param        phone       formData  string  true   "Teléfono"
// @Param        address     formData  string  true   "Dirección"
// @Param        city        formData  string  true   "Ciudad"
// @Param        pin         formData  string  true   "Código postal"
// @Param        state       formData  string  true   "Estado"
// @Param        firebaseId  formData  string  true   "ID del proveedor de identidad"
// @Param        image       formData  file    false  "Imagen de perfil"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	image, err := formImage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in, image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario por ID
// @Tags         users
// @Produce      json
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{userId} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByFirebaseID godoc
// @Summary      Obtener usuario por firebaseId
// @Tags         users
// @Produce      json
// @Param        firebaseId  path  string  true  "ID del proveedor de identidad"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/firebase/{firebaseId} [get]
func (h *UserHandler) GetByFirebaseID(c *fiber.Ctx) error {
	out, err := h.uc.GetByFirebaseID(c.UserContext(), c.Params("firebaseId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userId  path  string                 true  "ID del usuario"
// @Param        body    body  dto.UpdateUserRequest  true  "Campos a actualizar"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{userId} [patch]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("userId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateByFirebaseID godoc
// @Summary      Actualizar perfil por firebaseId
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        firebaseId  path  string                 true  "ID del proveedor de identidad"
// @Param        body        body  dto.UpdateUserRequest  true  "Campos a actualizar"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/firebase/{firebaseId} [patch]
func (h *UserHandler) UpdateByFirebaseID(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateByFirebaseID(c.UserContext(), c.Params("firebaseId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateImage godoc
// @Summary      Reemplazar imagen de perfil
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        userId  path      string  true  "ID del usuario"
// @Param        image   formData  file    true  "Imagen"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{userId}/image [patch]
func (h *UserHandler) UpdateImage(c *fiber.Ctx) error {
	image, err := formImage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateImage(c.UserContext(), c.Params("userId"), image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Description  Elimina solo el usuario; sus órdenes se conservan.
// @Tags         users
// @Produce      json
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{userId} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("userId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "usuario eliminado"})
}

// DeleteByFirebaseID godoc
// @Summary      Eliminar usuario por firebaseId
// @Tags         users
// @Produce      json
// @Param        firebaseId  path  string  true  "ID del proveedor de identidad"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/firebase/{firebaseId} [delete]
func (h *UserHandler) DeleteByFirebaseID(c *fiber.Ctx) error {
	if err := h.uc.DeleteByFirebaseID(c.UserContext(), c.Params("firebaseId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "usuario eliminado"})
}
