package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain"
)

// ProductHandler maneja las peticiones HTTP para productos.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Description  Acepta JSON o multipart (campos + image). El producto queda enlazado a su categoría.
// @Tags         products
// @Accept       json,mpfd
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/create/product [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	in, err := parseCreateProduct(c)
	if err != nil {
		return writeError(c, err)
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
// @Summary      Listar productos por precio ascendente
// @Tags         products
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByCategory godoc
// @Summary      Listar productos de una categoría
// @Tags         products
// @Produce      json
// @Param        categoryId  path  string  true  "ID de la categoría"
// @Success      200  {array}   dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{categoryId} [get]
func (h *ProductHandler) ListByCategory(c *fiber.Ctx) error {
	out, err := h.uc.ListByCategory(c.UserContext(), c.Params("categoryId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/product/{productId} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Un categoryId distinto al actual mueve el producto de categoría.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        productId  path  string                    true  "ID del producto"
// @Param        body       body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/update/{productId} [patch]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("productId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateImage godoc
// @Summary      Reemplazar imagen del producto
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        productId  path      string  true  "ID del producto"
// @Param        image      formData  file    true  "Imagen"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/update/{productId}/image [patch]
func (h *ProductHandler) UpdateImage(c *fiber.Ctx) error {
	image, err := formImage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateImage(c.UserContext(), c.Params("productId"), image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/delete/{productId} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("productId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "producto eliminado"})
}

// parseCreateProduct lee JSON o campos multipart; price y stockQuantity se convierten a mano.
func parseCreateProduct(c *fiber.Ctx) (dto.CreateProductRequest, error) {
	var in dto.CreateProductRequest
	if !isMultipart(c) {
		if err := c.BodyParser(&in); err != nil {
			return in, domain.NewValidationError("cuerpo inválido")
		}
		return in, nil
	}
	in.Name = c.FormValue("name")
	in.CategoryID = c.FormValue("categoryId")
	in.Description = c.FormValue("description")
	if v := strings.TrimSpace(c.FormValue("price")); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return in, domain.NewValidationError("price inválido")
		}
		in.Price = price
	}
	if v := strings.TrimSpace(c.FormValue("stockQuantity")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, domain.NewValidationError("stockQuantity inválido")
		}
		in.StockQuantity = n
	}
	return in, nil
}
