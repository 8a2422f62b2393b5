package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/order"
)

// OrderHandler maneja las peticiones HTTP para órdenes.
type OrderHandler struct {
	place   *order.PlaceOrderUseCase
	orders  *order.OrderUseCase
	receipt *order.ReceiptUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(place *order.PlaceOrderUseCase, orders *order.OrderUseCase, receipt *order.ReceiptUseCase) *OrderHandler {
	return &OrderHandler{place: place, orders: orders, receipt: receipt}
}

// Create godoc
// @Summary      Registrar orden
// @Description  Valida stock de todas las líneas, descuenta stock, crea la orden y la enlaza al usuario en una transacción. Los montos los calcula el servidor.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Usuario y líneas"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Failure      500   {object}  dto.ErrorResponse  "ORDER_PLACEMENT"
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.place.PlaceOrder(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes con usuario y productos
// @Tags         orders
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.orders.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden
// @Tags         orders
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.orders.GetByID(c.UserContext(), c.Params("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByUser godoc
// @Summary      Órdenes de un usuario
// @Tags         orders
// @Produce      json
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders/user/{userId} [get]
func (h *OrderHandler) ListByUser(c *fiber.Ctx) error {
	out, err := h.orders.ListByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar estado y fechas
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                  true  "ID de la orden"
// @Param        body     body  dto.UpdateOrderRequest  true  "Estado y fechas"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId} [patch]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.orders.Update(c.UserContext(), c.Params("orderId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar orden
// @Description  Elimina la orden y la quita de la lista del usuario en una transacción.
// @Tags         orders
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.orders.Delete(c.UserContext(), c.Params("orderId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "orden eliminada"})
}

// Receipt godoc
// @Summary      Descargar comprobante PDF
// @Tags         orders
// @Produce      application/pdf
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.receipt.DownloadReceipt(c.UserContext(), c.Params("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(pdf)
}
