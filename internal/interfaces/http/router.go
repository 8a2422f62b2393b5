package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	PlaceOrder *order.PlaceOrderUseCase
	OrderUC    *order.OrderUseCase
	ReceiptUC  *order.ReceiptUseCase
}

// Router registra las rutas de la API. Las rutas con segmento fijo van antes que las
// paramétricas del mismo largo.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	users := api.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/firebase/:firebaseId", userHandler.GetByFirebaseID)
	users.Patch("/firebase/:firebaseId", userHandler.UpdateByFirebaseID)
	users.Delete("/firebase/:firebaseId", userHandler.DeleteByFirebaseID)
	users.Get("/:userId", userHandler.GetByID)
	users.Patch("/:userId/image", userHandler.UpdateImage)
	users.Patch("/:userId", userHandler.Update)
	users.Delete("/:userId", userHandler.Delete)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/product/:productId", productHandler.GetByID)
	products.Post("/create/product", productHandler.Create)
	products.Patch("/update/:productId/image", productHandler.UpdateImage)
	products.Patch("/update/:productId", productHandler.Update)
	products.Delete("/delete/:productId", productHandler.Delete)
	products.Get("/:categoryId", productHandler.ListByCategory)

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:categoryId", categoryHandler.GetByID)
	categories.Patch("/:categoryId/image", categoryHandler.UpdateImage)
	categories.Patch("/:categoryId", categoryHandler.Rename)
	categories.Delete("/:categoryId", categoryHandler.Delete)

	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.PlaceOrder, deps.OrderUC, deps.ReceiptUC)
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Get("/user/:userId", orderHandler.ListByUser)
	orders.Get("/:orderId/receipt", orderHandler.Receipt)
	orders.Get("/:orderId", orderHandler.GetByID)
	orders.Patch("/:orderId", orderHandler.Update)
	orders.Delete("/:orderId", orderHandler.Delete)
}
