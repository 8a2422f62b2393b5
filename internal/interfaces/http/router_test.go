package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/application/relations"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-api/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/tienda-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildApp arma la API completa sobre el almacén en memoria y un filesystem en memoria.
func buildApp(t *testing.T, policy usecase.DeletePolicy) *fiber.App {
	t.Helper()
	log := logger.Nop()
	store := memory.NewStore()
	repos := store.Repositories()
	files, err := storage.NewLocalStorage(afero.NewMemMapFs(), "/uploads", "/uploads")
	require.NoError(t, err, "el almacenamiento en memoria debe construirse")

	rel := relations.NewMaintainer(store)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(requestid.New())
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		UserUC:     usecase.NewUserUseCase(repos.Users, files, log),
		ProductUC:  usecase.NewProductUseCase(repos, store, rel, files, log),
		CategoryUC: usecase.NewCategoryUseCase(repos, store, files, policy, log),
		PlaceOrder: order.NewPlaceOrderUseCase(store, rel, log),
		OrderUC:    order.NewOrderUseCase(repos, store, rel),
		ReceiptUC:  order.NewReceiptUseCase(repos, pdf.NewReceiptGenerator("Tienda Test")),
	})
	app.Use(apphttp.NotFound)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return send(t, app, req)
}

func doJSONList(t *testing.T, app *fiber.App, path string) (int, []map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out), "la respuesta debe ser un arreglo JSON")
	return resp.StatusCode, out
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err, "app.Test no debe fallar")
	defer resp.Body.Close()
	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "cuerpo JSON esperado: %s", raw)
	}
	return resp.StatusCode, out
}

// seed crea categoría, usuario y un producto de 12.49 con stock 5.
func seed(t *testing.T, app *fiber.App) (categoryID, userID, productID string) {
	t.Helper()
	status, cat := doJSON(t, app, http.MethodPost, "/api/categories", map[string]any{"name": "Frutas"})
	require.Equal(t, fiber.StatusOK, status, "crear categoría: %v", cat)

	status, user := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
		"name": "Ana", "email": "ana@example.com", "phone": "3001234567", "address": "Calle 1",
		"city": "Bogotá", "pin": "110111", "state": "Cundinamarca", "firebaseId": "fb-ana",
	})
	require.Equal(t, fiber.StatusOK, status, "crear usuario: %v", user)

	status, prod := doJSON(t, app, http.MethodPost, "/api/products/create/product", map[string]any{
		"name": "Manzana", "categoryId": cat["id"], "price": "12.49", "stockQuantity": 5,
	})
	require.Equal(t, fiber.StatusOK, status, "crear producto: %v", prod)

	return cat["id"].(string), user["id"].(string), prod["id"].(string)
}

func stockOf(t *testing.T, app *fiber.App, productID string) float64 {
	t.Helper()
	status, p := doJSON(t, app, http.MethodGet, "/api/products/product/"+productID, nil)
	require.Equal(t, fiber.StatusOK, status)
	return p["stockQuantity"].(float64)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestPlaceOrder_ComputesTotalsAndDecrementsStock(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	_, userID, productID := seed(t, app)

	status, o := doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{
		"userId":   userID,
		"products": []map[string]any{{"productId": productID, "quantity": 2}},
	})
	require.Equal(t, fiber.StatusOK, status, "la orden debe registrarse: %v", o)
	assert.Equal(t, "24.98", o["orderAmount"], "el monto lo calcula el servidor")
	assert.Equal(t, "pending", o["status"])
	assert.Equal(t, float64(3), stockOf(t, app, productID), "el stock debe bajar en 2")

	status, u := doJSON(t, app, http.MethodGet, "/api/users/"+userID, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []any{o["id"]}, u["orders"], "la orden debe quedar enlazada al usuario")
}

func TestPlaceOrder_InsufficientStockLeavesNothingApplied(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	_, userID, productID := seed(t, app)

	status, body := doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{
		"userId":   userID,
		"products": []map[string]any{{"productId": productID, "quantity": 10}},
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, float64(5), stockOf(t, app, productID), "el stock no debe cambiar")

	status, orders := doJSONList(t, app, "/api/orders")
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, orders, "no debe existir ninguna orden")
}

func TestPlaceOrder_UnknownUser(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	_, _, productID := seed(t, app)

	status, body := doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{
		"userId":   "no-existe",
		"products": []map[string]any{{"productId": productID, "quantity": 1}},
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestDeleteOrder_UnlinksFromUser(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	_, userID, productID := seed(t, app)
	_, o := doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{
		"userId":   userID,
		"products": []map[string]any{{"productId": productID, "quantity": 1}},
	})

	status, _ := doJSON(t, app, http.MethodDelete, "/api/orders/"+o["id"].(string), nil)
	require.Equal(t, fiber.StatusOK, status)

	_, u := doJSON(t, app, http.MethodGet, "/api/users/"+userID, nil)
	assert.Empty(t, u["orders"], "la orden eliminada no debe quedar en el usuario")

	status, _ = doJSON(t, app, http.MethodGet, "/api/orders/"+o["id"].(string), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUpdateOrder_StatusTransitions(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	_, userID, productID := seed(t, app)
	_, o := doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{
		"userId":   userID,
		"products": []map[string]any{{"productId": productID, "quantity": 1}},
	})
	path := "/api/orders/" + o["id"].(string)

	status, updated := doJSON(t, app, http.MethodPatch, path, map[string]any{"status": "shipped", "shippedAt": "2024-05-02"})
	require.Equal(t, fiber.StatusOK, status, "%v", updated)
	assert.Equal(t, "shipped", updated["status"])
	assert.Equal(t, "2024-05-02", updated["shippedAt"])

	status, body := doJSON(t, app, http.MethodPatch, path, map[string]any{"status": "pending"})
	assert.Equal(t, fiber.StatusBadRequest, status, "shipped → pending no está permitido")
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestOrderReceipt_ReturnsPDF(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	_, userID, productID := seed(t, app)
	_, o := doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{
		"userId":   userID,
		"products": []map[string]any{{"productId": productID, "quantity": 1}},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders/"+o["id"].(string)+"/receipt", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")), "el cuerpo debe ser un PDF")
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías y productos
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteCategory_RejectWithProducts(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	categoryID, _, productID := seed(t, app)

	status, body := doJSON(t, app, http.MethodDelete, "/api/categories/"+categoryID, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CATEGORY_NOT_EMPTY", body["code"])
	assert.Equal(t, float64(5), stockOf(t, app, productID), "el producto debe seguir existiendo")
}

func TestDeleteCategory_EmptySucceeds(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	_, cat := doJSON(t, app, http.MethodPost, "/api/categories", map[string]any{"name": "Vacía"})

	status, _ := doJSON(t, app, http.MethodDelete, "/api/categories/"+cat["id"].(string), nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/categories/"+cat["id"].(string), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestDeleteCategory_CascadeRemovesProducts(t *testing.T) {
	app := buildApp(t, usecase.DeleteCascade)
	categoryID, _, productID := seed(t, app)

	status, _ := doJSON(t, app, http.MethodDelete, "/api/categories/"+categoryID, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/products/product/"+productID, nil)
	assert.Equal(t, fiber.StatusNotFound, status, "el producto debe eliminarse en cascada")
}

func TestUpdateProduct_MovesBetweenCategories(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	fromID, _, productID := seed(t, app)
	_, to := doJSON(t, app, http.MethodPost, "/api/categories", map[string]any{"name": "Verduras"})
	toID := to["id"].(string)

	status, p := doJSON(t, app, http.MethodPatch, "/api/products/update/"+productID, map[string]any{"categoryId": toID})
	require.Equal(t, fiber.StatusOK, status, "%v", p)
	assert.Equal(t, toID, p["categoryId"])

	_, from := doJSON(t, app, http.MethodGet, "/api/categories/"+fromID, nil)
	assert.Empty(t, from["products"], "la categoría origen no debe listar el producto")
	_, dest := doJSON(t, app, http.MethodGet, "/api/categories/"+toID, nil)
	require.Len(t, dest["products"], 1)
	assert.Equal(t, productID, dest["products"].([]any)[0].(map[string]any)["id"])
}

func TestCreateProduct_MultipartWithImage(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	categoryID, _, _ := seed(t, app)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Pera"))
	require.NoError(t, w.WriteField("categoryId", categoryID))
	require.NoError(t, w.WriteField("price", "3.50"))
	require.NoError(t, w.WriteField("stockQuantity", "7"))
	part, err := w.CreateFormFile("image", "pera.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/create/product", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	status, p := send(t, app, req)
	require.Equal(t, fiber.StatusOK, status, "%v", p)
	assert.Equal(t, "3.5", p["price"])
	assert.True(t, strings.HasPrefix(p["image"].(string), "/uploads/"), "la imagen debe guardarse bajo el prefijo")
}

func TestListProducts_SortedByPrice(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	categoryID, _, _ := seed(t, app)
	doJSON(t, app, http.MethodPost, "/api/products/create/product", map[string]any{
		"name": "Uva", "categoryId": categoryID, "price": "1.00", "stockQuantity": 1,
	})

	status, list := doJSONList(t, app, "/api/products/"+categoryID)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, list, 2)
	assert.Equal(t, "Uva", list[0]["name"], "el más barato primero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y errores
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateUser_DuplicateEmail(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	seed(t, app)

	status, body := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
		"name": "Otra", "email": "ana@example.com", "phone": "1", "address": "a",
		"city": "c", "pin": "1", "state": "s", "firebaseId": "fb-otra",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.NotEmpty(t, body["message"])
}

func TestUserByFirebaseID(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)
	_, userID, _ := seed(t, app)

	status, u := doJSON(t, app, http.MethodGet, "/api/users/firebase/fb-ana", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, userID, u["id"])

	status, _ = doJSON(t, app, http.MethodDelete, "/api/users/firebase/fb-ana", nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/users/"+userID, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUnknownRoute_JSON404(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)

	status, body := doJSON(t, app, http.MethodGet, "/api/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "ROUTE_NOT_FOUND", body["code"])
}

func TestInvalidBody_400(t *testing.T) {
	app := buildApp(t, usecase.DeleteReject)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	status, body := send(t, app, req)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", body["code"])
}
