package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/application/relations"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var errLectura = errors.New("lectura rechazada")

// unreadableProducts simula una falla del almacén al leer productos.
type unreadableProducts struct {
	repository.ProductRepository
}

func (unreadableProducts) GetByID(context.Context, string) (*entity.Product, error) {
	return nil, errLectura
}

// capturingGenerator guarda las líneas recibidas en lugar de dibujar el PDF.
type capturingGenerator struct {
	lines []order.ReceiptLine
}

func (g *capturingGenerator) GenerateOrderReceipt(_ context.Context, _ *entity.Order, _ *entity.User, lines []order.ReceiptLine) ([]byte, error) {
	g.lines = lines
	return []byte("%PDF-"), nil
}

func placedOrder(t *testing.T) (repository.Set, string) {
	t.Helper()
	store, userID := seedStore(t, map[string]int{"p1": 5})
	uc := order.NewPlaceOrderUseCase(store, relations.NewMaintainer(store), logger.Nop())
	out, err := uc.PlaceOrder(context.Background(), request(userID, dto.OrderLineRequest{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)
	return store.Repositories(), out.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestDownloadReceipt_UsesProductNames(t *testing.T) {
	repos, orderID := placedOrder(t)
	gen := &capturingGenerator{}

	pdf, name, err := order.NewReceiptUseCase(repos, gen).DownloadReceipt(context.Background(), orderID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Contains(t, name, orderID)
	require.Len(t, gen.lines, 1)
	assert.Equal(t, "p1", gen.lines[0].ProductName)
}

func TestDownloadReceipt_DeletedProductKeepsPlaceholder(t *testing.T) {
	repos, orderID := placedOrder(t)
	require.NoError(t, repos.Products.Delete(context.Background(), "p1"))
	gen := &capturingGenerator{}

	_, _, err := order.NewReceiptUseCase(repos, gen).DownloadReceipt(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, gen.lines, 1)
	assert.Equal(t, "Producto p1", gen.lines[0].ProductName)
}

func TestDownloadReceipt_StoreFailureIsReported(t *testing.T) {
	repos, orderID := placedOrder(t)
	repos.Products = unreadableProducts{repos.Products}
	gen := &capturingGenerator{}

	pdf, _, err := order.NewReceiptUseCase(repos, gen).DownloadReceipt(context.Background(), orderID)
	require.Error(t, err, "una falla de lectura no debe producir un comprobante con nombres genéricos")
	assert.True(t, errors.Is(err, errLectura))
	assert.Nil(t, pdf)
	assert.Nil(t, gen.lines, "no debe llegar a generarse el PDF")
}
