package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0.00",
		"24.98":     "24.98",
		"999.5":     "999.50",
		"1234567.5": "1,234,567.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), "entrada %s", in)
	}
}

func TestGenerateOrderReceipt_DevuelvePDF(t *testing.T) {
	items := []entity.OrderItem{entity.NewOrderItem("p-1", 2, decimal.RequireFromString("9.99"))}
	o := &entity.Order{
		ID: "0b7e4f6a-1111-4c3d-9e2f-000000000001", UserID: "u-1", Items: items,
		OrderAmount: entity.SumItems(items), Status: entity.OrderStatusPending, CreatedAt: time.Now(),
	}
	lines := []order.ReceiptLine{{ProductName: "Camiseta", Quantity: 2, UnitPrice: items[0].UnitPrice, Total: items[0].Total}}

	pdf, err := NewReceiptGenerator("Tienda").GenerateOrderReceipt(context.Background(), o, nil, lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "el resultado debe ser un PDF")
}
