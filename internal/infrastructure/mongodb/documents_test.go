package mongodb

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

func TestOrderDoc_ConservaDecimalesExactos(t *testing.T) {
	items := []entity.OrderItem{
		entity.NewOrderItem("p-1", 2, decimal.RequireFromString("9.99")),
		entity.NewOrderItem("p-2", 1, decimal.RequireFromString("5.00")),
	}
	o := &entity.Order{
		ID: "o-1", UserID: "u-1", Items: items, OrderAmount: entity.SumItems(items),
		Status: entity.OrderStatusPending, CreatedAt: time.Now().UTC(),
	}

	doc, err := newOrderDoc(o)
	require.NoError(t, err)
	assert.Equal(t, "24.98", doc.OrderAmount.String())
	require.Len(t, doc.Products, 2)
	assert.Equal(t, "19.98", doc.Products[0].Total.String())

	back, err := doc.entity()
	require.NoError(t, err)
	assert.True(t, back.OrderAmount.Equal(decimal.RequireFromString("24.98")), "monto: %s", back.OrderAmount)
	assert.Equal(t, "u-1", back.UserID)
	assert.Equal(t, "p-2", back.Items[1].ProductID)
}

func TestUserDoc_OrdersNuncaNil(t *testing.T) {
	doc := newUserDoc(&entity.User{ID: "u-1"})
	assert.NotNil(t, doc.Orders)
	assert.NotNil(t, userDoc{ID: "u-1"}.entity().OrderIDs)
}
