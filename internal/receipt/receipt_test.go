package receipt

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Hitarth2510/thrive-backend/internal/order"
)

func sampleSale() order.Sale {
	return order.Sale{
		ID:            uuid.New(),
		OrgID:         uuid.New(),
		CustomerName:  "Ada",
		PaymentMethod: order.PaymentCard,
		Subtotal:      decimal.RequireFromString("12.00"),
		Discount:      decimal.RequireFromString("1.20"),
		Total:         decimal.RequireFromString("10.80"),
		Items: []order.SaleItem{
			{Name: "Cappuccino", Quantity: 2, UnitPrice: decimal.RequireFromString("4.50"), LineTotal: decimal.RequireFromString("9.00")},
			{Name: "Espresso", Quantity: 1, UnitPrice: decimal.RequireFromString("3.00"), LineTotal: decimal.RequireFromString("3.00")},
		},
		CreatedAt: time.Date(2025, 4, 12, 9, 30, 0, 0, time.UTC),
	}
}

func TestWorkerHandlesTask(t *testing.T) {
	task, err := NewSaleReceiptTask(sampleSale())
	require.NoError(t, err)
	require.Equal(t, TypeSaleReceipt, task.Type())

	w := Worker{Logger: zerolog.Nop()}
	require.NoError(t, w.HandleSaleReceipt(context.Background(), task))
}

func TestRenderIncludesLinesAndTotals(t *testing.T) {
	sale := sampleSale()
	task, err := NewSaleReceiptTask(sale)
	require.NoError(t, err)

	var payload SalePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))

	out := Render(payload)
	require.True(t, strings.Contains(out, "Cappuccino"))
	require.True(t, strings.Contains(out, "10.80"))
	require.True(t, strings.Contains(out, "-1.20"))
}

func TestNilClientEnqueueIsNoOp(t *testing.T) {
	e := Enqueuer{Logger: zerolog.Nop()}
	require.NoError(t, e.EnqueueSaleReceipt(context.Background(), sampleSale()))
}
