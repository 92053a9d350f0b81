// Package receipt renders customer receipts in the background. Checkout
// enqueues a task; the worker process formats and dispatches it.
package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Hitarth2510/thrive-backend/internal/order"
)

// TypeSaleReceipt is the asynq task type for sale receipts.
const TypeSaleReceipt = "receipt:sale"

// SalePayload is the task body. It carries everything the worker needs so it
// never has to query the database.
type SalePayload struct {
	SaleID        uuid.UUID       `json:"sale_id"`
	OrgID         uuid.UUID       `json:"org_id"`
	CustomerName  string          `json:"customer_name"`
	PaymentMethod string          `json:"payment_method"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Lines         []Line          `json:"lines"`
	SoldAt        time.Time       `json:"sold_at"`
}

// Line is one receipt row.
type Line struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// NewSaleReceiptTask builds the asynq task for a completed sale.
func NewSaleReceiptTask(sale order.Sale) (*asynq.Task, error) {
	lines := make([]Line, 0, len(sale.Items))
	for _, it := range sale.Items {
		lines = append(lines, Line{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	payload, err := json.Marshal(SalePayload{
		SaleID:        sale.ID,
		OrgID:         sale.OrgID,
		CustomerName:  sale.CustomerName,
		PaymentMethod: sale.PaymentMethod,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Total:         sale.Total,
		Lines:         lines,
		SoldAt:        sale.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("receipt: marshal payload: %w", err)
	}
	return asynq.NewTask(TypeSaleReceipt, payload, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// Enqueuer submits receipt tasks. A nil client (demo mode without Redis)
// makes every enqueue a no-op.
type Enqueuer struct {
	Client *asynq.Client
	Logger zerolog.Logger
}

// EnqueueSaleReceipt queues a receipt for the sale.
func (e Enqueuer) EnqueueSaleReceipt(ctx context.Context, sale order.Sale) error {
	if e.Client == nil {
		e.Logger.Debug().Str("sale_id", sale.ID.String()).Msg("receipt queue disabled, skipping")
		return nil
	}
	task, err := NewSaleReceiptTask(sale)
	if err != nil {
		return err
	}
	info, err := e.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("receipt: enqueue: %w", err)
	}
	e.Logger.Debug().Str("task_id", info.ID).Str("sale_id", sale.ID.String()).Msg("receipt queued")
	return nil
}

// Worker processes receipt tasks.
type Worker struct {
	Logger zerolog.Logger
}

// HandleSaleReceipt renders the receipt. Delivery integrations (printer,
// SMS) hang off this handler.
func (w Worker) HandleSaleReceipt(_ context.Context, task *asynq.Task) error {
	var payload SalePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("receipt: unmarshal payload: %w", err)
	}
	w.Logger.Info().
		Str("sale_id", payload.SaleID.String()).
		Str("org_id", payload.OrgID.String()).
		Str("total", payload.Total.String()).
		Msg("rendering receipt")
	_ = Render(payload)
	return nil
}

// Render formats a plain-text receipt.
func Render(p SalePayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Receipt %s\n", p.SaleID)
	fmt.Fprintf(&b, "Customer: %s\n", p.CustomerName)
	fmt.Fprintf(&b, "Paid by: %s at %s\n", p.PaymentMethod, p.SoldAt.Format("2006-01-02 15:04"))
	b.WriteString(strings.Repeat("-", 32) + "\n")
	for _, line := range p.Lines {
		fmt.Fprintf(&b, "%dx %-20s %8s\n", line.Quantity, line.Name, line.LineTotal.StringFixed(2))
	}
	b.WriteString(strings.Repeat("-", 32) + "\n")
	fmt.Fprintf(&b, "Subtotal %23s\n", p.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Discount %23s\n", p.Discount.Neg().StringFixed(2))
	fmt.Fprintf(&b, "Total %26s\n", p.Total.StringFixed(2))
	return b.String()
}
