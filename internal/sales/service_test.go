package sales

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Hitarth2510/thrive-backend/internal/order"
)

type stubLister struct {
	sales []order.Sale
	calls int
}

func (s *stubLister) SalesBetween(_ context.Context, _ uuid.UUID, from, to time.Time) ([]order.Sale, error) {
	s.calls++
	var out []order.Sale
	for _, sale := range s.sales {
		if !sale.CreatedAt.Before(from) && sale.CreatedAt.Before(to) {
			out = append(out, sale)
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func saleAt(t time.Time, total, discount, method string) order.Sale {
	return order.Sale{
		ID:            uuid.New(),
		CustomerName:  "Walk-in",
		PaymentMethod: method,
		Subtotal:      dec(total).Add(dec(discount)),
		Discount:      dec(discount),
		Total:         dec(total),
		CreatedAt:     t,
	}
}

func TestDailyAggregates(t *testing.T) {
	day := time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)
	lister := &stubLister{sales: []order.Sale{
		saleAt(day.Add(9*time.Hour), "10.80", "1.20", order.PaymentCard),
		saleAt(day.Add(12*time.Hour), "3.50", "0", order.PaymentCash),
		saleAt(day.Add(15*time.Hour), "5.20", "0.52", order.PaymentCash),
		saleAt(day.AddDate(0, 0, 1), "99.99", "0", order.PaymentCard), // next day, excluded
	}}
	svc := NewService(lister, nil, 0, zerolog.Nop())

	summary, err := svc.Daily(context.Background(), uuid.New(), "2025-04-12")
	require.NoError(t, err)
	require.Equal(t, 3, summary.OrderCount)
	require.True(t, summary.Revenue.Equal(dec("19.50")), "revenue = %s", summary.Revenue)
	require.True(t, summary.DiscountTotal.Equal(dec("1.72")), "discount = %s", summary.DiscountTotal)
	require.True(t, summary.ByPayment[order.PaymentCash].Equal(dec("8.70")))
	require.True(t, summary.ByPayment[order.PaymentCard].Equal(dec("10.80")))
}

func TestDailyDefaultsToToday(t *testing.T) {
	now := time.Date(2025, 4, 12, 14, 30, 0, 0, time.UTC)
	lister := &stubLister{sales: []order.Sale{
		saleAt(now.Add(-time.Hour), "4.50", "0", order.PaymentCash),
	}}
	svc := NewService(lister, nil, 0, zerolog.Nop())
	svc.Now = func() time.Time { return now }

	summary, err := svc.Daily(context.Background(), uuid.New(), "")
	require.NoError(t, err)
	require.Equal(t, "2025-04-12", summary.Date)
	require.Equal(t, 1, summary.OrderCount)
}

func TestDailyUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	day := time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)
	lister := &stubLister{sales: []order.Sale{
		saleAt(day.Add(9*time.Hour), "10.00", "0", order.PaymentCash),
	}}
	svc := NewService(lister, client, time.Minute, zerolog.Nop())
	orgID := uuid.New()

	first, err := svc.Daily(context.Background(), orgID, "2025-04-12")
	require.NoError(t, err)
	second, err := svc.Daily(context.Background(), orgID, "2025-04-12")
	require.NoError(t, err)
	require.Equal(t, 1, lister.calls)
	require.Equal(t, first.OrderCount, second.OrderCount)
	require.True(t, first.Revenue.Equal(second.Revenue))
}

func TestDailyRejectsBadDate(t *testing.T) {
	svc := NewService(&stubLister{}, nil, 0, zerolog.Nop())
	_, err := svc.Daily(context.Background(), uuid.New(), "12-04-2025")
	require.Error(t, err)
}

func TestExportRangeInclusive(t *testing.T) {
	day := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	lister := &stubLister{sales: []order.Sale{
		saleAt(day.Add(10*time.Hour), "5.00", "0", order.PaymentCash),
		saleAt(day.AddDate(0, 0, 2).Add(10*time.Hour), "6.00", "0", order.PaymentCard),
		saleAt(day.AddDate(0, 0, 5), "7.00", "0", order.PaymentCash),
	}}
	svc := NewService(lister, nil, 0, zerolog.Nop())

	out, err := svc.Export(context.Background(), uuid.New(), "2025-04-10", "2025-04-12")
	require.NoError(t, err)
	require.Len(t, out, 2)

	_, err = svc.Export(context.Background(), uuid.New(), "2025-04-12", "2025-04-10")
	require.Error(t, err)
}
