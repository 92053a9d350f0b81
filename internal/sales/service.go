// Package sales builds daily revenue summaries and CSV exports on top of the
// recorded sales.
package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Hitarth2510/thrive-backend/internal/order"
)

// SaleLister supplies the sales in a time range. The order service
// implements it.
type SaleLister interface {
	SalesBetween(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]order.Sale, error)
}

// DailySummary aggregates one day of trading.
type DailySummary struct {
	Date          string                     `json:"date"`
	OrderCount    int                        `json:"order_count"`
	Revenue       decimal.Decimal            `json:"revenue"`
	DiscountTotal decimal.Decimal            `json:"discount_total"`
	ByPayment     map[string]decimal.Decimal `json:"by_payment"`
}

// Service computes summaries with a short-lived Redis cache in front. A nil
// Redis client (demo mode) disables caching.
type Service struct {
	lister SaleLister
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
	Now    func() time.Time
}

func NewService(lister SaleLister, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{lister: lister, cache: cache, ttl: ttl, logger: logger, Now: time.Now}
}

func summaryKey(orgID uuid.UUID, date string) string {
	return fmt.Sprintf("sales:summary:%s:%s", orgID, date)
}

// Daily computes the summary for a calendar day in the given location. An
// empty date means today.
func (s *Service) Daily(ctx context.Context, orgID uuid.UUID, date string) (DailySummary, error) {
	day, err := s.resolveDay(date)
	if err != nil {
		return DailySummary{}, err
	}
	dateStr := day.Format("2006-01-02")
	key := summaryKey(orgID, dateStr)

	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	from := day
	to := day.AddDate(0, 0, 1)
	salesList, err := s.lister.SalesBetween(ctx, orgID, from, to)
	if err != nil {
		return DailySummary{}, fmt.Errorf("list sales for summary: %w", err)
	}

	summary := DailySummary{
		Date:          dateStr,
		Revenue:       decimal.Zero,
		DiscountTotal: decimal.Zero,
		ByPayment:     make(map[string]decimal.Decimal),
	}
	for _, sale := range salesList {
		summary.OrderCount++
		summary.Revenue = summary.Revenue.Add(sale.Total)
		summary.DiscountTotal = summary.DiscountTotal.Add(sale.Discount)
		current, ok := summary.ByPayment[sale.PaymentMethod]
		if !ok {
			current = decimal.Zero
		}
		summary.ByPayment[sale.PaymentMethod] = current.Add(sale.Total)
	}

	s.toCache(ctx, key, summary)
	return summary, nil
}

// Export returns the raw sales for a date range, for CSV download. Both
// bounds are YYYY-MM-DD; the range is inclusive of both days.
func (s *Service) Export(ctx context.Context, orgID uuid.UUID, fromDate, toDate string) ([]order.Sale, error) {
	from, err := s.resolveDay(fromDate)
	if err != nil {
		return nil, err
	}
	to, err := s.resolveDay(toDate)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, errors.New("sales: export range end before start")
	}
	return s.lister.SalesBetween(ctx, orgID, from, to.AddDate(0, 0, 1))
}

func (s *Service) resolveDay(date string) (time.Time, error) {
	if date == "" {
		now := s.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("sales: invalid date %q: %w", date, err)
	}
	return day, nil
}

func (s *Service) fromCache(ctx context.Context, key string) (DailySummary, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return DailySummary{}, false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("summary cache read failed")
		}
		return DailySummary{}, false
	}
	var summary DailySummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return DailySummary{}, false
	}
	return summary, true
}

func (s *Service) toCache(ctx context.Context, key string, summary DailySummary) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("summary cache write failed")
	}
}
