package query

import (
	"time"

	"github.com/shopspring/decimal"

	orderdomain "github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// HistorySource reads archived orders for aggregation.
type HistorySource interface {
	CompletedOrdersBetween(start, end time.Time) ([]orderdomain.CompletedOrder, error)
}

// GroupBy selects the revenue grouping dimension.
type GroupBy string

const (
	GroupByCategory GroupBy = "category"
	GroupByPayment  GroupBy = "payment"
	GroupByDay      GroupBy = "day"
)

// ParseGroupBy validates a raw grouping string.
func ParseGroupBy(raw string) (GroupBy, error) {
	switch g := GroupBy(raw); g {
	case GroupByCategory, GroupByPayment, GroupByDay:
		return g, nil
	default:
		return "", apperr.Validation("group_by must be category, payment or day")
	}
}

// RevenueQuery aggregates archived revenue over a window.
type RevenueQuery struct {
	GroupBy GroupBy
	Start   time.Time
	End     time.Time
}

// RevenueRow is one aggregated bucket.
type RevenueRow struct {
	Key     string  `json:"key"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// RevenueHandler handles the revenue query.
type RevenueHandler struct {
	source HistorySource
}

// NewRevenueHandler creates a new revenue handler.
func NewRevenueHandler(source HistorySource) *RevenueHandler {
	return &RevenueHandler{source: source}
}

// Handle executes the revenue query. Sums run on decimals so long windows
// do not accumulate float drift.
func (h *RevenueHandler) Handle(q RevenueQuery) ([]RevenueRow, error) {
	if q.End.Before(q.Start) {
		return nil, apperr.Validation("end must not be before start")
	}

	orders, err := h.source.CompletedOrdersBetween(q.Start, q.End)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	var keys []string

	add := func(key string, amount decimal.Decimal, countOrder bool) {
		if _, seen := sums[key]; !seen {
			keys = append(keys, key)
		}
		sums[key] = sums[key].Add(amount)
		if countOrder {
			counts[key]++
		}
	}

	for i := range orders {
		order := &orders[i]
		switch q.GroupBy {
		case GroupByPayment:
			key := order.PaymentMethod
			if key == "" {
				key = "unknown"
			}
			add(key, decimal.NewFromFloat(order.Total), true)
		case GroupByDay:
			add(order.CompletedAt.Format("2006-01-02"), decimal.NewFromFloat(order.Total), true)
		case GroupByCategory:
			// Category lives on the item, so revenue is summed per line.
			counted := make(map[string]bool)
			for _, item := range order.Items {
				key := item.CategoryName
				if key == "" {
					key = "uncategorized"
				}
				line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
				add(key, line, !counted[key])
				counted[key] = true
			}
		}
	}

	rows := make([]RevenueRow, 0, len(keys))
	for _, key := range keys {
		revenue, _ := sums[key].Float64()
		rows = append(rows, RevenueRow{Key: key, Orders: counts[key], Revenue: revenue})
	}
	return rows, nil
}
