package query

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// TopSellersQuery ranks menu items by archived sales volume.
type TopSellersQuery struct {
	Start time.Time
	End   time.Time
	Limit int
}

// TopSellerRow is one ranked menu item.
type TopSellerRow struct {
	MenuID   uint    `json:"menu_id"`
	MenuName string  `json:"menu_name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// TopSellersHandler handles the top sellers query.
type TopSellersHandler struct {
	source HistorySource
}

// NewTopSellersHandler creates a new top sellers handler.
func NewTopSellersHandler(source HistorySource) *TopSellersHandler {
	return &TopSellersHandler{source: source}
}

// Handle executes the top sellers query.
func (h *TopSellersHandler) Handle(q TopSellersQuery) ([]TopSellerRow, error) {
	if q.End.Before(q.Start) {
		return nil, apperr.Validation("end must not be before start")
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	orders, err := h.source.CompletedOrdersBetween(q.Start, q.End)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		name     string
		quantity int
		revenue  decimal.Decimal
	}
	buckets := make(map[uint]*bucket)

	for i := range orders {
		for _, item := range orders[i].Items {
			b, ok := buckets[item.MenuID]
			if !ok {
				b = &bucket{name: item.MenuName}
				buckets[item.MenuID] = b
			}
			b.quantity += item.Quantity
			line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
			b.revenue = b.revenue.Add(line)
		}
	}

	rows := make([]TopSellerRow, 0, len(buckets))
	for menuID, b := range buckets {
		revenue, _ := b.revenue.Float64()
		rows = append(rows, TopSellerRow{
			MenuID:   menuID,
			MenuName: b.name,
			Quantity: b.quantity,
			Revenue:  revenue,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Quantity != rows[j].Quantity {
			return rows[i].Quantity > rows[j].Quantity
		}
		return rows[i].MenuName < rows[j].MenuName
	})

	if len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows, nil
}
