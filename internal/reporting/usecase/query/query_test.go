package query

import (
	"math"
	"testing"
	"time"

	orderdomain "github.com/obeddx/notarichCafe-sub002/internal/order/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

type staticHistory struct {
	orders []orderdomain.CompletedOrder
}

func (s *staticHistory) CompletedOrdersBetween(start, end time.Time) ([]orderdomain.CompletedOrder, error) {
	var out []orderdomain.CompletedOrder
	for _, o := range s.orders {
		if !o.CompletedAt.Before(start) && o.CompletedAt.Before(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func day(d int) time.Time {
	return time.Date(2026, time.August, d, 12, 0, 0, 0, time.UTC)
}

func sampleHistory() *staticHistory {
	return &staticHistory{orders: []orderdomain.CompletedOrder{
		{
			OrderID: 1, Total: 68000, PaymentMethod: "qris", CompletedAt: day(1),
			Items: []orderdomain.CompletedOrderItem{
				{MenuID: 10, MenuName: "Kopi Susu", CategoryName: "Coffee", Price: 25000, Quantity: 2},
				{MenuID: 20, MenuName: "Croissant", CategoryName: "Pastry", Price: 18000, Quantity: 1},
			},
		},
		{
			OrderID: 2, Total: 50000, PaymentMethod: "cash", CompletedAt: day(1),
			Items: []orderdomain.CompletedOrderItem{
				{MenuID: 10, MenuName: "Kopi Susu", CategoryName: "Coffee", Price: 25000, Quantity: 2},
			},
		},
		{
			OrderID: 3, Total: 25000, PaymentMethod: "qris", CompletedAt: day(2),
			Items: []orderdomain.CompletedOrderItem{
				{MenuID: 10, MenuName: "Kopi Susu", CategoryName: "Coffee", Price: 25000, Quantity: 1},
			},
		},
	}}
}

func rowByKey(rows []RevenueRow, key string) *RevenueRow {
	for i := range rows {
		if rows[i].Key == key {
			return &rows[i]
		}
	}
	return nil
}

func TestRevenueGroupedByPayment(t *testing.T) {
	handler := NewRevenueHandler(sampleHistory())
	rows, err := handler.Handle(RevenueQuery{GroupBy: GroupByPayment, Start: day(1), End: day(3)})
	if err != nil {
		t.Fatalf("revenue query failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 payment buckets, got %d", len(rows))
	}

	qris := rowByKey(rows, "qris")
	if qris == nil || qris.Orders != 2 || qris.Revenue != 93000 {
		t.Fatalf("unexpected qris bucket: %+v", qris)
	}
	cash := rowByKey(rows, "cash")
	if cash == nil || cash.Orders != 1 || cash.Revenue != 50000 {
		t.Fatalf("unexpected cash bucket: %+v", cash)
	}
}

func TestRevenueGroupedByDay(t *testing.T) {
	handler := NewRevenueHandler(sampleHistory())
	rows, err := handler.Handle(RevenueQuery{GroupBy: GroupByDay, Start: day(1), End: day(3)})
	if err != nil {
		t.Fatalf("revenue query failed: %v", err)
	}

	first := rowByKey(rows, "2026-08-01")
	if first == nil || first.Orders != 2 || first.Revenue != 118000 {
		t.Fatalf("unexpected day bucket: %+v", first)
	}
	second := rowByKey(rows, "2026-08-02")
	if second == nil || second.Orders != 1 || second.Revenue != 25000 {
		t.Fatalf("unexpected day bucket: %+v", second)
	}
}

func TestRevenueGroupedByCategoryCountsOrdersOnce(t *testing.T) {
	handler := NewRevenueHandler(sampleHistory())
	rows, err := handler.Handle(RevenueQuery{GroupBy: GroupByCategory, Start: day(1), End: day(3)})
	if err != nil {
		t.Fatalf("revenue query failed: %v", err)
	}

	coffee := rowByKey(rows, "Coffee")
	if coffee == nil {
		t.Fatalf("missing Coffee bucket")
	}
	// 2x25000 + 2x25000 + 1x25000, counted once per order.
	if coffee.Orders != 3 || math.Abs(coffee.Revenue-125000) > 1e-9 {
		t.Fatalf("unexpected Coffee bucket: %+v", coffee)
	}
	pastry := rowByKey(rows, "Pastry")
	if pastry == nil || pastry.Orders != 1 || pastry.Revenue != 18000 {
		t.Fatalf("unexpected Pastry bucket: %+v", pastry)
	}
}

func TestRevenueWindowExcludesOutside(t *testing.T) {
	handler := NewRevenueHandler(sampleHistory())
	rows, err := handler.Handle(RevenueQuery{GroupBy: GroupByPayment, Start: day(2), End: day(3)})
	if err != nil {
		t.Fatalf("revenue query failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Key != "qris" || rows[0].Revenue != 25000 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestRevenueRejectsInvertedWindow(t *testing.T) {
	handler := NewRevenueHandler(sampleHistory())
	if _, err := handler.Handle(RevenueQuery{GroupBy: GroupByDay, Start: day(3), End: day(1)}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseGroupBy(t *testing.T) {
	for _, raw := range []string{"category", "payment", "day"} {
		if _, err := ParseGroupBy(raw); err != nil {
			t.Fatalf("%s rejected: %v", raw, err)
		}
	}
	if _, err := ParseGroupBy("hour"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTopSellersRanking(t *testing.T) {
	handler := NewTopSellersHandler(sampleHistory())
	rows, err := handler.Handle(TopSellersQuery{Start: day(1), End: day(3)})
	if err != nil {
		t.Fatalf("top sellers query failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].MenuID != 10 || rows[0].Quantity != 5 || rows[0].Revenue != 125000 {
		t.Fatalf("unexpected top row: %+v", rows[0])
	}
	if rows[1].MenuID != 20 || rows[1].Quantity != 1 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestTopSellersLimit(t *testing.T) {
	handler := NewTopSellersHandler(sampleHistory())
	rows, err := handler.Handle(TopSellersQuery{Start: day(1), End: day(3), Limit: 1})
	if err != nil {
		t.Fatalf("top sellers query failed: %v", err)
	}
	if len(rows) != 1 || rows[0].MenuID != 10 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
