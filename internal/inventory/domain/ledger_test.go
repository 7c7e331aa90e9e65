package domain

import "testing"

func TestCountersRecompute(t *testing.T) {
	c := Counters{Start: 10, StockIn: 5, Used: 3, Wasted: 1}
	c.Recompute()
	if c.Stock != 11 {
		t.Fatalf("expected stock 11, got %v", c.Stock)
	}
}

func TestCountersReset(t *testing.T) {
	c := Counters{Start: 10, StockIn: 5, Used: 3, Wasted: 1}
	c.Recompute()
	c.Reset()

	if c.Start != 11 {
		t.Fatalf("expected new start 11, got %v", c.Start)
	}
	if c.StockIn != 0 || c.Used != 0 || c.Wasted != 0 {
		t.Fatalf("expected movement counters zeroed, got %+v", c)
	}
	if c.Stock != 11 {
		t.Fatalf("expected stock preserved across reset, got %v", c.Stock)
	}
}

func TestCountersResetIsIdempotentOnStock(t *testing.T) {
	c := Counters{Start: 4, StockIn: 2}
	c.Recompute()
	before := c.Stock

	c.Reset()
	c.Reset()
	if c.Stock != before {
		t.Fatalf("stock changed across resets: %v != %v", c.Stock, before)
	}
}
