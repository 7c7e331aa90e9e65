package cache

import (
	"context"
	"strings"
	"testing"
)

func TestKeyIsDeterministicAndParamSensitive(t *testing.T) {
	a := Key("revenue", "day", "2026-08-01", "2026-08-02")
	b := Key("revenue", "day", "2026-08-01", "2026-08-02")
	if a != b {
		t.Fatalf("same inputs produced different keys: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "report:revenue:") {
		t.Fatalf("unexpected key shape %q", a)
	}

	c := Key("revenue", "day", "2026-08-01", "2026-08-03")
	if a == c {
		t.Fatalf("different params produced the same key")
	}
	// Parameter boundaries matter: "ab"+"c" is not "a"+"bc".
	if Key("revenue", "ab", "c") == Key("revenue", "a", "bc") {
		t.Fatalf("param boundaries not separated in key")
	}
}

func TestNilClientDisablesCaching(t *testing.T) {
	cache := NewReportCache(nil, 0)
	ctx := context.Background()

	var dst []string
	if cache.Get(ctx, Key("revenue", "day"), &dst) {
		t.Fatalf("nil client must always miss")
	}

	// Set must be a no-op, not a panic.
	cache.Set(ctx, Key("revenue", "day"), []string{"row"})
}
