package domain

import (
	"testing"

	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusCancelled},
		{StatusProcessing, StatusPaid},
		{StatusProcessing, StatusCancelled},
		{StatusPaid, StatusCompleted},
	}
	for _, tc := range allowed {
		got, err := tc.from.Transition(tc.to)
		if err != nil {
			t.Fatalf("%s -> %s should be allowed: %v", tc.from, tc.to, err)
		}
		if got != tc.to {
			t.Fatalf("transition returned %s, want %s", got, tc.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusPaid},
		{StatusPending, StatusCompleted},
		{StatusProcessing, StatusCompleted},
		{StatusPaid, StatusCancelled},
		{StatusPaid, StatusPending},
		{StatusCompleted, StatusPending},
		{StatusCancelled, StatusProcessing},
	}
	for _, tc := range denied {
		if _, err := tc.from.Transition(tc.to); apperr.KindOf(err) != apperr.KindInvalidTransition {
			t.Fatalf("%s -> %s should be an invalid transition, got %v", tc.from, tc.to, err)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() {
		t.Fatalf("completed and cancelled must be terminal")
	}
	if StatusPending.Terminal() || StatusProcessing.Terminal() || StatusPaid.Terminal() {
		t.Fatalf("open statuses must not be terminal")
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("paid"); err != nil {
		t.Fatalf("paid should parse: %v", err)
	}
	if _, err := ParseStatus("shipped"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("unknown status should fail validation, got %v", err)
	}
}

func TestParseOutcome(t *testing.T) {
	for _, raw := range []string{"archived", "discarded"} {
		if _, err := ParseOutcome(raw); err != nil {
			t.Fatalf("%s should parse: %v", raw, err)
		}
	}
	if _, err := ParseOutcome("deleted"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("unknown outcome should fail validation, got %v", err)
	}
}
