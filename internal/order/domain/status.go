package domain

import "github.com/obeddx/notarichCafe-sub002/pkg/apperr"

// Status is the closed order lifecycle state. Free-form strings are
// rejected at the boundary; every write goes through the transition table.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPaid       Status = "paid"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// transitions is the allowed adjacency table.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusPaid, StatusCancelled},
	StatusPaid:       {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", apperr.Validation("unknown order status %q", raw)
	}
	return s, nil
}

// CanTransition reports whether s -> to is in the adjacency table.
func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates and returns the new status.
func (s Status) Transition(to Status) (Status, error) {
	if !s.CanTransition(to) {
		return s, apperr.InvalidTransition(string(s), string(to))
	}
	return to, nil
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}
