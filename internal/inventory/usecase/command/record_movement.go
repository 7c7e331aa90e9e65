package command

import (
	"math"

	"github.com/obeddx/notarichCafe-sub002/internal/inventory/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// MovementDelta holds the optional counter deltas of one stock movement.
// A nil field means that counter is untouched.
type MovementDelta struct {
	StockIn *float64
	Used    *float64
	Wasted  *float64
}

// RecordMovementCommand applies deltas to one entity of one ledger.
type RecordMovementCommand struct {
	Ledger   domain.LedgerKind
	EntityID uint
	Delta    MovementDelta
}

// RecordMovementHandler handles the record movement command.
type RecordMovementHandler struct {
	repo domain.LedgerRepository
}

// NewRecordMovementHandler creates a new record movement handler.
func NewRecordMovementHandler(repo domain.LedgerRepository) *RecordMovementHandler {
	return &RecordMovementHandler{repo: repo}
}

// Handle applies the movement and recomputes derived stock. The returned
// counters reflect the post-movement ledger state.
func (h *RecordMovementHandler) Handle(cmd RecordMovementCommand) (*domain.Counters, error) {
	if cmd.EntityID == 0 {
		return nil, apperr.Validation("entity id is required")
	}
	if err := validateDelta(cmd.Delta); err != nil {
		return nil, err
	}

	switch cmd.Ledger {
	case domain.LedgerIngredient:
		ingredient, err := h.repo.FindIngredient(cmd.EntityID)
		if err != nil {
			return nil, err
		}
		applyDelta(&ingredient.Counters, cmd.Delta)
		if err := h.repo.SaveIngredient(ingredient); err != nil {
			return nil, apperr.Persistence("failed to save ingredient ledger", err)
		}
		return &ingredient.Counters, nil

	case domain.LedgerGudang:
		gudang, err := h.repo.FindGudang(cmd.EntityID)
		if err != nil {
			return nil, err
		}
		applyDelta(&gudang.Counters, cmd.Delta)
		if err := h.repo.SaveGudang(gudang); err != nil {
			return nil, apperr.Persistence("failed to save gudang ledger", err)
		}
		return &gudang.Counters, nil

	default:
		return nil, apperr.Validation("unknown ledger %q", cmd.Ledger)
	}
}

func validateDelta(delta MovementDelta) error {
	for name, v := range map[string]*float64{
		"stock_in": delta.StockIn,
		"used":     delta.Used,
		"wasted":   delta.Wasted,
	} {
		if v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return apperr.Validation("%s must be a number", name)
		}
		if *v < 0 {
			return apperr.Validation("%s must not be negative", name)
		}
	}
	return nil
}

func applyDelta(c *domain.Counters, delta MovementDelta) {
	if delta.StockIn != nil {
		c.StockIn += *delta.StockIn
	}
	if delta.Used != nil {
		c.Used += *delta.Used
	}
	if delta.Wasted != nil {
		c.Wasted += *delta.Wasted
	}
	c.Recompute()
}
