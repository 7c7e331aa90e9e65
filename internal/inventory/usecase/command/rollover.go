package command

import (
	"time"

	"github.com/obeddx/notarichCafe-sub002/internal/inventory/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// RolloverCommand archives both ledgers as of the given operational day.
// Scheduling idempotence belongs to the caller: running it twice for the
// same day double-archives history.
type RolloverCommand struct {
	AsOf time.Time
}

// RolloverResult reports how the best-effort batch went.
type RolloverResult struct {
	AsOf              time.Time `json:"as_of"`
	IngredientsRolled int       `json:"ingredients_rolled"`
	GudangRolled      int       `json:"gudang_rolled"`
	FailedIngredients []uint    `json:"failed_ingredients,omitempty"`
	FailedGudang      []uint    `json:"failed_gudang,omitempty"`
}

// RolloverHandler handles the daily rollover command.
type RolloverHandler struct {
	repo domain.LedgerRepository
}

// NewRolloverHandler creates a new rollover handler.
func NewRolloverHandler(repo domain.LedgerRepository) *RolloverHandler {
	return &RolloverHandler{repo: repo}
}

// Handle rolls every active entity of both ledgers into dated history and
// resets the live counters. Each entity is archived in its own transaction;
// the loop itself is deliberately not transactional — a mid-loop failure
// leaves earlier entities rolled and later ones untouched.
func (h *RolloverHandler) Handle(cmd RolloverCommand) (*RolloverResult, error) {
	if cmd.AsOf.IsZero() {
		return nil, apperr.Validation("as_of date is required")
	}
	asOf := cmd.AsOf.Truncate(24 * time.Hour)

	result := &RolloverResult{AsOf: asOf}

	ingredients, err := h.repo.FindActiveIngredients()
	if err != nil {
		return nil, apperr.Persistence("failed to list ingredients for rollover", err)
	}
	for i := range ingredients {
		if err := h.repo.ArchiveIngredient(&ingredients[i], asOf); err != nil {
			logger.Logger.Error().
				Err(err).
				Uint("ingredient_id", ingredients[i].ID).
				Msg("Rollover failed for ingredient, continuing")
			result.FailedIngredients = append(result.FailedIngredients, ingredients[i].ID)
			continue
		}
		result.IngredientsRolled++
	}

	entries, err := h.repo.FindActiveGudang()
	if err != nil {
		return nil, apperr.Persistence("failed to list gudang entries for rollover", err)
	}
	for i := range entries {
		if err := h.repo.ArchiveGudang(&entries[i], asOf); err != nil {
			logger.Logger.Error().
				Err(err).
				Uint("gudang_id", entries[i].ID).
				Msg("Rollover failed for gudang entry, continuing")
			result.FailedGudang = append(result.FailedGudang, entries[i].ID)
			continue
		}
		result.GudangRolled++
	}

	logger.Logger.Info().
		Time("as_of", asOf).
		Int("ingredients", result.IngredientsRolled).
		Int("gudang", result.GudangRolled).
		Int("failed", len(result.FailedIngredients)+len(result.FailedGudang)).
		Msg("Daily stock rollover finished")

	return result, nil
}
