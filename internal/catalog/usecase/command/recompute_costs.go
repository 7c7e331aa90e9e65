package command

import (
	"github.com/obeddx/notarichCafe-sub002/internal/catalog/domain"
	"github.com/obeddx/notarichCafe-sub002/internal/catalog/usecase/query"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// RecomputeCostsHandler recomputes and persists harga bakul for the whole
// catalog. Full scan only; café-sized catalogs make an incremental mode
// unnecessary.
type RecomputeCostsHandler struct {
	menus   domain.MenuRepository
	costing *query.ComputeCostHandler
}

// NewRecomputeCostsHandler creates a new recompute handler.
func NewRecomputeCostsHandler(menus domain.MenuRepository, costing *query.ComputeCostHandler) *RecomputeCostsHandler {
	return &RecomputeCostsHandler{menus: menus, costing: costing}
}

// Handle recomputes every active menu's cost and returns the updated set.
func (h *RecomputeCostsHandler) Handle() ([]domain.Menu, error) {
	menus, err := h.menus.FindActive()
	if err != nil {
		return nil, apperr.Persistence("failed to list menus", err)
	}

	for i := range menus {
		cost, err := h.costing.Handle(query.ComputeCostQuery{MenuID: menus[i].ID})
		if err != nil {
			return nil, err
		}

		if err := h.menus.UpdateCost(menus[i].ID, cost); err != nil {
			return nil, apperr.Persistence("failed to persist menu cost", err)
		}
		menus[i].HargaBakul = cost
	}

	logger.Logger.Info().
		Int("menus", len(menus)).
		Msg("Recomputed catalog costs")

	return menus, nil
}
