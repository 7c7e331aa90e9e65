package query

import (
	"github.com/obeddx/notarichCafe-sub002/internal/inventory/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// Threshold operators accepted by ListByStockQuery.
const (
	OperatorLessThan    = "lt"
	OperatorGreaterThan = "gt"
)

// ListByStockQuery filters active ingredients by their derived stock.
type ListByStockQuery struct {
	Operator  string
	Threshold float64
}

// ListByStockHandler handles the stock threshold query.
type ListByStockHandler struct {
	repo domain.LedgerRepository
}

// NewListByStockHandler creates a new threshold query handler.
func NewListByStockHandler(repo domain.LedgerRepository) *ListByStockHandler {
	return &ListByStockHandler{repo: repo}
}

// Handle executes the threshold query.
func (h *ListByStockHandler) Handle(q ListByStockQuery) ([]domain.Ingredient, error) {
	if q.Operator != OperatorLessThan && q.Operator != OperatorGreaterThan {
		return nil, apperr.Validation("operator must be %q or %q", OperatorLessThan, OperatorGreaterThan)
	}

	ingredients, err := h.repo.FindActiveIngredients()
	if err != nil {
		return nil, apperr.Persistence("failed to list ingredients", err)
	}

	matched := make([]domain.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		switch q.Operator {
		case OperatorLessThan:
			if ing.Stock < q.Threshold {
				matched = append(matched, ing)
			}
		case OperatorGreaterThan:
			if ing.Stock > q.Threshold {
				matched = append(matched, ing)
			}
		}
	}

	return matched, nil
}

// LowStockHandler counts active ingredients below their own minimum,
// feeding the low-stock gauge and the back-office warning badge.
type LowStockHandler struct {
	repo domain.LedgerRepository
}

// NewLowStockHandler creates a new low stock handler.
func NewLowStockHandler(repo domain.LedgerRepository) *LowStockHandler {
	return &LowStockHandler{repo: repo}
}

// Handle returns the number of ingredients under their stock minimum.
func (h *LowStockHandler) Handle() (int64, error) {
	count, err := h.repo.CountIngredientsBelowMin()
	if err != nil {
		return 0, apperr.Persistence("failed to count low stock ingredients", err)
	}
	return count, nil
}
