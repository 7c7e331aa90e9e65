package query

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/obeddx/notarichCafe-sub002/internal/catalog/domain"
	invdomain "github.com/obeddx/notarichCafe-sub002/internal/inventory/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// IngredientSource is the slice of the inventory store the cost engine
// needs: ingredient records, their active price and the semi-finished
// composition graph.
type IngredientSource interface {
	Ingredient(id uint) (*invdomain.Ingredient, error)
	ActivePrice(ingredientID uint) (*invdomain.IngredientPrice, error)
	SemiComposition(ingredientID uint) ([]invdomain.IngredientComposition, error)
}

// ComputeCostQuery computes one menu's ingredient cost (harga bakul).
type ComputeCostQuery struct {
	MenuID uint
}

// ComputeCostHandler walks the menu's composition graph and prices it.
type ComputeCostHandler struct {
	menus       domain.MenuRepository
	ingredients IngredientSource
}

// NewComputeCostHandler creates a new cost computation handler.
func NewComputeCostHandler(menus domain.MenuRepository, ingredients IngredientSource) *ComputeCostHandler {
	return &ComputeCostHandler{menus: menus, ingredients: ingredients}
}

// Handle executes the cost computation. Each composition line contributes
// amount × (active price / parsed unit value); lines without an active
// price contribute zero. Semi-finished ingredients are resolved recursively
// through their raw composition; cycles fail with a composition cycle error
// instead of recursing forever.
func (h *ComputeCostHandler) Handle(q ComputeCostQuery) (float64, error) {
	if q.MenuID == 0 {
		return 0, apperr.Validation("menu id is required")
	}

	lines, err := h.menus.Composition(q.MenuID)
	if err != nil {
		return 0, apperr.Persistence("failed to load menu composition", err)
	}

	total := decimal.Zero
	visited := make(map[uint]bool)

	for _, line := range lines {
		unitCost, err := h.unitCost(line.IngredientID, visited)
		if err != nil {
			return 0, err
		}
		total = total.Add(decimal.NewFromFloat(line.Amount).Mul(unitCost))
	}

	cost, _ := total.Float64()
	return cost, nil
}

// unitCost resolves the cost of one base unit of an ingredient. visited
// tracks the current recursion path.
func (h *ComputeCostHandler) unitCost(ingredientID uint, visited map[uint]bool) (decimal.Decimal, error) {
	if visited[ingredientID] {
		return decimal.Zero, apperr.CompositionCycle(ingredientID)
	}
	visited[ingredientID] = true
	defer delete(visited, ingredientID)

	ingredient, err := h.ingredients.Ingredient(ingredientID)
	if err != nil {
		return decimal.Zero, err
	}

	if ingredient.Type == invdomain.IngredientSemiFinished {
		lines, err := h.ingredients.SemiComposition(ingredientID)
		if err != nil {
			return decimal.Zero, apperr.Persistence("failed to load semi-finished composition", err)
		}

		cost := decimal.Zero
		for _, line := range lines {
			childCost, err := h.unitCost(line.RawIngredientID, visited)
			if err != nil {
				return decimal.Zero, err
			}
			cost = cost.Add(decimal.NewFromFloat(line.Amount).Mul(childCost))
		}
		return cost, nil
	}

	price, err := h.ingredients.ActivePrice(ingredientID)
	if err != nil {
		return decimal.Zero, err
	}
	if price == nil {
		// No active price record: the line contributes zero cost. Accepted
		// degenerate case, not corrected here.
		return decimal.Zero, nil
	}

	unitValue := parseUnitValue(price.Unit)
	if unitValue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}

	return decimal.NewFromFloat(price.Price).Div(unitValue), nil
}

// parseUnitValue extracts the leading numeric token of a price unit string,
// e.g. "100" or "100 gram" -> 100. Returns zero when no token parses.
func parseUnitValue(unit string) decimal.Decimal {
	s := strings.TrimSpace(unit)
	end := 0
	for end < len(s) {
		c := rune(s[end])
		if !unicode.IsDigit(c) && c != '.' {
			break
		}
		end++
	}
	if end == 0 {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(s[:end])
	if err != nil {
		return decimal.Zero
	}
	return value
}
