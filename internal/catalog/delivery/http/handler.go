package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/obeddx/notarichCafe-sub002/internal/catalog/domain"
	"github.com/obeddx/notarichCafe-sub002/internal/catalog/usecase/command"
	"github.com/obeddx/notarichCafe-sub002/internal/catalog/usecase/query"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// CatalogHandler handles HTTP requests for the menu catalog.
type CatalogHandler struct {
	recomputeHandler *command.RecomputeCostsHandler
	costHandler      *query.ComputeCostHandler

	menus      domain.MenuRepository
	references domain.ReferenceRepository
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(
	menus domain.MenuRepository,
	references domain.ReferenceRepository,
	ingredients query.IngredientSource,
) *CatalogHandler {
	costHandler := query.NewComputeCostHandler(menus, ingredients)
	return &CatalogHandler{
		recomputeHandler: command.NewRecomputeCostsHandler(menus, costHandler),
		costHandler:      costHandler,
		menus:            menus,
		references:       references,
	}
}

// CreateMenu handles POST /api/menu
func (h *CatalogHandler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string  `json:"name"`
		CategoryID *uint   `json:"category_id"`
		Price      float64 `json:"price"`
		Ingredients []struct {
			IngredientID uint    `json:"ingredient_id"`
			Amount       float64 `json:"amount"`
		} `json:"ingredients"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, apperr.Validation("name is required"))
		return
	}
	if req.Price <= 0 {
		respondError(w, apperr.Validation("price must be positive"))
		return
	}

	menu := &domain.Menu{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Price:      req.Price,
		IsActive:   true,
	}
	for _, line := range req.Ingredients {
		menu.Ingredients = append(menu.Ingredients, domain.MenuIngredient{
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}

	if err := h.menus.Create(menu); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create menu")
		respondError(w, apperr.Persistence("failed to create menu", err))
		return
	}

	// Price the recipe right away so harga bakul is never stale on a new menu.
	if cost, err := h.costHandler.Handle(query.ComputeCostQuery{MenuID: menu.ID}); err == nil {
		if err := h.menus.UpdateCost(menu.ID, cost); err == nil {
			menu.HargaBakul = cost
		}
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Menu created successfully",
		Data:    menu,
	})
}

// GetMenu handles GET /api/menu/{id}
func (h *CatalogHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	menu, err := h.menus.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: menu})
}

// ListMenus handles GET /api/menu
func (h *CatalogHandler) ListMenus(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}

	menus, err := h.menus.FindAll(limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list menus")
		respondError(w, apperr.Persistence("failed to list menus", err))
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: menus})
}

// UpdateMenu handles PUT /api/menu/{id}
func (h *CatalogHandler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	menu, err := h.menus.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		Name       *string  `json:"name"`
		CategoryID *uint    `json:"category_id"`
		Price      *float64 `json:"price"`
		IsActive   *bool    `json:"is_active"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.CategoryID != nil {
		menu.CategoryID = req.CategoryID
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			respondError(w, apperr.Validation("price must be positive"))
			return
		}
		menu.Price = *req.Price
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}

	if err := h.menus.Update(menu); err != nil {
		respondError(w, apperr.Persistence("failed to update menu", err))
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Menu updated successfully",
		Data:    menu,
	})
}

// ReplaceComposition handles PUT /api/menu/{id}/ingredients
func (h *CatalogHandler) ReplaceComposition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if _, err := h.menus.FindByID(id); err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		Ingredients []struct {
			IngredientID uint    `json:"ingredient_id"`
			Amount       float64 `json:"amount"`
		} `json:"ingredients"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	lines := make([]domain.MenuIngredient, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		if line.IngredientID == 0 || line.Amount <= 0 {
			respondError(w, apperr.Validation("each line needs ingredient_id and a positive amount"))
			return
		}
		lines = append(lines, domain.MenuIngredient{
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		})
	}

	if err := h.menus.ReplaceComposition(id, lines); err != nil {
		respondError(w, apperr.Persistence("failed to replace composition", err))
		return
	}

	cost, err := h.costHandler.Handle(query.ComputeCostQuery{MenuID: id})
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.menus.UpdateCost(id, cost); err != nil {
		respondError(w, apperr.Persistence("failed to persist menu cost", err))
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Composition updated",
		Data:    map[string]interface{}{"harga_bakul": cost},
	})
}

// MenuCost handles GET /api/menu/{id}/cost
func (h *CatalogHandler) MenuCost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	cost, err := h.costHandler.Handle(query.ComputeCostQuery{MenuID: id})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]interface{}{"menu_id": id, "harga_bakul": cost},
	})
}

// RecomputeCosts handles POST /api/menu/recompute-costs
func (h *CatalogHandler) RecomputeCosts(w http.ResponseWriter, r *http.Request) {
	menus, err := h.recomputeHandler.Handle()
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Catalog costs recomputed",
		Data:    menus,
	})
}

// DeactivateMenu handles DELETE /api/menu/{id}
func (h *CatalogHandler) DeactivateMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.menus.Deactivate(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Menu deactivated"})
}

// RegisterRoutes registers all catalog routes.
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/menu", h.ListMenus).Methods("GET")
	router.HandleFunc("/api/menu", h.CreateMenu).Methods("POST")
	router.HandleFunc("/api/menu/recompute-costs", h.RecomputeCosts).Methods("POST")
	router.HandleFunc("/api/menu/{id}", h.GetMenu).Methods("GET")
	router.HandleFunc("/api/menu/{id}", h.UpdateMenu).Methods("PUT")
	router.HandleFunc("/api/menu/{id}", h.DeactivateMenu).Methods("DELETE")
	router.HandleFunc("/api/menu/{id}/ingredients", h.ReplaceComposition).Methods("PUT")
	router.HandleFunc("/api/menu/{id}/cost", h.MenuCost).Methods("GET")

	h.registerReferenceRoutes(router)
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid %s", name)
	}
	return uint(id), nil
}
