package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/obeddx/notarichCafe-sub002/internal/catalog/domain"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
)

// Reference entity endpoints share one create/list/deactivate shape, so
// they are registered generically instead of five near-identical handlers.

func (h *CatalogHandler) registerReferenceRoutes(router *mux.Router) {
	router.HandleFunc("/api/category", h.listCategories).Methods("GET")
	router.HandleFunc("/api/category", h.createCategory).Methods("POST")
	router.HandleFunc("/api/category/{id}", h.deactivate(&domain.Category{})).Methods("DELETE")

	router.HandleFunc("/api/modifier", h.listModifiers).Methods("GET")
	router.HandleFunc("/api/modifier", h.createModifier).Methods("POST")
	router.HandleFunc("/api/modifier/{id}", h.deactivate(&domain.Modifier{})).Methods("DELETE")

	router.HandleFunc("/api/discount", h.listDiscounts).Methods("GET")
	router.HandleFunc("/api/discount", h.createDiscount).Methods("POST")
	router.HandleFunc("/api/discount/{id}", h.deactivate(&domain.Discount{})).Methods("DELETE")

	router.HandleFunc("/api/tax", h.listTaxes).Methods("GET")
	router.HandleFunc("/api/tax", h.createTax).Methods("POST")
	router.HandleFunc("/api/tax/{id}", h.deactivate(&domain.Tax{})).Methods("DELETE")

	router.HandleFunc("/api/gratuity", h.listGratuities).Methods("GET")
	router.HandleFunc("/api/gratuity", h.createGratuity).Methods("POST")
	router.HandleFunc("/api/gratuity/{id}", h.deactivate(&domain.Gratuity{})).Methods("DELETE")
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.references.FindCategories()
	if err != nil {
		respondError(w, apperr.Persistence("failed to list categories", err))
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: categories})
}

func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, apperr.Validation("name is required"))
		return
	}

	category := &domain.Category{Name: req.Name, IsActive: true}
	if err := h.references.CreateCategory(category); err != nil {
		respondError(w, apperr.Persistence("failed to create category", err))
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Data: category})
}

func (h *CatalogHandler) listModifiers(w http.ResponseWriter, r *http.Request) {
	modifiers, err := h.references.FindModifiers()
	if err != nil {
		respondError(w, apperr.Persistence("failed to list modifiers", err))
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: modifiers})
}

func (h *CatalogHandler) createModifier(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, apperr.Validation("name is required"))
		return
	}
	if req.Price < 0 {
		respondError(w, apperr.Validation("price must not be negative"))
		return
	}

	modifier := &domain.Modifier{Name: req.Name, Price: req.Price, IsActive: true}
	if err := h.references.CreateModifier(modifier); err != nil {
		respondError(w, apperr.Persistence("failed to create modifier", err))
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Data: modifier})
}

func (h *CatalogHandler) listDiscounts(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.references.FindDiscounts()
	if err != nil {
		respondError(w, apperr.Persistence("failed to list discounts", err))
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: discounts})
}

func (h *CatalogHandler) createDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string  `json:"name"`
		Type  string  `json:"type"`
		Scale float64 `json:"scale"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, apperr.Validation("name is required"))
		return
	}
	if req.Type == "" {
		req.Type = domain.DiscountPercentage
	}
	if req.Type != domain.DiscountPercentage && req.Type != domain.DiscountNormal {
		respondError(w, apperr.Validation("type must be PERCENTAGE or NORMAL"))
		return
	}
	if req.Scale <= 0 {
		respondError(w, apperr.Validation("scale must be positive"))
		return
	}

	discount := &domain.Discount{Name: req.Name, Type: req.Type, Scale: req.Scale, IsActive: true}
	if err := h.references.CreateDiscount(discount); err != nil {
		respondError(w, apperr.Persistence("failed to create discount", err))
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Data: discount})
}

func (h *CatalogHandler) listTaxes(w http.ResponseWriter, r *http.Request) {
	taxes, err := h.references.FindTaxes()
	if err != nil {
		respondError(w, apperr.Persistence("failed to list taxes", err))
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: taxes})
}

func (h *CatalogHandler) createTax(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" || req.Value <= 0 {
		respondError(w, apperr.Validation("name and a positive value are required"))
		return
	}

	tax := &domain.Tax{Name: req.Name, Value: req.Value, IsActive: true}
	if err := h.references.CreateTax(tax); err != nil {
		respondError(w, apperr.Persistence("failed to create tax", err))
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Data: tax})
}

func (h *CatalogHandler) listGratuities(w http.ResponseWriter, r *http.Request) {
	gratuities, err := h.references.FindGratuities()
	if err != nil {
		respondError(w, apperr.Persistence("failed to list gratuities", err))
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: gratuities})
}

func (h *CatalogHandler) createGratuity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" || req.Value <= 0 {
		respondError(w, apperr.Validation("name and a positive value are required"))
		return
	}

	gratuity := &domain.Gratuity{Name: req.Name, Value: req.Value, IsActive: true}
	if err := h.references.CreateGratuity(gratuity); err != nil {
		respondError(w, apperr.Persistence("failed to create gratuity", err))
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Data: gratuity})
}

func (h *CatalogHandler) deactivate(model interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}
		if err := h.references.DeactivateReference(model, id); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Message: "Record deactivated"})
	}
}
