package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/obeddx/notarichCafe-sub002/internal/inventory/domain"
	"github.com/obeddx/notarichCafe-sub002/internal/inventory/usecase/command"
	"github.com/obeddx/notarichCafe-sub002/internal/inventory/usecase/query"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// InventoryHandler handles HTTP requests for both stock ledgers using the
// CQRS pattern.
type InventoryHandler struct {
	// Command handlers
	movementHandler *command.RecordMovementHandler
	rolloverHandler *command.RolloverHandler

	// Query handlers
	reportHandler   *query.StockReportHandler
	byStockHandler  *query.ListByStockHandler
	lowStockHandler *query.LowStockHandler

	repo          domain.LedgerRepository
	suppliers     domain.SupplierRepository
	lowStockGauge prometheus.Gauge
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(repo domain.LedgerRepository, suppliers domain.SupplierRepository) *InventoryHandler {
	lowStockGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cafe_ingredients_below_minimum",
		Help: "Number of active ingredients whose stock is under their minimum",
	})
	prometheus.MustRegister(lowStockGauge)

	return &InventoryHandler{
		movementHandler: command.NewRecordMovementHandler(repo),
		rolloverHandler: command.NewRolloverHandler(repo),
		reportHandler:   query.NewStockReportHandler(repo),
		byStockHandler:  query.NewListByStockHandler(repo),
		lowStockHandler: query.NewLowStockHandler(repo),
		repo:            repo,
		suppliers:       suppliers,
		lowStockGauge:   lowStockGauge,
	}
}

// CreateIngredient handles POST /api/ingredient
func (h *InventoryHandler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string                `json:"name"`
		Unit     string                `json:"unit"`
		Type     domain.IngredientType `json:"type"`
		Start    float64               `json:"start"`
		StockMin float64               `json:"stock_min"`
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
		req.Type = domain.IngredientRaw
	}
	if req.Type != domain.IngredientRaw && req.Type != domain.IngredientSemiFinished {
		respondError(w, apperr.Validation("type must be RAW or SEMI_FINISHED"))
		return
	}

	ingredient := &domain.Ingredient{
		Name:     req.Name,
		Unit:     req.Unit,
		Type:     req.Type,
		StockMin: req.StockMin,
		IsActive: true,
	}
	ingredient.Start = req.Start
	ingredient.Recompute()

	if err := h.repo.CreateIngredient(ingredient); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create ingredient")
		respondError(w, apperr.Persistence("failed to create ingredient", err))
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Ingredient created successfully",
		Data:    ingredient,
	})
}

// GetIngredient handles GET /api/ingredient/{id}
func (h *InventoryHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	ingredient, err := h.repo.FindIngredient(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: ingredient})
}

// ListIngredients handles GET /api/ingredient
func (h *InventoryHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.repo.FindActiveIngredients()
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list ingredients")
		respondError(w, apperr.Persistence("failed to list ingredients", err))
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: ingredients})
}

// DeactivateIngredient handles DELETE /api/ingredient/{id}
func (h *InventoryHandler) DeactivateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.repo.DeactivateIngredient(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Ingredient deactivated",
	})
}

// RecordMovement handles POST /api/inventory/{ledger}/{id}/movement
func (h *InventoryHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		StockIn *float64 `json:"stock_in"`
		Used    *float64 `json:"used"`
		Wasted  *float64 `json:"wasted"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	counters, err := h.movementHandler.Handle(command.RecordMovementCommand{
		Ledger:   domain.LedgerKind(vars["ledger"]),
		EntityID: id,
		Delta: command.MovementDelta{
			StockIn: req.StockIn,
			Used:    req.Used,
			Wasted:  req.Wasted,
		},
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.refreshLowStockGauge()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Movement recorded",
		Data:    counters,
	})
}

// Rollover handles POST /api/inventory/rollover
func (h *InventoryHandler) Rollover(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AsOf string `json:"as_of"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	asOf := time.Now()
	if req.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			respondError(w, apperr.Validation("as_of must be YYYY-MM-DD"))
			return
		}
		asOf = parsed
	}

	result, err := h.rolloverHandler.Handle(command.RolloverCommand{AsOf: asOf})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Rollover finished",
		Data:    result,
	})
}

// StockReport handles GET /api/inventory/{ledger}/report?start=&end=
func (h *InventoryHandler) StockReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		respondError(w, apperr.Validation("start must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		respondError(w, apperr.Validation("end must be YYYY-MM-DD"))
		return
	}

	report, err := h.reportHandler.Handle(query.StockReportQuery{
		Ledger: domain.LedgerKind(vars["ledger"]),
		Start:  start,
		End:    end,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: report})
}

// ListByStock handles GET /api/ingredient/stock?operator=lt&threshold=20
func (h *InventoryHandler) ListByStock(w http.ResponseWriter, r *http.Request) {
	threshold, err := strconv.ParseFloat(r.URL.Query().Get("threshold"), 64)
	if err != nil {
		respondError(w, apperr.Validation("threshold must be a number"))
		return
	}

	ingredients, err := h.byStockHandler.Handle(query.ListByStockQuery{
		Operator:  r.URL.Query().Get("operator"),
		Threshold: threshold,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: ingredients})
}

// CreateGudang handles POST /api/gudang
func (h *InventoryHandler) CreateGudang(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IngredientID uint    `json:"ingredient_id"`
		Name         string  `json:"name"`
		Unit         string  `json:"unit"`
		Start        float64 `json:"start"`
		StockMin     float64 `json:"stock_min"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.IngredientID == 0 {
		respondError(w, apperr.Validation("ingredient_id is required"))
		return
	}

	if _, err := h.repo.FindIngredient(req.IngredientID); err != nil {
		respondError(w, err)
		return
	}

	gudang := &domain.Gudang{
		IngredientID: req.IngredientID,
		Name:         req.Name,
		Unit:         req.Unit,
		StockMin:     req.StockMin,
		IsActive:     true,
	}
	gudang.Start = req.Start
	gudang.Recompute()

	if err := h.repo.CreateGudang(gudang); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create gudang entry")
		respondError(w, apperr.Persistence("failed to create gudang entry", err))
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Gudang entry created successfully",
		Data:    gudang,
	})
}

// ListGudang handles GET /api/gudang
func (h *InventoryHandler) ListGudang(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.FindActiveGudang()
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list gudang entries")
		respondError(w, apperr.Persistence("failed to list gudang entries", err))
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: entries})
}

// CreateSupplier handles POST /api/supplier
func (h *InventoryHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, apperr.Validation("name is required"))
		return
	}

	supplier := &domain.Supplier{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
	}
	if err := h.suppliers.Create(supplier); err != nil {
		respondError(w, apperr.Persistence("failed to create supplier", err))
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Supplier created successfully",
		Data:    supplier,
	})
}

// ListSuppliers handles GET /api/supplier
func (h *InventoryHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}

	suppliers, err := h.suppliers.FindAll(limit, offset)
	if err != nil {
		respondError(w, apperr.Persistence("failed to list suppliers", err))
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: suppliers})
}

// DeactivateSupplier handles DELETE /api/supplier/{id}
func (h *InventoryHandler) DeactivateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.suppliers.Deactivate(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Supplier deactivated"})
}

// RegisterRoutes registers all inventory routes.
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/ingredient", h.ListIngredients).Methods("GET")
	router.HandleFunc("/api/ingredient", h.CreateIngredient).Methods("POST")
	router.HandleFunc("/api/ingredient/stock", h.ListByStock).Methods("GET")
	router.HandleFunc("/api/ingredient/{id}", h.GetIngredient).Methods("GET")
	router.HandleFunc("/api/ingredient/{id}", h.DeactivateIngredient).Methods("DELETE")

	router.HandleFunc("/api/gudang", h.ListGudang).Methods("GET")
	router.HandleFunc("/api/gudang", h.CreateGudang).Methods("POST")

	router.HandleFunc("/api/inventory/rollover", h.Rollover).Methods("POST")
	router.HandleFunc("/api/inventory/{ledger}/report", h.StockReport).Methods("GET")
	router.HandleFunc("/api/inventory/{ledger}/{id}/movement", h.RecordMovement).Methods("POST")

	router.HandleFunc("/api/supplier", h.ListSuppliers).Methods("GET")
	router.HandleFunc("/api/supplier", h.CreateSupplier).Methods("POST")
	router.HandleFunc("/api/supplier/{id}", h.DeactivateSupplier).Methods("DELETE")
}

// RegisterHealthCheck registers the health check endpoint.
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Cafe service is healthy",
		})
	}).Methods("GET")
}

func (h *InventoryHandler) refreshLowStockGauge() {
	count, err := h.lowStockHandler.Handle()
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to refresh low stock gauge")
		return
	}
	h.lowStockGauge.Set(float64(count))
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
